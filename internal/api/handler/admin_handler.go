package handler

import (
	"github.com/gin-gonic/gin"

	"clan-bingo/internal/service"
	"clan-bingo/pkg/response"
)

// AdminHandler 管理员白名单 HTTP 处理器
type AdminHandler struct {
	svc service.AdminService
}

// NewAdminHandler 创建 AdminHandler
func NewAdminHandler(svc service.AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// List 管理员列表
// GET /api/v1/admin/admins
func (h *AdminHandler) List(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	admins, err := h.svc.ListAdmins(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": admins})
}

// Grant 授予管理员
// PUT /api/v1/admin/admins/:user_id
func (h *AdminHandler) Grant(c *gin.Context) {
	h.set(c, true)
}

// Revoke 撤销管理员
// DELETE /api/v1/admin/admins/:user_id
func (h *AdminHandler) Revoke(c *gin.Context) {
	h.set(c, false)
}

func (h *AdminHandler) set(c *gin.Context, makeAdmin bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	target := c.Param("user_id")
	if err := h.svc.SetAdmin(c.Request.Context(), userID, target, makeAdmin); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"user_id": target, "is_admin": makeAdmin})
}
