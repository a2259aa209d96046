package handler

import (
	"github.com/gin-gonic/gin"

	"clan-bingo/internal/dto"
	"clan-bingo/internal/service"
	"clan-bingo/pkg/response"
)

// ProfileHandler 当前用户资料 HTTP 处理器
type ProfileHandler struct {
	svc service.ProfileService
}

// NewProfileHandler 创建 ProfileHandler
func NewProfileHandler(svc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// Me 当前用户资料与管理员标记
// GET /api/v1/me
func (h *ProfileHandler) Me(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	me, err := h.svc.Me(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, me)
}

// SetRSN 设置游戏角色名
// PUT /api/v1/me/rsn
func (h *ProfileHandler) SetRSN(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.SetRSNRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	me, err := h.svc.SetDisplayRSN(c.Request.Context(), userID, req.RSN)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, me)
}
