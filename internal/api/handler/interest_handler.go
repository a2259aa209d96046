package handler

import (
	"github.com/gin-gonic/gin"

	"clan-bingo/internal/service"
	"clan-bingo/pkg/response"
)

// InterestHandler 格子意向 HTTP 处理器
type InterestHandler struct {
	svc service.InterestService
}

// NewInterestHandler 创建 InterestHandler
func NewInterestHandler(svc service.InterestService) *InterestHandler {
	return &InterestHandler{svc: svc}
}

// Toggle 切换当前用户对格子的意向
// POST /api/v1/squares/:id/interest
func (h *InterestHandler) Toggle(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	squareID, ok := pathID(c, "id", "格子ID")
	if !ok {
		return
	}
	resp, err := h.svc.Toggle(c.Request.Context(), userID, squareID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// ListForSquare 有意向的用户
// GET /api/v1/squares/:id/interest
func (h *InterestHandler) ListForSquare(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	squareID, ok := pathID(c, "id", "格子ID")
	if !ok {
		return
	}
	resp, err := h.svc.ListForSquare(c.Request.Context(), userID, squareID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// ListForTeam 队伍内按格子分组的意向
// GET /api/v1/teams/:id/interests
func (h *InterestHandler) ListForTeam(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "队伍ID")
	if !ok {
		return
	}
	groups, err := h.svc.ListForTeam(c.Request.Context(), userID, teamID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": groups})
}
