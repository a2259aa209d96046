package handler

import (
	"github.com/gin-gonic/gin"

	"clan-bingo/internal/dto"
	"clan-bingo/internal/service"
	"clan-bingo/pkg/response"
)

// BoardHandler 棋盘目录 HTTP 处理器
type BoardHandler struct {
	svc service.BoardService
}

// NewBoardHandler 创建 BoardHandler
func NewBoardHandler(svc service.BoardService) *BoardHandler {
	return &BoardHandler{svc: svc}
}

// ListSquares 队伍棋盘
// GET /api/v1/teams/:id/squares
func (h *BoardHandler) ListSquares(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "队伍ID")
	if !ok {
		return
	}
	squares, err := h.svc.ListSquares(c.Request.Context(), userID, teamID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": squares})
}

// Seed 初始化棋盘（管理员）
// POST /api/v1/teams/:id/squares/seed
func (h *BoardHandler) Seed(c *gin.Context) {
	h.applyTemplate(c, false)
}

// ApplyDefaults 重新应用模板（管理员）
// POST /api/v1/teams/:id/squares/apply-defaults
func (h *BoardHandler) ApplyDefaults(c *gin.Context) {
	h.applyTemplate(c, true)
}

func (h *BoardHandler) applyTemplate(c *gin.Context, overwrite bool) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "队伍ID")
	if !ok {
		return
	}

	// 请求体可省略，省略时使用默认模板
	var req dto.SeedSquaresRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	var (
		squares []dto.SquareResponse
		err     error
	)
	if overwrite {
		squares, err = h.svc.ApplyDefaults(c.Request.Context(), userID, teamID, req.Template)
	} else {
		squares, err = h.svc.Seed(c.Request.Context(), userID, teamID, req.Template)
	}
	if err != nil {
		handleError(c, err)
		return
	}
	if overwrite {
		response.OK(c, gin.H{"list": squares})
		return
	}
	response.Created(c, gin.H{"list": squares})
}

// Edit 编辑格子（管理员）
// PATCH /api/v1/squares/:id
func (h *BoardHandler) Edit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	squareID, ok := pathID(c, "id", "格子ID")
	if !ok {
		return
	}
	var req dto.EditSquareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	square, err := h.svc.Edit(c.Request.Context(), userID, squareID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, square)
}

// SetCompleted 标记或取消格子完成（管理员）
// PUT /api/v1/squares/:id/completed
func (h *BoardHandler) SetCompleted(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	squareID, ok := pathID(c, "id", "格子ID")
	if !ok {
		return
	}
	var req dto.SetCompletedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	square, err := h.svc.SetCompleted(c.Request.Context(), userID, squareID, *req.Completed)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, square)
}
