package handler

import (
	"github.com/gin-gonic/gin"

	"clan-bingo/internal/dto"
	"clan-bingo/internal/service"
	"clan-bingo/pkg/response"
)

// TeamHandler 队伍目录 HTTP 处理器
type TeamHandler struct {
	svc service.TeamService
}

// NewTeamHandler 创建 TeamHandler
func NewTeamHandler(svc service.TeamService) *TeamHandler {
	return &TeamHandler{svc: svc}
}

// Create 创建队伍（管理员）
// POST /api/v1/teams
func (h *TeamHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	team, err := h.svc.Create(c.Request.Context(), userID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, team)
}

// Join 通过邀请码加入队伍
// POST /api/v1/teams/join
func (h *TeamHandler) Join(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var req dto.JoinTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	team, err := h.svc.Join(c.Request.Context(), userID, req.JoinCode)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, team)
}

// ListMine 我加入的队伍
// GET /api/v1/teams/mine
func (h *TeamHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	teams, err := h.svc.ListMine(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": teams})
}

// ListAll 全部队伍概览（管理员）
// GET /api/v1/admin/teams
func (h *TeamHandler) ListAll(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	teams, err := h.svc.ListAll(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": teams})
}

// Get 队伍详情
// GET /api/v1/teams/:id
func (h *TeamHandler) Get(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "队伍ID")
	if !ok {
		return
	}
	team, err := h.svc.Get(c.Request.Context(), userID, teamID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, team)
}

// Leave 退出队伍
// DELETE /api/v1/teams/:id/membership
func (h *TeamHandler) Leave(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "队伍ID")
	if !ok {
		return
	}
	if err := h.svc.Leave(c.Request.Context(), userID, teamID); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}

// ListMembers 队伍成员
// GET /api/v1/teams/:id/members
func (h *TeamHandler) ListMembers(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "队伍ID")
	if !ok {
		return
	}
	members, err := h.svc.ListMembers(c.Request.Context(), userID, teamID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": members})
}

// Delete 删除队伍（管理员，级联）
// DELETE /api/v1/teams/:id
func (h *TeamHandler) Delete(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	teamID, ok := pathID(c, "id", "队伍ID")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), userID, teamID); err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, nil)
}
