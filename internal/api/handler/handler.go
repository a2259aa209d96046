package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"clan-bingo/internal/service"
	pkgerrors "clan-bingo/pkg/errors"
	"clan-bingo/pkg/response"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Profile  *ProfileHandler
	Admin    *AdminHandler
	Team     *TeamHandler
	Board    *BoardHandler
	Claim    *ClaimHandler
	Interest *InterestHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Profile:  NewProfileHandler(svc.Profile),
		Admin:    NewAdminHandler(svc.Admin),
		Team:     NewTeamHandler(svc.Team),
		Board:    NewBoardHandler(svc.Board),
		Claim:    NewClaimHandler(svc.Claim),
		Interest: NewInterestHandler(svc.Interest),
	}
}

// handleError 业务错误 → HTTP 状态码的唯一映射点
func handleError(c *gin.Context, err error) {
	var appErr *pkgerrors.AppError
	if !errors.As(err, &appErr) {
		response.InternalError(c)
		return
	}

	switch appErr.Kind {
	case pkgerrors.KindUnauthenticated:
		response.Unauthorized(c, appErr.Code, appErr.Message)
	case pkgerrors.KindForbidden:
		response.Forbidden(c, appErr.Code, appErr.Message)
	case pkgerrors.KindNotFound:
		response.NotFound(c, appErr.Code, appErr.Message)
	case pkgerrors.KindInvalidInput:
		response.BadRequest(c, appErr.Code, appErr.Message)
	case pkgerrors.KindConflict, pkgerrors.KindInvalidState:
		response.Conflict(c, appErr.Code, appErr.Message)
	case pkgerrors.KindUnavailable:
		response.ServiceUnavailable(c, appErr.Code, appErr.Message)
	default:
		response.Error(c, http.StatusInternalServerError, appErr.Code, appErr.Message)
	}
}

// pathID 读取并校验 UUID 形式的路径参数；失败时已写入 400 响应
func pathID(c *gin.Context, name, label string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		response.BadRequest(c, 10001, label+"格式无效")
		return "", false
	}
	return id, true
}
