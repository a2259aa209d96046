package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"clan-bingo/internal/dto"
	"clan-bingo/internal/model"
)

// AdminService 管理员白名单维护
type AdminService interface {
	// SetAdmin 授予或撤销管理员；撤销立即生效
	SetAdmin(ctx context.Context, actorID, targetID string, makeAdmin bool) error
	ListAdmins(ctx context.Context, actorID string) ([]dto.AdminResponse, error)
	// Bootstrap 启动时把配置中的用户写入白名单（幂等）
	Bootstrap(ctx context.Context, userIDs []string) error
}

type adminService struct {
	g      *guard
	logger *zap.Logger
}

// NewAdminService 创建 AdminService 实例
func NewAdminService(g *guard, logger *zap.Logger) AdminService {
	return &adminService{g: g, logger: logger}
}

func (s *adminService) SetAdmin(ctx context.Context, actorID, targetID string, makeAdmin bool) (err error) {
	defer track("set_admin", &err)

	if err := s.g.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	targetID = strings.TrimSpace(targetID)
	if targetID == "" {
		return ErrUserIDRequired
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	if makeAdmin {
		if err := s.g.repo.Admin.Add(sctx, &model.AppAdmin{UserID: targetID, CreatedBy: &actorID}); err != nil {
			return s.g.unavailable("添加管理员失败", err, zap.String("target", targetID))
		}
		s.logger.Info("已授予管理员", zap.String("actor", actorID), zap.String("target", targetID))
		return nil
	}

	if targetID == actorID {
		return ErrCannotRemoveSelf
	}
	removed, err := s.g.repo.Admin.Remove(sctx, targetID)
	if err != nil {
		return s.g.unavailable("移除管理员失败", err, zap.String("target", targetID))
	}
	if removed {
		s.logger.Info("已撤销管理员", zap.String("actor", actorID), zap.String("target", targetID))
	}
	return nil
}

func (s *adminService) ListAdmins(ctx context.Context, actorID string) ([]dto.AdminResponse, error) {
	if err := s.g.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	admins, err := s.g.repo.Admin.List(sctx)
	if err != nil {
		return nil, s.g.unavailable("列出管理员失败", err)
	}

	ids := make([]string, 0, len(admins))
	for _, a := range admins {
		ids = append(ids, a.UserID)
	}
	labels := s.g.labels(ctx, ids)

	result := make([]dto.AdminResponse, 0, len(admins))
	for _, a := range admins {
		result = append(result, dto.AdminResponse{
			UserID:    a.UserID,
			Label:     labels[a.UserID],
			CreatedBy: a.CreatedBy,
			CreatedAt: a.CreatedAt.UTC().Format(dto.TimeLayout),
		})
	}
	return result, nil
}

func (s *adminService) Bootstrap(ctx context.Context, userIDs []string) error {
	for _, id := range userIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		sctx, cancel := s.g.storeCtx(ctx)
		err := s.g.repo.Admin.Add(sctx, &model.AppAdmin{UserID: id})
		cancel()
		if err != nil {
			s.logger.Error("写入初始管理员失败", zap.String("user_id", id), zap.Error(err))
			return err
		}
	}
	if len(userIDs) > 0 {
		s.logger.Info("初始管理员已就绪", zap.Int("count", len(userIDs)))
	}
	return nil
}
