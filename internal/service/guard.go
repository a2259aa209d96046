package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clan-bingo/internal/model"
	"clan-bingo/internal/repository"
	pkgerrors "clan-bingo/pkg/errors"
	"clan-bingo/pkg/metrics"
)

// guard 工作流协调器的公共部分：鉴权、成员校验、存储超时与错误归类。
// 每次调用都重新读取管理员白名单与成员关系，撤销在下一次调用立即生效。
type guard struct {
	repo    *repository.Repository
	timeout time.Duration
	logger  *zap.Logger
	now     func() time.Time
}

func newGuard(repo *repository.Repository, timeout time.Duration, logger *zap.Logger) *guard {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &guard{repo: repo, timeout: timeout, logger: logger, now: time.Now}
}

// storeCtx 为单次存储调用加上超时
func (g *guard) storeCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, g.timeout)
}

// unavailable 记录非预期的存储错误并归类为 Unavailable
func (g *guard) unavailable(msg string, err error, fields ...zap.Field) error {
	g.logger.Error(msg, append(fields, zap.Error(err))...)
	return pkgerrors.ErrUnavailable.Wrap(err)
}

// isAdmin 读取白名单；任何错误都按非管理员处理
func (g *guard) isAdmin(ctx context.Context, userID string) bool {
	if userID == "" {
		return false
	}
	sctx, cancel := g.storeCtx(ctx)
	defer cancel()

	ok, err := g.repo.Admin.Exists(sctx, userID)
	if err != nil {
		g.logger.Warn("查询管理员白名单失败，按无权限处理", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return ok
}

func (g *guard) requireUser(userID string) error {
	if userID == "" {
		return pkgerrors.ErrUnauthenticated
	}
	return nil
}

// requireAdmin 非管理员一律 Forbidden
func (g *guard) requireAdmin(ctx context.Context, userID string) error {
	if err := g.requireUser(userID); err != nil {
		return err
	}
	if !g.isAdmin(ctx, userID) {
		return pkgerrors.ErrForbidden
	}
	return nil
}

// requireTeamAccess 管理员可访问任意存在的队伍；普通用户必须是该队伍成员
func (g *guard) requireTeamAccess(ctx context.Context, userID, teamID string) (bool, error) {
	if err := g.requireUser(userID); err != nil {
		return false, err
	}
	sctx, cancel := g.storeCtx(ctx)
	defer cancel()

	if g.isAdmin(ctx, userID) {
		if _, err := g.repo.Team.GetByID(sctx, teamID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return true, ErrTeamNotFound
			}
			return true, g.unavailable("查询队伍失败", err, zap.String("team_id", teamID))
		}
		return true, nil
	}

	member, err := g.repo.Member.Exists(sctx, teamID, userID)
	if err != nil {
		return false, g.unavailable("查询成员关系失败", err,
			zap.String("team_id", teamID), zap.String("user_id", userID))
	}
	if !member {
		return false, pkgerrors.ErrForbidden
	}
	return false, nil
}

// labels 批量解析用户展示名；资料缺失时回退为 ID 前缀
func (g *guard) labels(ctx context.Context, userIDs []string) map[string]string {
	out := make(map[string]string, len(userIDs))
	if len(userIDs) == 0 {
		return out
	}
	sctx, cancel := g.storeCtx(ctx)
	defer cancel()

	profiles, err := g.repo.Profile.ListByIDs(sctx, userIDs)
	if err != nil {
		g.logger.Warn("批量查询用户资料失败，回退为 ID", zap.Error(err))
	}
	for i := range profiles {
		out[profiles[i].UserID] = profiles[i].Label()
	}
	for _, id := range userIDs {
		if _, ok := out[id]; !ok {
			out[id] = (&model.Profile{UserID: id}).Label()
		}
	}
	return out
}

// track 记录一次工作流操作结果，配合命名返回值在 defer 中使用
func track(action string, errp *error) {
	outcome := "ok"
	if *errp != nil {
		outcome = string(pkgerrors.KindOf(*errp))
	}
	metrics.RecordWorkflow(action, outcome)
}
