package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clan-bingo/internal/model"
	pkgerrors "clan-bingo/pkg/errors"
	"clan-bingo/pkg/jwt"
)

// TokenVerifier 身份提供方 Token 校验能力（*jwt.Manager 实现）
type TokenVerifier interface {
	ParseToken(token string) (*jwt.Claims, error)
}

// UserIdentity 已认证的调用方
type UserIdentity struct {
	UserID      string
	DisplayName string
	AvatarURL   string
}

// IdentityService 身份网关：Token → 用户身份，管理员判定
type IdentityService interface {
	// Authenticate 校验 Token 并在首次出现时创建用户资料
	Authenticate(ctx context.Context, token string) (*UserIdentity, error)
	// IsAdmin 每次调用都读取白名单，不做缓存
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type identityService struct {
	g        *guard
	verifier TokenVerifier
	logger   *zap.Logger
}

// NewIdentityService 创建 IdentityService 实例
func NewIdentityService(g *guard, verifier TokenVerifier, logger *zap.Logger) IdentityService {
	return &identityService{g: g, verifier: verifier, logger: logger}
}

func (s *identityService) Authenticate(ctx context.Context, token string) (*UserIdentity, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.ErrUnauthenticated
	}
	claims, err := s.verifier.ParseToken(token)
	if err != nil {
		return nil, pkgerrors.ErrUnauthenticated.Wrap(err)
	}

	ident := &UserIdentity{
		UserID:      claims.Subject,
		DisplayName: claims.DisplayName(),
		AvatarURL:   claims.UserMetadata.AvatarURL,
	}
	if err := s.ensureProfile(ctx, ident); err != nil {
		return nil, err
	}
	return ident, nil
}

// ensureProfile 首次登录插入资料；Token 带有新的展示名或头像时刷新
func (s *identityService) ensureProfile(ctx context.Context, ident *UserIdentity) error {
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	existing, err := s.g.repo.Profile.GetByID(sctx, ident.UserID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return s.g.unavailable("查询用户资料失败", err, zap.String("user_id", ident.UserID))
	}

	var refresh []string
	if existing != nil {
		if ident.DisplayName != "" && ident.DisplayName != existing.DisplayName {
			refresh = append(refresh, "display_name")
		}
		if ident.AvatarURL != "" && (existing.AvatarURL == nil || *existing.AvatarURL != ident.AvatarURL) {
			refresh = append(refresh, "avatar_url")
		}
		if len(refresh) == 0 {
			return nil
		}
	}

	profile := &model.Profile{UserID: ident.UserID, DisplayName: ident.DisplayName}
	if ident.AvatarURL != "" {
		profile.AvatarURL = &ident.AvatarURL
	}
	if err := s.g.repo.Profile.Upsert(sctx, profile, refresh); err != nil {
		return s.g.unavailable("写入用户资料失败", err, zap.String("user_id", ident.UserID))
	}
	if existing == nil {
		s.logger.Info("新用户首次登录", zap.String("user_id", ident.UserID))
	}
	return nil
}

func (s *identityService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, pkgerrors.ErrUnauthenticated
	}
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	ok, err := s.g.repo.Admin.Exists(sctx, userID)
	if err != nil {
		return false, s.g.unavailable("查询管理员白名单失败", err, zap.String("user_id", userID))
	}
	return ok, nil
}
