package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clan-bingo/internal/dto"
	"clan-bingo/internal/model"
)

const maxRSNLength = 64

// ProfileService 当前用户资料
type ProfileService interface {
	Me(ctx context.Context, userID string) (*dto.MeResponse, error)
	// SetDisplayRSN 设置游戏角色名；空白清除
	SetDisplayRSN(ctx context.Context, userID, rsn string) (*dto.MeResponse, error)
}

type profileService struct {
	g      *guard
	logger *zap.Logger
}

// NewProfileService 创建 ProfileService 实例
func NewProfileService(g *guard, logger *zap.Logger) ProfileService {
	return &profileService{g: g, logger: logger}
}

func (s *profileService) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	if err := s.g.requireUser(userID); err != nil {
		return nil, err
	}
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	profile, err := s.g.repo.Profile.GetByID(sctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, s.g.unavailable("查询用户资料失败", err, zap.String("user_id", userID))
	}
	return s.toMeResponse(profile, s.g.isAdmin(ctx, userID)), nil
}

func (s *profileService) SetDisplayRSN(ctx context.Context, userID, rsn string) (_ *dto.MeResponse, err error) {
	defer track("set_rsn", &err)

	if err := s.g.requireUser(userID); err != nil {
		return nil, err
	}
	rsn = strings.TrimSpace(rsn)
	if utf8.RuneCountInString(rsn) > maxRSNLength {
		return nil, ErrRSNTooLong
	}
	var value *string
	if rsn != "" {
		value = &rsn
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	if err := s.g.repo.Profile.SetRSN(sctx, userID, value); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, s.g.unavailable("更新 RSN 失败", err, zap.String("user_id", userID))
	}
	return s.Me(ctx, userID)
}

func (s *profileService) toMeResponse(p *model.Profile, isAdmin bool) *dto.MeResponse {
	return &dto.MeResponse{
		UserID:      p.UserID,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		RSN:         p.RSN,
		Label:       p.Label(),
		IsAdmin:     isAdmin,
	}
}
