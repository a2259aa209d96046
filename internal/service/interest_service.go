package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clan-bingo/internal/dto"
	"clan-bingo/internal/model"
)

// InterestService 格子意向：纯展示，不影响提交凭证
type InterestService interface {
	Toggle(ctx context.Context, actorID, squareID string) (*dto.ToggleInterestResponse, error)
	ListForSquare(ctx context.Context, actorID, squareID string) (*dto.SquareInterestResponse, error)
	// ListForTeam 按格子分组，只包含有意向的格子
	ListForTeam(ctx context.Context, actorID, teamID string) ([]dto.SquareInterestResponse, error)
}

type interestService struct {
	g      *guard
	logger *zap.Logger
}

// NewInterestService 创建 InterestService 实例
func NewInterestService(g *guard, logger *zap.Logger) InterestService {
	return &interestService{g: g, logger: logger}
}

func (s *interestService) Toggle(ctx context.Context, actorID, squareID string) (_ *dto.ToggleInterestResponse, err error) {
	defer track("toggle_interest", &err)

	if err := s.g.requireUser(actorID); err != nil {
		return nil, err
	}
	square, err := s.square(ctx, squareID)
	if err != nil {
		return nil, err
	}
	if _, err := s.g.requireTeamAccess(ctx, actorID, square.TeamID); err != nil {
		return nil, err
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	interested, err := s.g.repo.Interest.Toggle(sctx, squareID, actorID)
	if err != nil {
		return nil, s.g.unavailable("切换意向失败", err,
			zap.String("square_id", squareID), zap.String("user_id", actorID))
	}
	return &dto.ToggleInterestResponse{SquareID: squareID, Interested: interested}, nil
}

func (s *interestService) ListForSquare(ctx context.Context, actorID, squareID string) (*dto.SquareInterestResponse, error) {
	square, err := s.square(ctx, squareID)
	if err != nil {
		return nil, err
	}
	if _, err := s.g.requireTeamAccess(ctx, actorID, square.TeamID); err != nil {
		return nil, err
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	rows, err := s.g.repo.Interest.ListBySquare(sctx, squareID)
	if err != nil {
		return nil, s.g.unavailable("查询意向失败", err, zap.String("square_id", squareID))
	}
	groups := s.group(ctx, rows)
	if len(groups) == 0 {
		return &dto.SquareInterestResponse{SquareID: squareID, Users: []dto.UserLabel{}}, nil
	}
	return &groups[0], nil
}

func (s *interestService) ListForTeam(ctx context.Context, actorID, teamID string) ([]dto.SquareInterestResponse, error) {
	if _, err := s.g.requireTeamAccess(ctx, actorID, teamID); err != nil {
		return nil, err
	}
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	rows, err := s.g.repo.Interest.ListByTeam(sctx, teamID)
	if err != nil {
		return nil, s.g.unavailable("查询队伍意向失败", err, zap.String("team_id", teamID))
	}
	return s.group(ctx, rows), nil
}

// group 按格子分组并去重用户，保持首次出现顺序
func (s *interestService) group(ctx context.Context, rows []model.SquareInterest) []dto.SquareInterestResponse {
	var (
		order  []string
		users  = make(map[string][]string)
		seen   = make(map[string]bool)
		allIDs []string
	)
	for _, r := range rows {
		if _, ok := users[r.SquareID]; !ok {
			order = append(order, r.SquareID)
		}
		pair := r.SquareID + "|" + r.UserID
		if seen[pair] {
			continue
		}
		seen[pair] = true
		users[r.SquareID] = append(users[r.SquareID], r.UserID)
		allIDs = append(allIDs, r.UserID)
	}

	labels := s.g.labels(ctx, allIDs)
	result := make([]dto.SquareInterestResponse, 0, len(order))
	for _, sq := range order {
		item := dto.SquareInterestResponse{SquareID: sq, Users: make([]dto.UserLabel, 0, len(users[sq]))}
		for _, uid := range users[sq] {
			item.Users = append(item.Users, dto.UserLabel{UserID: uid, Label: labels[uid]})
		}
		result = append(result, item)
	}
	return result
}

func (s *interestService) square(ctx context.Context, squareID string) (*model.Square, error) {
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	square, err := s.g.repo.Square.GetByID(sctx, squareID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSquareNotFound
		}
		return nil, s.g.unavailable("查询格子失败", err, zap.String("square_id", squareID))
	}
	return square, nil
}
