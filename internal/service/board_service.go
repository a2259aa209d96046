package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clan-bingo/internal/dto"
	"clan-bingo/internal/model"
	"clan-bingo/internal/repository"
)

// BoardService 棋盘目录：格子定义与完成标记
type BoardService interface {
	// ListSquares 按 code 升序；非成员非管理员 Forbidden
	ListSquares(ctx context.Context, actorID, teamID string) ([]dto.SquareResponse, error)
	// Seed 严格初始化：队伍已有任何格子时 Conflict
	Seed(ctx context.Context, actorID, teamID, template string) ([]dto.SquareResponse, error)
	// ApplyDefaults 按 (team, code) 覆盖模板内容并重置完成状态
	ApplyDefaults(ctx context.Context, actorID, teamID, template string) ([]dto.SquareResponse, error)
	// Edit 局部更新；规则解析失败时不写入任何字段
	Edit(ctx context.Context, actorID, squareID string, req *dto.EditSquareRequest) (*dto.SquareResponse, error)
	// SetCompleted 与凭证审核状态相互独立
	SetCompleted(ctx context.Context, actorID, squareID string, completed bool) (*dto.SquareResponse, error)
}

type boardService struct {
	g      *guard
	logger *zap.Logger
}

// NewBoardService 创建 BoardService 实例
func NewBoardService(g *guard, logger *zap.Logger) BoardService {
	return &boardService{g: g, logger: logger}
}

// ────────────────────── List ──────────────────────

func (s *boardService) ListSquares(ctx context.Context, actorID, teamID string) ([]dto.SquareResponse, error) {
	if _, err := s.g.requireTeamAccess(ctx, actorID, teamID); err != nil {
		return nil, err
	}
	return s.list(ctx, teamID)
}

func (s *boardService) list(ctx context.Context, teamID string) ([]dto.SquareResponse, error) {
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	squares, err := s.g.repo.Square.ListByTeam(sctx, teamID)
	if err != nil {
		return nil, s.g.unavailable("查询格子失败", err, zap.String("team_id", teamID))
	}
	result := make([]dto.SquareResponse, 0, len(squares))
	for i := range squares {
		result = append(result, *toSquareResponse(&squares[i]))
	}
	return result, nil
}

// ────────────────────── Seed / ApplyDefaults ──────────────────────

// prepareTemplate 管理员校验 + 队伍存在 + 模板展开
func (s *boardService) prepareTemplate(ctx context.Context, actorID, teamID, template string) ([]model.Square, error) {
	if err := s.g.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	if _, err := s.g.repo.Team.GetByID(sctx, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, s.g.unavailable("查询队伍失败", err, zap.String("team_id", teamID))
	}

	squares, ok := templateSquares(strings.TrimSpace(template), teamID)
	if !ok {
		return nil, ErrUnknownTemplate
	}
	return squares, nil
}

func (s *boardService) Seed(ctx context.Context, actorID, teamID, template string) (_ []dto.SquareResponse, err error) {
	defer track("seed_squares", &err)

	squares, err := s.prepareTemplate(ctx, actorID, teamID, template)
	if err != nil {
		return nil, err
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	// 计数与插入放在同一事务；并发初始化的失败方由 (team_id, code) 唯一约束裁决
	tx, err := s.g.repo.BeginTx(sctx)
	if err != nil {
		return nil, s.g.unavailable("开启事务失败", err)
	}
	defer func() {
		if r := recover(); r != nil {
			if tx != nil {
				tx.Rollback()
			}
			panic(r)
		}
	}()
	rollback := func() {
		if tx != nil {
			tx.Rollback()
		}
	}

	txRepo := s.g.repo.WithTx(tx)

	existing, err := txRepo.Square.CountByTeam(sctx, teamID)
	if err != nil {
		rollback()
		return nil, s.g.unavailable("统计格子失败", err, zap.String("team_id", teamID))
	}
	if existing > 0 {
		rollback()
		return nil, ErrBoardAlreadySeeded
	}

	if err := txRepo.Square.BatchCreate(sctx, squares); err != nil {
		rollback()
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrBoardAlreadySeeded
		}
		return nil, s.g.unavailable("初始化格子失败", err, zap.String("team_id", teamID))
	}

	if tx != nil {
		if err := tx.Commit().Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, ErrBoardAlreadySeeded
			}
			return nil, s.g.unavailable("提交事务失败", err)
		}
	}

	s.logger.Info("棋盘已初始化",
		zap.String("team_id", teamID),
		zap.Int("squares", len(squares)),
		zap.String("actor", actorID),
	)
	return s.list(ctx, teamID)
}

func (s *boardService) ApplyDefaults(ctx context.Context, actorID, teamID, template string) (_ []dto.SquareResponse, err error) {
	defer track("apply_defaults", &err)

	squares, err := s.prepareTemplate(ctx, actorID, teamID, template)
	if err != nil {
		return nil, err
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	if err := s.g.repo.Square.UpsertDefaults(sctx, squares); err != nil {
		return nil, s.g.unavailable("应用模板失败", err, zap.String("team_id", teamID))
	}
	s.logger.Info("模板已重新应用", zap.String("team_id", teamID), zap.String("actor", actorID))
	return s.list(ctx, teamID)
}

// ────────────────────── Edit ──────────────────────

func (s *boardService) Edit(ctx context.Context, actorID, squareID string, req *dto.EditSquareRequest) (_ *dto.SquareResponse, err error) {
	defer track("edit_square", &err)

	if err := s.g.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}

	// 先完成全部校验，再只写入出现的字段；并发编辑不同字段互不覆盖
	patch := &repository.SquarePatch{}
	if req.Rules != nil {
		rules, perr := model.ParseJSONMap(*req.Rules)
		if perr != nil {
			return nil, ErrInvalidRules.Wrap(perr)
		}
		patch.Rules = rules
	}
	if req.Title != nil {
		if t := strings.TrimSpace(*req.Title); t != "" {
			patch.Title = &t
		}
	}
	if req.Requirement != nil {
		if r := strings.TrimSpace(*req.Requirement); r != "" {
			patch.Requirement = &r
		}
	}
	if req.Description != nil {
		d := strings.TrimSpace(*req.Description)
		patch.Description = &d
	}
	if req.ImageURL != nil {
		if u := strings.TrimSpace(*req.ImageURL); u != "" {
			patch.ImageURL = &u
		} else {
			patch.ClearImage = true
		}
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	if err := s.g.repo.Square.UpdateContent(sctx, squareID, patch); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSquareNotFound
		}
		return nil, s.g.unavailable("更新格子失败", err, zap.String("square_id", squareID))
	}
	return s.reload(ctx, squareID)
}

// ────────────────────── SetCompleted ──────────────────────

func (s *boardService) SetCompleted(ctx context.Context, actorID, squareID string, completed bool) (_ *dto.SquareResponse, err error) {
	defer track("set_completed", &err)

	if err := s.g.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	if _, err := s.get(ctx, squareID); err != nil {
		return nil, err
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	if completed {
		// 条件更新：已完成时保留原完成人与时间
		changed, err := s.g.repo.Square.MarkCompleted(sctx, squareID, actorID, s.g.now())
		if err != nil {
			return nil, s.g.unavailable("标记完成失败", err, zap.String("square_id", squareID))
		}
		if changed {
			s.logger.Info("格子已标记完成", zap.String("square_id", squareID), zap.String("actor", actorID))
		}
	} else {
		if err := s.g.repo.Square.ClearCompleted(sctx, squareID); err != nil {
			return nil, s.g.unavailable("取消完成失败", err, zap.String("square_id", squareID))
		}
	}
	return s.reload(ctx, squareID)
}

// ────────────────────── helpers ──────────────────────

func (s *boardService) get(ctx context.Context, squareID string) (*model.Square, error) {
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

func (s *boardService) reload(ctx context.Context, squareID string) (*dto.SquareResponse, error) {
	square, err := s.get(ctx, squareID)
	if err != nil {
		return nil, err
	}
	return toSquareResponse(square), nil
}

func toSquareResponse(sq *model.Square) *dto.SquareResponse {
	resp := &dto.SquareResponse{
		ID:          sq.SquareID,
		TeamID:      sq.TeamID,
		Code:        sq.Code,
		Title:       sq.Title,
		Requirement: sq.Requirement,
		Description: sq.Description,
		ImageURL:    sq.ImageURL,
		Rules:       sq.Rules,
		Completed:   sq.Completed,
		CompletedBy: sq.CompletedBy,
	}
	if resp.Rules == nil {
		resp.Rules = map[string]interface{}{}
	}
	if sq.CompletedAt != nil {
		at := sq.CompletedAt.UTC().Format(dto.TimeLayout)
		resp.CompletedAt = &at
	}
	return resp
}
