package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clan-bingo/config"
	"clan-bingo/internal/dto"
	"clan-bingo/internal/model"
	"clan-bingo/pkg/joincode"
)

// TeamService 队伍目录：队伍、邀请码与成员关系
type TeamService interface {
	// Create 管理员创建队伍；邀请码在唯一约束下冲突重试
	Create(ctx context.Context, actorID string, req *dto.CreateTeamRequest) (*dto.TeamResponse, error)
	// Join 通过邀请码加入（大小写不敏感，幂等）
	Join(ctx context.Context, actorID, code string) (*dto.TeamResponse, error)
	// Leave 退出队伍；不是成员时无操作
	Leave(ctx context.Context, actorID, teamID string) error
	// ListMine 当前用户所在队伍，最近加入的在前
	ListMine(ctx context.Context, actorID string) ([]dto.MyTeamResponse, error)
	// Get 管理员可查看任意队伍，普通用户仅限所在队伍
	Get(ctx context.Context, actorID, teamID string) (*dto.TeamResponse, error)
	ListAll(ctx context.Context, actorID string) ([]dto.TeamOverviewResponse, error)
	ListMembers(ctx context.Context, actorID, teamID string) ([]dto.TeamMemberResponse, error)
	// Delete 级联删除队伍及其格子、凭证、意向与成员关系
	Delete(ctx context.Context, actorID, teamID string) error
}

type teamService struct {
	g        *guard
	generate joincode.Generator
	codeLen  int
	attempts int
	logger   *zap.Logger
}

// NewTeamService 创建 TeamService 实例
func NewTeamService(g *guard, generate joincode.Generator, cfg *config.WorkflowConfig, logger *zap.Logger) TeamService {
	if generate == nil {
		generate = joincode.Generate
	}
	return &teamService{
		g:        g,
		generate: generate,
		codeLen:  cfg.JoinCodeLength,
		attempts: cfg.JoinCodeAttempts,
		logger:   logger,
	}
}

// ────────────────────── Create ──────────────────────

func (s *teamService) Create(ctx context.Context, actorID string, req *dto.CreateTeamRequest) (_ *dto.TeamResponse, err error) {
	defer track("create_team", &err)

	if err := s.g.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	// 直接插入，由唯一约束裁决冲突，不做先查后写
	for attempt := 1; attempt <= s.attempts; attempt++ {
		code, err := s.generate(s.codeLen)
		if err != nil {
			s.logger.Error("生成邀请码失败", zap.Error(err))
			return nil, ErrJoinCodeGenerate.Wrap(err)
		}

		team := &model.Team{Name: name, JoinCode: code, CreatedBy: &actorID}
		sctx, cancel := s.g.storeCtx(ctx)
		err = s.g.repo.Team.Create(sctx, team)
		cancel()

		if err == nil {
			s.logger.Info("队伍已创建",
				zap.String("team_id", team.TeamID),
				zap.String("actor", actorID),
				zap.Int("attempt", attempt),
			)
			return toTeamResponse(team), nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, s.g.unavailable("创建队伍失败", err)
		}
		s.logger.Warn("邀请码冲突，重新生成", zap.Int("attempt", attempt))
	}
	return nil, ErrJoinCodeExhausted
}

// ────────────────────── Join / Leave ──────────────────────

func (s *teamService) Join(ctx context.Context, actorID, code string) (_ *dto.TeamResponse, err error) {
	defer track("join_team", &err)

	if err := s.g.requireUser(actorID); err != nil {
		return nil, err
	}
	code = joincode.Normalize(code)
	if code == "" {
		return nil, ErrJoinCodeRequired
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	team, err := s.g.repo.Team.GetByJoinCode(sctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJoinCodeNotFound
		}
		return nil, s.g.unavailable("查询邀请码失败", err)
	}

	inserted, err := s.g.repo.Member.Add(sctx, &model.TeamMember{
		TeamID: team.TeamID,
		UserID: actorID,
		Role:   model.RoleMember,
	})
	if err != nil {
		return nil, s.g.unavailable("加入队伍失败", err, zap.String("team_id", team.TeamID))
	}
	if inserted {
		s.logger.Info("成员加入队伍", zap.String("team_id", team.TeamID), zap.String("user_id", actorID))
	}
	return toTeamResponse(team), nil
}

func (s *teamService) Leave(ctx context.Context, actorID, teamID string) (err error) {
	defer track("leave_team", &err)

	if err := s.g.requireUser(actorID); err != nil {
		return err
	}
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	if err := s.g.repo.Member.Remove(sctx, teamID, actorID); err != nil {
		return s.g.unavailable("退出队伍失败", err, zap.String("team_id", teamID))
	}
	return nil
}

// ────────────────────── Queries ──────────────────────

func (s *teamService) ListMine(ctx context.Context, actorID string) ([]dto.MyTeamResponse, error) {
	if err := s.g.requireUser(actorID); err != nil {
		return nil, err
	}
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	memberships, err := s.g.repo.Member.ListByUser(sctx, actorID)
	if err != nil {
		return nil, s.g.unavailable("查询所在队伍失败", err, zap.String("user_id", actorID))
	}

	result := make([]dto.MyTeamResponse, 0, len(memberships))
	for _, m := range memberships {
		if m.Team == nil {
			continue
		}
		result = append(result, dto.MyTeamResponse{
			TeamResponse: *toTeamResponse(m.Team),
			Role:         m.Role,
			JoinedAt:     m.CreatedAt.UTC().Format(dto.TimeLayout),
		})
	}
	return result, nil
}

func (s *teamService) Get(ctx context.Context, actorID, teamID string) (*dto.TeamResponse, error) {
	if _, err := s.g.requireTeamAccess(ctx, actorID, teamID); err != nil {
		return nil, err
	}
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	team, err := s.g.repo.Team.GetByID(sctx, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, s.g.unavailable("查询队伍失败", err, zap.String("team_id", teamID))
	}
	return toTeamResponse(team), nil
}

func (s *teamService) ListAll(ctx context.Context, actorID string) ([]dto.TeamOverviewResponse, error) {
	if err := s.g.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	teams, err := s.g.repo.Team.ListAll(sctx)
	if err != nil {
		return nil, s.g.unavailable("列出队伍失败", err)
	}

	ids := make([]string, 0, len(teams))
	for _, t := range teams {
		ids = append(ids, t.TeamID)
	}
	stats, err := s.g.repo.Team.BatchStats(sctx, ids)
	if err != nil {
		s.logger.Warn("批量统计队伍失败，回退为0", zap.Error(err))
	}

	result := make([]dto.TeamOverviewResponse, 0, len(teams))
	for i := range teams {
		st := stats[teams[i].TeamID]
		result = append(result, dto.TeamOverviewResponse{
			TeamResponse:      *toTeamResponse(&teams[i]),
			MemberCount:       st.Members,
			SquareCount:       st.Squares,
			PendingClaimCount: st.PendingClaims,
		})
	}
	return result, nil
}

func (s *teamService) ListMembers(ctx context.Context, actorID, teamID string) ([]dto.TeamMemberResponse, error) {
	if _, err := s.g.requireTeamAccess(ctx, actorID, teamID); err != nil {
		return nil, err
	}
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	members, err := s.g.repo.Member.ListByTeam(sctx, teamID)
	if err != nil {
		return nil, s.g.unavailable("查询队伍成员失败", err, zap.String("team_id", teamID))
	}

	result := make([]dto.TeamMemberResponse, 0, len(members))
	for _, m := range members {
		label := (&model.Profile{UserID: m.UserID}).Label()
		if m.Profile != nil {
			label = m.Profile.Label()
		}
		result = append(result, dto.TeamMemberResponse{
			UserID:   m.UserID,
			Label:    label,
			Role:     m.Role,
			JoinedAt: m.CreatedAt.UTC().Format(dto.TimeLayout),
		})
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

func (s *teamService) Delete(ctx context.Context, actorID, teamID string) (err error) {
	defer track("delete_team", &err)

	if err := s.g.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	found, err := s.g.repo.Team.DeleteCascade(sctx, teamID)
	if err != nil {
		return s.g.unavailable("删除队伍失败", err, zap.String("team_id", teamID))
	}
	if !found {
		return ErrTeamNotFound
	}
	s.logger.Info("队伍已删除", zap.String("team_id", teamID), zap.String("actor", actorID))
	return nil
}

func toTeamResponse(t *model.Team) *dto.TeamResponse {
	return &dto.TeamResponse{
		ID:        t.TeamID,
		Name:      t.Name,
		JoinCode:  t.JoinCode,
		CreatedAt: t.CreatedAt.UTC().Format(dto.TimeLayout),
	}
}
