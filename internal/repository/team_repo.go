package repository

import (
	"context"

	"gorm.io/gorm"

	"clan-bingo/internal/model"
)

// TeamStats 队伍概览统计
type TeamStats struct {
	Members       int64
	Squares       int64
	PendingClaims int64
}

// TeamRepository 队伍数据访问接口
type TeamRepository interface {
	// Create 插入队伍；join_code 冲突时返回 gorm.ErrDuplicatedKey
	Create(ctx context.Context, team *model.Team) error
	GetByID(ctx context.Context, teamID string) (*model.Team, error)
	GetByJoinCode(ctx context.Context, code string) (*model.Team, error)
	ListAll(ctx context.Context) ([]model.Team, error)
	// BatchStats 批量统计成员数、格子数与待审凭证数，避免 N+1 查询
	BatchStats(ctx context.Context, teamIDs []string) (map[string]TeamStats, error)
	// DeleteCascade 在一个事务内删除队伍及其全部从属数据，返回队伍是否存在
	DeleteCascade(ctx context.Context, teamID string) (bool, error)
}

type teamRepo struct {
	db *gorm.DB
}

// NewTeamRepo 创建 TeamRepository 实例
func NewTeamRepo(db *gorm.DB) TeamRepository {
	return &teamRepo{db: db}
}

func (r *teamRepo) Create(ctx context.Context, team *model.Team) error {
	return r.db.WithContext(ctx).Create(team).Error
}

func (r *teamRepo) GetByID(ctx context.Context, teamID string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		First(&team).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepo) GetByJoinCode(ctx context.Context, code string) (*model.Team, error) {
	var team model.Team
	err := r.db.WithContext(ctx).
		Where("join_code = ?", code).
		First(&team).Error
	if err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepo) ListAll(ctx context.Context) ([]model.Team, error) {
	var teams []model.Team
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&teams).Error
	return teams, err
}

type teamCount struct {
	TeamID string
	Cnt    int64
}

func (r *teamRepo) BatchStats(ctx context.Context, teamIDs []string) (map[string]TeamStats, error) {
	stats := make(map[string]TeamStats, len(teamIDs))
	if len(teamIDs) == 0 {
		return stats, nil
	}

	count := func(table string, extra func(*gorm.DB) *gorm.DB) ([]teamCount, error) {
		var rows []teamCount
		q := r.db.WithContext(ctx).
			Table(table).
			Select("team_id, COUNT(*) AS cnt").
			Where("team_id IN ?", teamIDs)
		if extra != nil {
			q = extra(q)
		}
		err := q.Group("team_id").Scan(&rows).Error
		return rows, err
	}

	members, err := count("team_members", nil)
	if err != nil {
		return nil, err
	}
	squares, err := count("squares", nil)
	if err != nil {
		return nil, err
	}
	pending, err := count("claims", func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", model.ClaimPending)
	})
	if err != nil {
		return nil, err
	}

	for _, row := range members {
		s := stats[row.TeamID]
		s.Members = row.Cnt
		stats[row.TeamID] = s
	}
	for _, row := range squares {
		s := stats[row.TeamID]
		s.Squares = row.Cnt
		stats[row.TeamID] = s
	}
	for _, row := range pending {
		s := stats[row.TeamID]
		s.PendingClaims = row.Cnt
		stats[row.TeamID] = s
	}
	return stats, nil
}

func (r *teamRepo) DeleteCascade(ctx context.Context, teamID string) (bool, error) {
	var found bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		squareIDs := tx.Model(&model.Square{}).Select("square_id").Where("team_id = ?", teamID)

		if err := tx.Where("square_id IN (?)", squareIDs).Delete(&model.SquareInterest{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&model.Claim{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&model.Square{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", teamID).Delete(&model.TeamMember{}).Error; err != nil {
			return err
		}
		result := tx.Where("team_id = ?", teamID).Delete(&model.Team{})
		if result.Error != nil {
			return result.Error
		}
		found = result.RowsAffected > 0
		return nil
	})
	return found, err
}
