package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clan-bingo/internal/model"
)

// MemberRepository 队伍成员数据访问接口
type MemberRepository interface {
	// Add 插入成员关系，已存在时忽略；返回是否新插入
	Add(ctx context.Context, member *model.TeamMember) (bool, error)
	Remove(ctx context.Context, teamID, userID string) error
	Exists(ctx context.Context, teamID, userID string) (bool, error)
	// ListByUser 用户的全部成员关系（预加载队伍），按加入时间倒序
	ListByUser(ctx context.Context, userID string) ([]model.TeamMember, error)
	// ListByTeam 队伍成员（预加载资料），按加入时间正序
	ListByTeam(ctx context.Context, teamID string) ([]model.TeamMember, error)
}

type memberRepo struct {
	db *gorm.DB
}

// NewMemberRepo 创建 MemberRepository 实例
func NewMemberRepo(db *gorm.DB) MemberRepository {
	return &memberRepo{db: db}
}

func (r *memberRepo) Add(ctx context.Context, member *model.TeamMember) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(member)
	return result.RowsAffected > 0, result.Error
}

func (r *memberRepo) Remove(ctx context.Context, teamID, userID string) error {
	return r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&model.TeamMember{}).Error
}

func (r *memberRepo) Exists(ctx context.Context, teamID, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *memberRepo) ListByUser(ctx context.Context, userID string) ([]model.TeamMember, error) {
	var members []model.TeamMember
	err := r.db.WithContext(ctx).
		Preload("Team").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&members).Error
	return members, err
}

func (r *memberRepo) ListByTeam(ctx context.Context, teamID string) ([]model.TeamMember, error) {
	var members []model.TeamMember
	err := r.db.WithContext(ctx).
		Preload("Profile").
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&members).Error
	return members, err
}
