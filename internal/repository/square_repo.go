package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clan-bingo/internal/model"
)

// SquareRepository 棋盘格子数据访问接口
type SquareRepository interface {
	GetByID(ctx context.Context, squareID string) (*model.Square, error)
	ListByTeam(ctx context.Context, teamID string) ([]model.Square, error)
	CountByTeam(ctx context.Context, teamID string) (int64, error)
	// BatchCreate 批量插入；(team_id, code) 冲突时返回 gorm.ErrDuplicatedKey
	BatchCreate(ctx context.Context, squares []model.Square) error
	// UpsertDefaults 按 (team_id, code) 覆盖模板字段并重置完成状态
	UpsertDefaults(ctx context.Context, squares []model.Square) error
	// UpdateContent 只写 patch 中出现的内容列，不触碰完成状态
	UpdateContent(ctx context.Context, squareID string, patch *SquarePatch) error
	// MarkCompleted 仅当当前未完成时写入完成人与时间；返回是否发生变化
	MarkCompleted(ctx context.Context, squareID, userID string, at time.Time) (bool, error)
	ClearCompleted(ctx context.Context, squareID string) error
}

type squareRepo struct {
	db *gorm.DB
}

// NewSquareRepo 创建 SquareRepository 实例
func NewSquareRepo(db *gorm.DB) SquareRepository {
	return &squareRepo{db: db}
}

func (r *squareRepo) GetByID(ctx context.Context, squareID string) (*model.Square, error) {
	var square model.Square
	err := r.db.WithContext(ctx).
		Where("square_id = ?", squareID).
		First(&square).Error
	if err != nil {
		return nil, err
	}
	return &square, nil
}

func (r *squareRepo) ListByTeam(ctx context.Context, teamID string) ([]model.Square, error) {
	var squares []model.Square
	err := r.db.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("code ASC").
		Find(&squares).Error
	return squares, err
}

func (r *squareRepo) CountByTeam(ctx context.Context, teamID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Square{}).
		Where("team_id = ?", teamID).
		Count(&count).Error
	return count, err
}

func (r *squareRepo) BatchCreate(ctx context.Context, squares []model.Square) error {
	if len(squares) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&squares).Error
}

func (r *squareRepo) UpsertDefaults(ctx context.Context, squares []model.Square) error {
	if len(squares) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "team_id"}, {Name: "code"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "requirement", "description", "image_url", "rules",
				"completed", "completed_by", "completed_at", "updated_at",
			}),
		}).
		Create(&squares).Error
}

// SquarePatch 格子内容的部分更新，nil 字段不写入
// ClearImage 为 true 时把 image_url 置为 NULL
type SquarePatch struct {
	Title       *string
	Requirement *string
	Description *string
	ImageURL    *string
	ClearImage  bool
	Rules       model.JSONMap
}

func (p *SquarePatch) columns(now time.Time) map[string]interface{} {
	cols := map[string]interface{}{"updated_at": now}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Requirement != nil {
		cols["requirement"] = *p.Requirement
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.ClearImage {
		cols["image_url"] = nil
	} else if p.ImageURL != nil {
		cols["image_url"] = *p.ImageURL
	}
	if p.Rules != nil {
		cols["rules"] = p.Rules
	}
	return cols
}

func (r *squareRepo) UpdateContent(ctx context.Context, squareID string, patch *SquarePatch) error {
	result := r.db.WithContext(ctx).
		Model(&model.Square{}).
		Where("square_id = ?", squareID).
		Updates(patch.columns(time.Now()))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *squareRepo) MarkCompleted(ctx context.Context, squareID, userID string, at time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Square{}).
		Where("square_id = ? AND completed = ?", squareID, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_by": userID,
			"completed_at": at,
			"updated_at":   at,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *squareRepo) ClearCompleted(ctx context.Context, squareID string) error {
	return r.db.WithContext(ctx).
		Model(&model.Square{}).
		Where("square_id = ?", squareID).
		Updates(map[string]interface{}{
			"completed":    false,
			"completed_by": nil,
			"completed_at": nil,
			"updated_at":   time.Now(),
		}).Error
}
