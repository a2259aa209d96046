package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clan-bingo/internal/model"
)

// InterestRepository 格子意向数据访问接口
type InterestRepository interface {
	// Toggle 翻转 (square, user) 意向，返回翻转后的状态
	Toggle(ctx context.Context, squareID, userID string) (bool, error)
	ListBySquare(ctx context.Context, squareID string) ([]model.SquareInterest, error)
	ListByTeam(ctx context.Context, teamID string) ([]model.SquareInterest, error)
}

type interestRepo struct {
	db *gorm.DB
}

// NewInterestRepo 创建 InterestRepository 实例
func NewInterestRepo(db *gorm.DB) InterestRepository {
	return &interestRepo{db: db}
}

// Toggle 先按主键删除：删到行即为取消；否则插入（冲突忽略）。
// 两条语句各自原子，主键保证任何交错下同一对至多一行。
func (r *interestRepo) Toggle(ctx context.Context, squareID, userID string) (bool, error) {
	del := r.db.WithContext(ctx).
		Where("square_id = ? AND user_id = ?", squareID, userID).
		Delete(&model.SquareInterest{})
	if del.Error != nil {
		return false, del.Error
	}
	if del.RowsAffected > 0 {
		return false, nil
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.SquareInterest{SquareID: squareID, UserID: userID}).Error
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *interestRepo) ListBySquare(ctx context.Context, squareID string) ([]model.SquareInterest, error) {
	var rows []model.SquareInterest
	err := r.db.WithContext(ctx).
		Where("square_id = ?", squareID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *interestRepo) ListByTeam(ctx context.Context, teamID string) ([]model.SquareInterest, error) {
	var rows []model.SquareInterest
	err := r.db.WithContext(ctx).
		Joins("JOIN squares ON squares.square_id = square_interests.square_id").
		Where("squares.team_id = ?", teamID).
		Order("square_interests.created_at ASC").
		Find(&rows).Error
	return rows, err
}
