package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"clan-bingo/internal/model"
	pkgerrors "clan-bingo/pkg/errors"
)

// ClaimRepository 凭证数据访问接口
type ClaimRepository interface {
	Create(ctx context.Context, claim *model.Claim) error
	GetByID(ctx context.Context, claimID string) (*model.Claim, error)
	// Review 条件更新 pending → status；没有行被更新时返回 pkgerrors.ErrOptimisticLock
	Review(ctx context.Context, claimID string, status model.ClaimStatus, reviewerID string, at time.Time) error
	// ListBySquare 按提交时间倒序
	ListBySquare(ctx context.Context, squareID string) ([]model.Claim, error)
	// LatestForUser 用户在该格子最近一次提交；没有时返回 gorm.ErrRecordNotFound
	LatestForUser(ctx context.Context, squareID, userID string) (*model.Claim, error)
	// ListPending 待审队列，teamID 为空时不过滤
	ListPending(ctx context.Context, teamID string, offset, limit int) ([]model.Claim, int64, error)
	ExistsByImagePath(ctx context.Context, imagePath string) (bool, error)
}

type claimRepo struct {
	db *gorm.DB
}

// NewClaimRepo 创建 ClaimRepository 实例
func NewClaimRepo(db *gorm.DB) ClaimRepository {
	return &claimRepo{db: db}
}

func (r *claimRepo) Create(ctx context.Context, claim *model.Claim) error {
	return r.db.WithContext(ctx).Create(claim).Error
}

func (r *claimRepo) GetByID(ctx context.Context, claimID string) (*model.Claim, error) {
	var claim model.Claim
	err := r.db.WithContext(ctx).
		Where("claim_id = ?", claimID).
		First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepo) Review(ctx context.Context, claimID string, status model.ClaimStatus, reviewerID string, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&model.Claim{}).
		Where("claim_id = ? AND status = ?", claimID, model.ClaimPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_by": reviewerID,
			"reviewed_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

func (r *claimRepo) ListBySquare(ctx context.Context, squareID string) ([]model.Claim, error) {
	var claims []model.Claim
	err := r.db.WithContext(ctx).
		Where("square_id = ?", squareID).
		Order("created_at DESC").
		Find(&claims).Error
	return claims, err
}

func (r *claimRepo) LatestForUser(ctx context.Context, squareID, userID string) (*model.Claim, error) {
	var claim model.Claim
	err := r.db.WithContext(ctx).
		Where("square_id = ? AND user_id = ?", squareID, userID).
		Order("created_at DESC").
		First(&claim).Error
	if err != nil {
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepo) ListPending(ctx context.Context, teamID string, offset, limit int) ([]model.Claim, int64, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Claim{}).
		Where("status = ?", model.ClaimPending)
	if teamID != "" {
		q = q.Where("team_id = ?", teamID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var claims []model.Claim
	err := q.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&claims).Error
	return claims, total, err
}

func (r *claimRepo) ExistsByImagePath(ctx context.Context, imagePath string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Claim{}).
		Where("image_path = ?", imagePath).
		Count(&count).Error
	return count > 0, err
}
