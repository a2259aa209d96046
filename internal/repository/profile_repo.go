package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clan-bingo/internal/model"
)

// ProfileRepository 用户资料数据访问接口
type ProfileRepository interface {
	// Upsert 首次出现时插入；refresh 非空时冲突行只更新这些列
	Upsert(ctx context.Context, profile *model.Profile, refresh []string) error
	GetByID(ctx context.Context, userID string) (*model.Profile, error)
	ListByIDs(ctx context.Context, userIDs []string) ([]model.Profile, error)
	SetRSN(ctx context.Context, userID string, rsn *string) error
}

type profileRepo struct {
	db *gorm.DB
}

// NewProfileRepo 创建 ProfileRepository 实例
func NewProfileRepo(db *gorm.DB) ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) Upsert(ctx context.Context, profile *model.Profile, refresh []string) error {
	onConflict := clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}
	if len(refresh) > 0 {
		onConflict.DoNothing = false
		cols := append(append([]string{}, refresh...), "updated_at")
		onConflict.DoUpdates = clause.AssignmentColumns(cols)
	}
	return r.db.WithContext(ctx).Clauses(onConflict).Create(profile).Error
}

func (r *profileRepo) GetByID(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *profileRepo) ListByIDs(ctx context.Context, userIDs []string) ([]model.Profile, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var profiles []model.Profile
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", userIDs).
		Find(&profiles).Error
	return profiles, err
}

func (r *profileRepo) SetRSN(ctx context.Context, userID string, rsn *string) error {
	result := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"rsn":        rsn,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
