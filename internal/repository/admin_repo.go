package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clan-bingo/internal/model"
)

// AdminRepository 管理员白名单数据访问接口
type AdminRepository interface {
	Exists(ctx context.Context, userID string) (bool, error)
	// Add 幂等插入，已存在时不报错
	Add(ctx context.Context, admin *model.AppAdmin) error
	// Remove 返回是否真的删除了一行
	Remove(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context) ([]model.AppAdmin, error)
}

type adminRepo struct {
	db *gorm.DB
}

// NewAdminRepo 创建 AdminRepository 实例
func NewAdminRepo(db *gorm.DB) AdminRepository {
	return &adminRepo{db: db}
}

func (r *adminRepo) Exists(ctx context.Context, userID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.AppAdmin{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *adminRepo) Add(ctx context.Context, admin *model.AppAdmin) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(admin).Error
}

func (r *adminRepo) Remove(ctx context.Context, userID string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.AppAdmin{})
	return result.RowsAffected > 0, result.Error
}

func (r *adminRepo) List(ctx context.Context) ([]model.AppAdmin, error) {
	var admins []model.AppAdmin
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Find(&admins).Error
	return admins, err
}
