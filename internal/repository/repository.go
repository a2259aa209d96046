package repository

import (
	"context"

	"gorm.io/gorm"
)

// Repository 所有 Repository 的聚合入口
type Repository struct {
	db *gorm.DB

	Profile  ProfileRepository
	Admin    AdminRepository
	Team     TeamRepository
	Member   MemberRepository
	Square   SquareRepository
	Claim    ClaimRepository
	Interest InterestRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:       db,
		Profile:  NewProfileRepo(db),
		Admin:    NewAdminRepo(db),
		Team:     NewTeamRepo(db),
		Member:   NewMemberRepo(db),
		Square:   NewSquareRepo(db),
		Claim:    NewClaimRepo(db),
		Interest: NewInterestRepo(db),
	}
}

// BeginTx 开启事务；未绑定数据库（单元测试注入 mock）时返回 nil
func (r *Repository) BeginTx(ctx context.Context) (*gorm.DB, error) {
	if r.db == nil {
		return nil, nil
	}
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return tx, nil
}

// WithTx 返回绑定到事务连接的 Repository 副本；tx 为 nil 时返回自身
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return NewRepository(tx)
}
