package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClaimStatus 凭证审核状态：pending → approved | rejected（终态不可再变）
type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimRejected ClaimStatus = "rejected"
)

// IsTerminal 是否为终态
func (s ClaimStatus) IsTerminal() bool {
	return s == ClaimApproved || s == ClaimRejected
}

// Claim 凭证表，对应 claims
// 同一用户对同一格子可多次提交，每次一行；team_id 冗余自格子，便于按队伍筛选审核队列
type Claim struct {
	ClaimID    string      `gorm:"type:uuid;primaryKey"                        json:"claim_id"`
	SquareID   string      `gorm:"type:uuid;not null;index"                    json:"square_id"`
	TeamID     string      `gorm:"type:uuid;not null;index"                    json:"team_id"`
	UserID     string      `gorm:"type:text;not null"                          json:"user_id"`
	Status     ClaimStatus `gorm:"type:varchar(16);not null;default:'pending'" json:"status"`
	ImagePath  string      `gorm:"type:text;not null;index"                    json:"image_path"`
	ReviewedBy *string     `gorm:"type:text"                                   json:"reviewed_by,omitempty"`
	ReviewedAt *time.Time  `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time   `gorm:"not null;autoCreateTime"                     json:"created_at"`
}

// TableName 指定表名
func (Claim) TableName() string { return "claims" }

// BeforeCreate 由应用生成主键
func (c *Claim) BeforeCreate(_ *gorm.DB) error {
	if c.ClaimID == "" {
		c.ClaimID = uuid.NewString()
	}
	return nil
}
