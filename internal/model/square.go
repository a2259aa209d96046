package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Square 棋盘格子表，对应 squares
// (team_id, code) 唯一；completed 仅由管理员设置，与 claim 审核状态相互独立
type Square struct {
	SquareID    string     `gorm:"type:uuid;primaryKey"                                    json:"square_id"`
	TeamID      string     `gorm:"type:uuid;not null;uniqueIndex:uq_squares_team_code,priority:1" json:"team_id"`
	Code        string     `gorm:"type:varchar(16);not null;uniqueIndex:uq_squares_team_code,priority:2" json:"code"`
	Title       string     `gorm:"type:varchar(200);not null"                              json:"title"`
	Requirement string     `gorm:"type:text;not null"                                      json:"requirement"`
	Description string     `gorm:"type:text;not null;default:''"                           json:"description"`
	ImageURL    *string    `gorm:"type:text"                                               json:"image_url,omitempty"`
	Rules       JSONMap    `gorm:"type:jsonb;not null;default:'{}'"                        json:"rules"`
	Completed   bool       `gorm:"not null;default:false"                                  json:"completed"`
	CompletedBy *string    `gorm:"type:text"                                               json:"completed_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;autoCreateTime"                                 json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;autoUpdateTime"                                 json:"updated_at"`
}

// TableName 指定表名
func (Square) TableName() string { return "squares" }

// BeforeCreate 由应用生成主键
func (s *Square) BeforeCreate(_ *gorm.DB) error {
	if s.SquareID == "" {
		s.SquareID = uuid.NewString()
	}
	if s.Rules == nil {
		s.Rules = JSONMap{}
	}
	return nil
}
