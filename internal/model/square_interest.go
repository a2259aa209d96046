package model

import "time"

// SquareInterest 格子意向表，对应 square_interests
// (square_id, user_id) 复合主键，纯展示用途，不影响提交凭证
type SquareInterest struct {
	SquareID  string    `gorm:"type:uuid;primaryKey"    json:"square_id"`
	UserID    string    `gorm:"type:text;primaryKey"    json:"user_id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (SquareInterest) TableName() string { return "square_interests" }
