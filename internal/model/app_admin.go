package model

import "time"

// AppAdmin 管理员白名单，对应 app_admins
type AppAdmin struct {
	UserID    string    `gorm:"type:text;primaryKey"    json:"user_id"`
	CreatedBy *string   `gorm:"type:text"               json:"created_by,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// TableName 指定表名
func (AppAdmin) TableName() string { return "app_admins" }
