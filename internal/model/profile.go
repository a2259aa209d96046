package model

import "time"

// Profile 用户资料表，对应 profiles
// user_id 为身份提供方的 sub，首次登录时创建，永不删除
type Profile struct {
	UserID      string    `gorm:"type:text;primaryKey"              json:"user_id"`
	DisplayName string    `gorm:"type:text;not null;default:''"     json:"display_name"`
	AvatarURL   *string   `gorm:"type:text"                         json:"avatar_url,omitempty"`
	RSN         *string   `gorm:"column:rsn;type:varchar(64)"       json:"rsn,omitempty"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime"           json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime"           json:"updated_at"`
}

// TableName 指定表名
func (Profile) TableName() string { return "profiles" }

// Label 展示名：display_name（缺省回退为 ID 前缀），有 RSN 时附加
func (p *Profile) Label() string {
	base := p.DisplayName
	if base == "" {
		id := p.UserID
		if len(id) > 6 {
			id = id[:6]
		}
		base = "User " + id
	}
	if p.RSN != nil && *p.RSN != "" {
		return base + " (RSN: " + *p.RSN + ")"
	}
	return base
}
