package model

import "time"

// 成员角色
const (
	RoleMember = "member"
	RoleOwner  = "owner"
)

// TeamMember 队伍成员表，对应 team_members
// (team_id, user_id) 复合主键：同一用户在同一队伍至多一行
type TeamMember struct {
	TeamID    string    `gorm:"type:uuid;primaryKey"                        json:"team_id"`
	UserID    string    `gorm:"type:text;primaryKey"                        json:"user_id"`
	Role      string    `gorm:"type:varchar(20);not null;default:'member'"  json:"role"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"                     json:"created_at"`

	// 关联
	Team    *Team    `gorm:"foreignKey:TeamID;references:TeamID"  json:"team,omitempty"`
	Profile *Profile `gorm:"foreignKey:UserID;references:UserID"  json:"profile,omitempty"`
}

// TableName 指定表名
func (TeamMember) TableName() string { return "team_members" }
