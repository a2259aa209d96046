package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Team 队伍表，对应 teams
// join_code 全局唯一（存储为大写），签发后不可修改
type Team struct {
	TeamID    string    `gorm:"type:uuid;primaryKey"                     json:"team_id"`
	Name      string    `gorm:"type:varchar(100);not null"               json:"name"`
	JoinCode  string    `gorm:"type:varchar(16);not null;uniqueIndex:uq_teams_join_code" json:"join_code"`
	CreatedBy *string   `gorm:"type:text"                                json:"created_by,omitempty"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime"                  json:"created_at"`
}

// TableName 指定表名
func (Team) TableName() string { return "teams" }

// BeforeCreate 由应用生成主键，使 SQLite 测试库与 PostgreSQL 行为一致
func (t *Team) BeforeCreate(_ *gorm.DB) error {
	if t.TeamID == "" {
		t.TeamID = uuid.NewString()
	}
	return nil
}
