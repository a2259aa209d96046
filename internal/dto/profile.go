package dto

// ── 身份与资料 DTO ──

// MeResponse 当前用户信息（GET /me）
type MeResponse struct {
	UserID      string  `json:"user_id"`
	DisplayName string  `json:"display_name"`
	AvatarURL   *string `json:"avatar_url,omitempty"`
	RSN         *string `json:"rsn,omitempty"`
	Label       string  `json:"label"`
	IsAdmin     bool    `json:"is_admin"`
}

// SetRSNRequest 设置游戏角色名；空白表示清除
type SetRSNRequest struct {
	RSN string `json:"rsn" binding:"max=200"`
}

// UserLabel 用户简要信息（成员列表、意向列表中展示）
type UserLabel struct {
	UserID string `json:"user_id"`
	Label  string `json:"label"`
}

// ── 管理员 DTO ──

// AdminResponse 管理员白名单条目
type AdminResponse struct {
	UserID    string  `json:"user_id"`
	Label     string  `json:"label"`
	CreatedBy *string `json:"created_by,omitempty"`
	CreatedAt string  `json:"created_at"`
}
