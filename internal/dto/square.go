package dto

// ── 棋盘格子 DTO ──

// SeedSquaresRequest 按模板初始化格子；template 为空时使用 default
type SeedSquaresRequest struct {
	Template string `json:"template" binding:"omitempty,max=50"`
}

// EditSquareRequest 编辑格子（字段缺省表示不修改）
// Rules 为 JSON 对象文本，空白视为 {}
type EditSquareRequest struct {
	Title       *string `json:"title"       binding:"omitempty,max=200"`
	Requirement *string `json:"requirement" binding:"omitempty,max=2000"`
	Description *string `json:"description" binding:"omitempty,max=4000"`
	ImageURL    *string `json:"image_url"   binding:"omitempty,max=2048"`
	Rules       *string `json:"rules"       binding:"omitempty,max=20000"`
}

// SetCompletedRequest 设置格子完成状态
type SetCompletedRequest struct {
	Completed *bool `json:"completed" binding:"required"`
}

// SquareResponse 格子信息
type SquareResponse struct {
	ID          string                 `json:"id"`
	TeamID      string                 `json:"team_id"`
	Code        string                 `json:"code"`
	Title       string                 `json:"title"`
	Requirement string                 `json:"requirement"`
	Description string                 `json:"description"`
	ImageURL    *string                `json:"image_url"`
	Rules       map[string]interface{} `json:"rules"`
	Completed   bool                   `json:"completed"`
	CompletedBy *string                `json:"completed_by"`
	CompletedAt *string                `json:"completed_at"`
}
