package dto

// ── 格子意向 DTO ──

// ToggleInterestResponse 切换后的意向状态
type ToggleInterestResponse struct {
	SquareID   string `json:"square_id"`
	Interested bool   `json:"interested"`
}

// SquareInterestResponse 某格子的意向用户
type SquareInterestResponse struct {
	SquareID string      `json:"square_id"`
	Users    []UserLabel `json:"users"`
}
