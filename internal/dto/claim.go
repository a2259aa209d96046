package dto

// ── 凭证模块 DTO ──

// SubmitClaimRequest 提交凭证；image_path 为上传接口返回的句柄
type SubmitClaimRequest struct {
	ImagePath string `json:"image_path" binding:"required,max=512"`
}

// ReviewClaimRequest 审核凭证
type ReviewClaimRequest struct {
	Status string `json:"status" binding:"required"`
}

// LatestClaimQuery 查询某用户在格子上的最近提交；user_id 为空时取当前用户
type LatestClaimQuery struct {
	UserID string `form:"user_id" binding:"omitempty,max=128"`
}

// PendingClaimsQuery 待审队列筛选
type PendingClaimsQuery struct {
	PaginationRequest
	TeamID string `form:"team_id" binding:"omitempty,uuid"`
}

// ClaimResponse 凭证信息
type ClaimResponse struct {
	ID         string  `json:"id"`
	SquareID   string  `json:"square_id"`
	TeamID     string  `json:"team_id"`
	UserID     string  `json:"user_id"`
	Status     string  `json:"status"`
	ImagePath  string  `json:"image_path"`
	ReviewedBy *string `json:"reviewed_by"`
	ReviewedAt *string `json:"reviewed_at"`
	CreatedAt  string  `json:"created_at"`
	// ProofURL 仅在“我的当前凭证”等需要直接展示图片的接口中返回
	ProofURL string `json:"proof_url,omitempty"`
}

// UploadProofResponse 上传凭证图片结果
type UploadProofResponse struct {
	ImagePath string `json:"image_path"`
}

// ProofURLResponse 凭证图片签名地址
type ProofURLResponse struct {
	URL       string `json:"url"`
	ExpiresIn int    `json:"expires_in"` // 秒
}
