package dto

// ── 队伍模块 DTO ──

// CreateTeamRequest 创建队伍请求
type CreateTeamRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// JoinTeamRequest 通过邀请码加入队伍
type JoinTeamRequest struct {
	JoinCode string `json:"join_code" binding:"required,max=32"`
}

// TeamResponse 队伍信息
type TeamResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	JoinCode  string `json:"join_code"`
	CreatedAt string `json:"created_at"`
}

// MyTeamResponse 当前用户所在队伍
type MyTeamResponse struct {
	TeamResponse
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}

// TeamOverviewResponse 管理员队伍概览
type TeamOverviewResponse struct {
	TeamResponse
	MemberCount       int64 `json:"member_count"`
	SquareCount       int64 `json:"square_count"`
	PendingClaimCount int64 `json:"pending_claim_count"`
}

// TeamMemberResponse 队伍成员
type TeamMemberResponse struct {
	UserID   string `json:"user_id"`
	Label    string `json:"label"`
	Role     string `json:"role"`
	JoinedAt string `json:"joined_at"`
}
