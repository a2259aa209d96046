package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"clan-bingo/internal/dto"
	"clan-bingo/internal/service"
	"clan-bingo/pkg/response"
)

// ClaimHandler 凭证账本 HTTP 处理器
type ClaimHandler struct {
	svc service.ClaimService
}

// NewClaimHandler 创建 ClaimHandler
func NewClaimHandler(svc service.ClaimService) *ClaimHandler {
	return &ClaimHandler{svc: svc}
}

// UploadProof 上传凭证图片（multipart 字段 file），返回可用于提交的 image_path
// POST /api/v1/proofs
func (h *ClaimHandler) UploadProof(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	header, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, 10005, "请求体过大")
			return
		}
		response.BadRequest(c, 10001, "请上传图片文件")
		return
	}
	file, err := header.Open()
	if err != nil {
		response.BadRequest(c, 10001, "读取上传文件失败")
		return
	}
	defer file.Close()

	resp, err := h.svc.UploadProof(c.Request.Context(), userID, &service.ProofUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, resp)
}

// Submit 提交凭证
// POST /api/v1/squares/:id/claims
func (h *ClaimHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	squareID, ok := pathID(c, "id", "格子ID")
	if !ok {
		return
	}
	var req dto.SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	claim, err := h.svc.Submit(c.Request.Context(), userID, squareID, &req)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, claim)
}

// ListForSquare 格子上的全部凭证，最新在前
// GET /api/v1/squares/:id/claims
func (h *ClaimHandler) ListForSquare(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	squareID, ok := pathID(c, "id", "格子ID")
	if !ok {
		return
	}
	claims, err := h.svc.ListForSquare(c.Request.Context(), userID, squareID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, gin.H{"list": claims})
}

// Latest 某用户在格子上的最近一次提交；没有时 data 为 null
// GET /api/v1/squares/:id/claims/latest?user_id=
func (h *ClaimHandler) Latest(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	squareID, ok := pathID(c, "id", "格子ID")
	if !ok {
		return
	}
	var q dto.LatestClaimQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	claim, err := h.svc.LatestForUser(c.Request.Context(), userID, squareID, q.UserID)
	if err != nil {
		handleError(c, err)
		return
	}
	// claim 为 nil 指针时序列化为 "data": null
	response.OK(c, claim)
}

// Review 审核凭证（管理员）
// POST /api/v1/claims/:id/review
func (h *ClaimHandler) Review(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	claimID, ok := pathID(c, "id", "凭证ID")
	if !ok {
		return
	}
	var req dto.ReviewClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	claim, err := h.svc.Review(c.Request.Context(), userID, claimID, req.Status)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, claim)
}

// ProofURL 凭证图片的限时访问地址
// GET /api/v1/claims/:id/proof-url
func (h *ClaimHandler) ProofURL(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	claimID, ok := pathID(c, "id", "凭证ID")
	if !ok {
		return
	}
	resp, err := h.svc.ProofURL(c.Request.Context(), userID, claimID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OK(c, resp)
}

// ListPending 待审队列（管理员）
// GET /api/v1/admin/claims/pending?team_id=&page=&page_size=
func (h *ClaimHandler) ListPending(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	var q dto.PendingClaimsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}
	claims, total, err := h.svc.ListPending(c.Request.Context(), userID, &q)
	if err != nil {
		handleError(c, err)
		return
	}
	response.OKPage(c, claims, total, q.GetPage(), q.GetPageSize())
}
