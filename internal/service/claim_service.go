package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"clan-bingo/config"
	"clan-bingo/internal/dto"
	"clan-bingo/internal/model"
	pkgerrors "clan-bingo/pkg/errors"
	"clan-bingo/pkg/storage"
)

// BlobStore 凭证图片存储能力（*storage.S3Store 实现）
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
}

// ProofUpload 待上传的凭证图片
type ProofUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ClaimService 凭证账本：pending → approved | rejected
type ClaimService interface {
	// Submit 总是新增一条 pending 记录，允许重复提交
	Submit(ctx context.Context, actorID, squareID string, req *dto.SubmitClaimRequest) (*dto.ClaimResponse, error)
	// Review 条件更新，并发审核只有一个成功，其余 InvalidState
	Review(ctx context.Context, actorID, claimID, status string) (*dto.ClaimResponse, error)
	// ListForSquare 最新在前
	ListForSquare(ctx context.Context, actorID, squareID string) ([]dto.ClaimResponse, error)
	// LatestForUser 用户在格子上的最近一次提交；没有时返回 nil
	LatestForUser(ctx context.Context, actorID, squareID, userID string) (*dto.ClaimResponse, error)
	ListPending(ctx context.Context, actorID string, q *dto.PendingClaimsQuery) ([]dto.ClaimResponse, int64, error)
	ProofURL(ctx context.Context, actorID, claimID string) (*dto.ProofURLResponse, error)
	// UploadProof 写入对象存储并返回句柄；先于凭证记录提交
	UploadProof(ctx context.Context, actorID string, up *ProofUpload) (*dto.UploadProofResponse, error)
}

type claimService struct {
	g         *guard
	blobs     BlobStore
	urlTTL    time.Duration
	maxUpload int64
	logger    *zap.Logger
}

// NewClaimService 创建 ClaimService 实例；blobs 为 nil 时上传与签名接口返回 Unavailable
func NewClaimService(g *guard, blobs BlobStore, cfg *config.StorageConfig, logger *zap.Logger) ClaimService {
	return &claimService{
		g:         g,
		blobs:     blobs,
		urlTTL:    cfg.SignedURLTTL,
		maxUpload: cfg.MaxUploadBytes,
		logger:    logger,
	}
}

// ────────────────────── Submit ──────────────────────

func (s *claimService) Submit(ctx context.Context, actorID, squareID string, req *dto.SubmitClaimRequest) (_ *dto.ClaimResponse, err error) {
	defer track("submit_claim", &err)

	if err := s.g.requireUser(actorID); err != nil {
		return nil, err
	}
	square, err := s.square(ctx, squareID)
	if err != nil {
		return nil, err
	}
	if _, err := s.g.requireTeamAccess(ctx, actorID, square.TeamID); err != nil {
		return nil, err
	}

	path := strings.TrimSpace(req.ImagePath)
	if !storage.OwnedBy(path, actorID) {
		return nil, ErrInvalidImagePath
	}
	// 配置了对象存储时，凭证必须指向已上传的对象
	if s.blobs != nil {
		ok, err := s.blobs.Exists(ctx, path)
		if err != nil {
			return nil, s.g.unavailable("查询凭证图片失败", err, zap.String("image_path", path))
		}
		if !ok {
			return nil, ErrProofNotUploaded
		}
	}

	claim := &model.Claim{
		SquareID:  square.SquareID,
		TeamID:    square.TeamID,
		UserID:    actorID,
		Status:    model.ClaimPending,
		ImagePath: path,
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	if err := s.g.repo.Claim.Create(sctx, claim); err != nil {
		return nil, s.g.unavailable("提交凭证失败", err, zap.String("square_id", squareID))
	}
	s.logger.Info("凭证已提交",
		zap.String("claim_id", claim.ClaimID),
		zap.String("square_id", squareID),
		zap.String("user_id", actorID),
	)
	return toClaimResponse(claim), nil
}

// ────────────────────── Review ──────────────────────

func (s *claimService) Review(ctx context.Context, actorID, claimID, status string) (_ *dto.ClaimResponse, err error) {
	defer track("review_claim", &err)

	if err := s.g.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	next := model.ClaimStatus(strings.ToLower(strings.TrimSpace(status)))
	if !next.IsTerminal() {
		return nil, ErrInvalidReviewStatus
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	err = s.g.repo.Claim.Review(sctx, claimID, next, actorID, s.g.now())
	if err != nil {
		if !errors.Is(err, pkgerrors.ErrOptimisticLock) {
			return nil, s.g.unavailable("审核凭证失败", err, zap.String("claim_id", claimID))
		}
		// 没有行被更新：凭证不存在，或已被审核
		if _, gerr := s.claim(ctx, claimID); gerr != nil {
			return nil, gerr
		}
		return nil, ErrClaimNotPending
	}

	s.logger.Info("凭证已审核",
		zap.String("claim_id", claimID),
		zap.String("status", string(next)),
		zap.String("actor", actorID),
	)
	claim, err := s.claim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	return toClaimResponse(claim), nil
}

// ────────────────────── Queries ──────────────────────

func (s *claimService) ListForSquare(ctx context.Context, actorID, squareID string) ([]dto.ClaimResponse, error) {
	square, err := s.square(ctx, squareID)
	if err != nil {
		return nil, err
	}
	if _, err := s.g.requireTeamAccess(ctx, actorID, square.TeamID); err != nil {
		return nil, err
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	claims, err := s.g.repo.Claim.ListBySquare(sctx, squareID)
	if err != nil {
		return nil, s.g.unavailable("查询凭证失败", err, zap.String("square_id", squareID))
	}
	return toClaimResponses(claims), nil
}

func (s *claimService) LatestForUser(ctx context.Context, actorID, squareID, userID string) (*dto.ClaimResponse, error) {
	square, err := s.square(ctx, squareID)
	if err != nil {
		return nil, err
	}
	if _, err := s.g.requireTeamAccess(ctx, actorID, square.TeamID); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = actorID
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	claim, err := s.g.repo.Claim.LatestForUser(sctx, squareID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, s.g.unavailable("查询最近凭证失败", err, zap.String("square_id", squareID))
	}

	resp := toClaimResponse(claim)
	if s.blobs != nil {
		url, err := s.blobs.PresignGet(sctx, claim.ImagePath, s.urlTTL)
		if err != nil {
			s.logger.Warn("生成凭证签名 URL 失败", zap.String("claim_id", claim.ClaimID), zap.Error(err))
		} else {
			resp.ProofURL = url
		}
	}
	return resp, nil
}

func (s *claimService) ListPending(ctx context.Context, actorID string, q *dto.PendingClaimsQuery) ([]dto.ClaimResponse, int64, error) {
	if err := s.g.requireAdmin(ctx, actorID); err != nil {
		return nil, 0, err
	}
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	claims, total, err := s.g.repo.Claim.ListPending(sctx, q.TeamID, q.GetOffset(), q.GetPageSize())
	if err != nil {
		return nil, 0, s.g.unavailable("查询待审凭证失败", err)
	}
	return toClaimResponses(claims), total, nil
}

func (s *claimService) ProofURL(ctx context.Context, actorID, claimID string) (*dto.ProofURLResponse, error) {
	if err := s.g.requireUser(actorID); err != nil {
		return nil, err
	}
	claim, err := s.claim(ctx, claimID)
	if err != nil {
		return nil, err
	}
	if _, err := s.g.requireTeamAccess(ctx, actorID, claim.TeamID); err != nil {
		return nil, err
	}
	if s.blobs == nil {
		return nil, ErrProofStoreDisabled
	}

	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	url, err := s.blobs.PresignGet(sctx, claim.ImagePath, s.urlTTL)
	if err != nil {
		return nil, s.g.unavailable("生成凭证签名 URL 失败", err, zap.String("claim_id", claimID))
	}
	return &dto.ProofURLResponse{URL: url, ExpiresIn: int(s.urlTTL.Seconds())}, nil
}

// ────────────────────── Upload ──────────────────────

func (s *claimService) UploadProof(ctx context.Context, actorID string, up *ProofUpload) (_ *dto.UploadProofResponse, err error) {
	defer track("upload_proof", &err)

	if err := s.g.requireUser(actorID); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(strings.ToLower(up.ContentType), "image/") {
		return nil, ErrUnsupportedMedia
	}
	if up.Size <= 0 || (s.maxUpload > 0 && up.Size > s.maxUpload) {
		return nil, ErrFileTooLarge
	}
	if s.blobs == nil {
		return nil, ErrProofStoreDisabled
	}

	key := storage.ProofKey(actorID, up.Filename)
	if err := s.blobs.Put(ctx, key, up.Body, up.Size, up.ContentType); err != nil {
		return nil, s.g.unavailable("上传凭证图片失败", err, zap.String("user_id", actorID))
	}
	s.logger.Info("凭证图片已上传", zap.String("key", key), zap.Int64("size", up.Size))
	return &dto.UploadProofResponse{ImagePath: key}, nil
}

// ────────────────────── helpers ──────────────────────

func (s *claimService) square(ctx context.Context, squareID string) (*model.Square, error) {
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	square, err := s.g.repo.Square.GetByID(sctx, squareID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSquareNotFound
		}
		return nil, s.g.unavailable("查询格子失败", err, zap.String("square_id", squareID))
	}
	return square, nil
}

func (s *claimService) claim(ctx context.Context, claimID string) (*model.Claim, error) {
	sctx, cancel := s.g.storeCtx(ctx)
	defer cancel()

	claim, err := s.g.repo.Claim.GetByID(sctx, claimID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrClaimNotFound
		}
		return nil, s.g.unavailable("查询凭证失败", err, zap.String("claim_id", claimID))
	}
	return claim, nil
}

func toClaimResponse(c *model.Claim) *dto.ClaimResponse {
	resp := &dto.ClaimResponse{
		ID:         c.ClaimID,
		SquareID:   c.SquareID,
		TeamID:     c.TeamID,
		UserID:     c.UserID,
		Status:     string(c.Status),
		ImagePath:  c.ImagePath,
		ReviewedBy: c.ReviewedBy,
		CreatedAt:  c.CreatedAt.UTC().Format(dto.TimeLayout),
	}
	if c.ReviewedAt != nil {
		at := c.ReviewedAt.UTC().Format(dto.TimeLayout)
		resp.ReviewedAt = &at
	}
	return resp
}

func toClaimResponses(claims []model.Claim) []dto.ClaimResponse {
	result := make([]dto.ClaimResponse, 0, len(claims))
	for i := range claims {
		result = append(result, *toClaimResponse(&claims[i]))
	}
	return result
}
