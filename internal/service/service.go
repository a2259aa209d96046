package service

import (
	"go.uber.org/zap"

	"clan-bingo/config"
	"clan-bingo/internal/repository"
	"clan-bingo/pkg/joincode"
)

// Service 所有 Service 的聚合入口（工作流协调器对外的门面）
type Service struct {
	Identity IdentityService
	Profile  ProfileService
	Admin    AdminService
	Team     TeamService
	Board    BoardService
	Claim    ClaimService
	Interest InterestService
}

// NewService 创建 Service 聚合；blobs 可为 nil（未配置对象存储）
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	verifier TokenVerifier,
	blobs BlobStore,
	logger *zap.Logger,
) *Service {
	g := newGuard(repo, cfg.Workflow.StoreTimeout, logger)
	return &Service{
		Identity: NewIdentityService(g, verifier, logger),
		Profile:  NewProfileService(g, logger),
		Admin:    NewAdminService(g, logger),
		Team:     NewTeamService(g, joincode.Generate, &cfg.Workflow, logger),
		Board:    NewBoardService(g, logger),
		Claim:    NewClaimService(g, blobs, &cfg.Storage, logger),
		Interest: NewInterestService(g, logger),
	}
}
