package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"clan-bingo/config"
	"clan-bingo/internal/dto"
	"clan-bingo/internal/model"
	"clan-bingo/pkg/jwt"
)

// ── 测试辅助 ──

const testSecret = "test-secret-0123456789"

// fakeBlobStore 记录上传的对象，签名 URL 为确定值
type fakeBlobStore struct {
	mu        sync.Mutex
	objs      map[string]string
	err       error
	existsErr error
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{objs: make(map[string]string)}
}

func (f *fakeBlobStore) Put(_ context.Context, key string, body io.Reader, _ int64, _ string) error {
	if f.err != nil {
		return f.err
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objs[key] = string(b)
	return nil
}

func (f *fakeBlobStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("https://blob.test/%s?ttl=%d", key, int(ttl.Seconds())), nil
}

func (f *fakeBlobStore) Exists(_ context.Context, key string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objs[key]
	return ok, nil
}

type fixture struct {
	store *memStore
	blobs *fakeBlobStore
	jwt   *jwt.Manager
	cfg   *config.Config
	svc   *Service
}

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{JWTSecret: testSecret, JWTAudience: "authenticated"},
		Storage: config.StorageConfig{
			SignedURLTTL:   30 * time.Minute,
			MaxUploadBytes: 1 << 20,
		},
		Workflow: config.WorkflowConfig{
			JoinCodeLength:   6,
			JoinCodeAttempts: 5,
			StoreTimeout:     time.Second,
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig()
	store := newMemStore()
	blobs := newFakeBlobStore()
	mgr := jwt.NewManager(&cfg.Auth)
	svc := NewService(cfg, newMockRepository(store), mgr, blobs, zap.NewNop())
	return &fixture{store: store, blobs: blobs, jwt: mgr, cfg: cfg, svc: svc}
}

// newFixtureWithoutBlobs 模拟未配置对象存储
func newFixtureWithoutBlobs(t *testing.T) *fixture {
	t.Helper()
	cfg := testConfig()
	store := newMemStore()
	svc := NewService(cfg, newMockRepository(store), jwt.NewManager(&cfg.Auth), nil, zap.NewNop())
	return &fixture{store: store, cfg: cfg, svc: svc}
}

// proof 把对象直接放进假存储并返回 key，相当于已完成上传
func (f *fixture) proof(key string) string {
	if f.blobs != nil {
		f.blobs.mu.Lock()
		f.blobs.objs[key] = "img"
		f.blobs.mu.Unlock()
	}
	return key
}

func (f *fixture) makeAdmin(userID string) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.admins[userID] = model.AppAdmin{UserID: userID, CreatedAt: f.store.tick()}
}

func (f *fixture) addProfile(userID, name string) {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	f.store.profiles[userID] = model.Profile{UserID: userID, DisplayName: name, CreatedAt: f.store.tick()}
}

// createTeam 以 admin 身份建队（admin 不存在时自动授予）
func (f *fixture) createTeam(t *testing.T, name string) *dto.TeamResponse {
	t.Helper()
	f.makeAdmin("admin")
	team, err := f.svc.Team.Create(context.Background(), "admin", &dto.CreateTeamRequest{Name: name})
	if err != nil {
		t.Fatalf("创建队伍失败: %v", err)
	}
	return team
}

func (f *fixture) join(t *testing.T, userID, code string) {
	t.Helper()
	if _, err := f.svc.Team.Join(context.Background(), userID, code); err != nil {
		t.Fatalf("%s 加入队伍失败: %v", userID, err)
	}
}

// seedBoard 初始化默认模板并返回 code → square
func (f *fixture) seedBoard(t *testing.T, teamID string) map[string]dto.SquareResponse {
	t.Helper()
	f.makeAdmin("admin")
	squares, err := f.svc.Board.Seed(context.Background(), "admin", teamID, "")
	if err != nil {
		t.Fatalf("初始化棋盘失败: %v", err)
	}
	out := make(map[string]dto.SquareResponse, len(squares))
	for _, sq := range squares {
		out[sq.Code] = sq
	}
	return out
}

// boardWithMember 一个已初始化的队伍和一名成员 u1
func (f *fixture) boardWithMember(t *testing.T) (*dto.TeamResponse, map[string]dto.SquareResponse) {
	t.Helper()
	team := f.createTeam(t, "Iron Foundry")
	f.join(t, "u1", team.JoinCode)
	return team, f.seedBoard(t, team.ID)
}

func (f *fixture) token(t *testing.T, userID string, meta jwt.UserMetadata) string {
	t.Helper()
	tok, err := f.jwt.GenerateToken(userID, meta, time.Hour)
	if err != nil {
		t.Fatalf("签发测试 Token 失败: %v", err)
	}
	return tok
}

func strPtr(s string) *string { return &s }

func imageUpload(name, contentType, body string) *ProofUpload {
	return &ProofUpload{
		Filename:    name,
		ContentType: contentType,
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}
