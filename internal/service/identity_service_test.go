package service

import (
	"context"
	"errors"
	"testing"
	"time"

	pkgerrors "clan-bingo/pkg/errors"
	"clan-bingo/pkg/jwt"
)

func TestIdentityService_Authenticate_CreatesThenRefreshes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tok := f.token(t, "user-1", jwt.UserMetadata{FullName: "Zezima"})
	ident, err := f.svc.Identity.Authenticate(ctx, tok)
	if err != nil {
		t.Fatalf("Authenticate 失败: %v", err)
	}
	if ident.UserID != "user-1" || ident.DisplayName != "Zezima" {
		t.Errorf("身份信息不符: %+v", ident)
	}
	if p := f.store.profiles["user-1"]; p.DisplayName != "Zezima" {
		t.Fatalf("首次登录应创建资料: %+v", p)
	}

	// 用户自己设置的 RSN 不应被刷新覆盖
	if _, err := f.svc.Profile.SetDisplayRSN(ctx, "user-1", "Zez"); err != nil {
		t.Fatalf("SetDisplayRSN 失败: %v", err)
	}

	tok = f.token(t, "user-1", jwt.UserMetadata{FullName: "Zezima II", AvatarURL: "https://cdn.test/a.png"})
	if _, err := f.svc.Identity.Authenticate(ctx, tok); err != nil {
		t.Fatalf("Authenticate 失败: %v", err)
	}
	p := f.store.profiles["user-1"]
	if p.DisplayName != "Zezima II" || p.AvatarURL == nil || *p.AvatarURL != "https://cdn.test/a.png" {
		t.Errorf("资料未刷新: %+v", p)
	}
	if p.RSN == nil || *p.RSN != "Zez" {
		t.Errorf("RSN 不应被覆盖: %v", p.RSN)
	}
}

func TestIdentityService_Authenticate_Rejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	otherCfg := testConfig()
	otherCfg.Auth.JWTSecret = "another-secret-0123456789"
	forged, err := jwt.NewManager(&otherCfg.Auth).GenerateToken("user-1", jwt.UserMetadata{}, time.Hour)
	if err != nil {
		t.Fatalf("签发 Token 失败: %v", err)
	}

	for i, tok := range []string{"  ", "not-a-jwt", forged} {
		if _, err := f.svc.Identity.Authenticate(ctx, tok); !errors.Is(err, pkgerrors.ErrUnauthenticated) {
			t.Errorf("case %d: 期望 Unauthenticated，实际: %v", i, err)
		}
	}
	if len(f.store.profiles) != 0 {
		t.Error("认证失败不应创建资料")
	}
}

func TestIdentityService_IsAdmin_RevocationImmediate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.makeAdmin("root")
	f.makeAdmin("mod")

	if ok, err := f.svc.Identity.IsAdmin(ctx, "mod"); err != nil || !ok {
		t.Fatalf("期望 mod 为管理员: %v, %v", ok, err)
	}
	if err := f.svc.Admin.SetAdmin(ctx, "root", "mod", false); err != nil {
		t.Fatalf("撤销管理员失败: %v", err)
	}
	if ok, _ := f.svc.Identity.IsAdmin(ctx, "mod"); ok {
		t.Error("撤销后应立即失效")
	}
	if _, err := f.svc.Team.ListAll(ctx, "mod"); !errors.Is(err, pkgerrors.ErrForbidden) {
		t.Errorf("撤销后的管理员接口应 Forbidden，实际: %v", err)
	}

	f.store.adminErr = errors.New("db down")
	if _, err := f.svc.Identity.IsAdmin(ctx, "root"); !errors.Is(err, pkgerrors.ErrUnavailable) {
		t.Errorf("白名单读取失败应 Unavailable，实际: %v", err)
	}
	if _, err := f.svc.Identity.IsAdmin(ctx, ""); !errors.Is(err, pkgerrors.ErrUnauthenticated) {
		t.Errorf("空用户应 Unauthenticated，实际: %v", err)
	}
}
