package jwt

import (
	"testing"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"clan-bingo/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:   "test-secret-key-for-unit-testing-2026",
		JWTAudience: "authenticated",
	})
}

func TestGenerateAndParseToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateToken("user-1", UserMetadata{FullName: "Zezima", AvatarURL: "https://cdn/a.png"}, 15*time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.Subject != "user-1" {
		t.Errorf("期望 Subject=user-1，实际=%s", claims.Subject)
	}
	if claims.DisplayName() != "Zezima" {
		t.Errorf("期望 DisplayName=Zezima，实际=%s", claims.DisplayName())
	}
	if claims.UserMetadata.AvatarURL != "https://cdn/a.png" {
		t.Errorf("期望 AvatarURL 透传，实际=%s", claims.UserMetadata.AvatarURL)
	}
}

func TestDisplayName_FallsBackToName(t *testing.T) {
	c := &Claims{UserMetadata: UserMetadata{Name: "  Lynx Titan "}}
	if c.DisplayName() != "Lynx Titan" {
		t.Errorf("期望回退到 name，实际=%q", c.DisplayName())
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateToken("user-1", UserMetadata{}, -time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken 失败: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenExpired {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	m := newTestManager()
	other := NewManager(&config.AuthConfig{
		JWTSecret:   "another-secret-key-for-testing-xx",
		JWTAudience: "authenticated",
	})

	token, _ := other.GenerateToken("user-1", UserMetadata{}, time.Minute)
	if _, err := m.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_WrongAudience(t *testing.T) {
	m := newTestManager()
	other := NewManager(&config.AuthConfig{
		JWTSecret:   "test-secret-key-for-unit-testing-2026",
		JWTAudience: "anon",
	})

	token, _ := other.GenerateToken("user-1", UserMetadata{}, time.Minute)
	if _, err := m.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_MissingSubject(t *testing.T) {
	m := newTestManager()

	token, _ := m.GenerateToken("", UserMetadata{}, time.Minute)
	if _, err := m.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_RejectsNoneAlgorithm(t *testing.T) {
	m := newTestManager()

	claims := Claims{RegisteredClaims: jwtv5.RegisteredClaims{
		Subject:   "user-1",
		Audience:  jwtv5.ClaimStrings{"authenticated"},
		ExpiresAt: jwtv5.NewNumericDate(time.Now().Add(time.Minute)),
	}}
	token, err := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, claims).SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("构造 none Token 失败: %v", err)
	}

	if _, err := m.ParseToken(token); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	m := newTestManager()
	if _, err := m.ParseToken("not-a-token"); err != ErrTokenInvalid {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}
