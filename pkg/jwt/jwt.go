package jwt

import (
	"errors"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"

	"clan-bingo/config"
)

var (
	ErrTokenExpired = errors.New("token 已过期")
	ErrTokenInvalid = errors.New("token 无效")
)

// UserMetadata 身份提供方附带的资料字段（可选）
type UserMetadata struct {
	FullName  string `json:"full_name,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// Claims 身份提供方签发的 Access Token 声明
// sub 即稳定的用户 ID
type Claims struct {
	Email        string       `json:"email,omitempty"`
	UserMetadata UserMetadata `json:"user_metadata"`
	jwtv5.RegisteredClaims
}

// DisplayName 优先 full_name，其次 name
func (c *Claims) DisplayName() string {
	if n := strings.TrimSpace(c.UserMetadata.FullName); n != "" {
		return n
	}
	return strings.TrimSpace(c.UserMetadata.Name)
}

// Manager 校验外部身份提供方签发的 HS256 Token
// 本服务不签发用户 Token，GenerateToken 仅供测试与本地调试使用
type Manager struct {
	secret   []byte
	audience string
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{
		secret:   []byte(cfg.JWTSecret),
		audience: cfg.JWTAudience,
	}
}

// GenerateToken 以共享密钥签发一个 Token
func (m *Manager) GenerateToken(userID string, meta UserMetadata, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserMetadata: meta,
		RegisteredClaims: jwtv5.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(ttl)),
		},
	}
	if m.audience != "" {
		claims.Audience = jwtv5.ClaimStrings{m.audience}
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并验证 Token，sub 为空视为无效
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	opts := []jwtv5.ParserOption{jwtv5.WithValidMethods([]string{"HS256"})}
	if m.audience != "" {
		opts = append(opts, jwtv5.WithAudience(m.audience))
	}

	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	}, opts...)

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
