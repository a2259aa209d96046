package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"clan-bingo/internal/service"
	pkgerrors "clan-bingo/pkg/errors"
	"clan-bingo/pkg/response"
)

// Authenticate 身份提供方 Token 认证中间件
// 从 Authorization: Bearer <token> 中提取 Token，校验后注入 user_id
func Authenticate(identity service.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "缺少认证头")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Unauthorized(c, 10002, "认证头格式无效")
			c.Abort()
			return
		}

		ident, err := identity.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			// 资料写入失败属于存储故障，不应让客户端误以为 Token 失效
			if pkgerrors.KindOf(err) == pkgerrors.KindUnavailable {
				response.ServiceUnavailable(c, pkgerrors.ErrUnavailable.Code, pkgerrors.ErrUnavailable.Message)
			} else {
				response.Unauthorized(c, 10002, "Token 无效或已过期")
			}
			c.Abort()
			return
		}

		c.Set("user_id", ident.UserID)
		c.Set("display_name", ident.DisplayName)

		c.Next()
	}
}

// RequireAdmin 管理员路由前置校验；白名单每次读取，读取失败按无权限处理
// Service 层仍会再次校验，这里只是提前拒绝
func RequireAdmin(identity service.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}

		ok, err := identity.IsAdmin(c.Request.Context(), userID)
		if err != nil || !ok {
			response.Forbidden(c, 10003, "无权限访问")
			c.Abort()
			return
		}

		c.Next()
	}
}
