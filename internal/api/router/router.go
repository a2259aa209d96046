package router

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"clan-bingo/config"
	"clan-bingo/internal/api/handler"
	"clan-bingo/internal/api/middleware"
	"clan-bingo/internal/service"
	"clan-bingo/pkg/metrics"
	"clan-bingo/pkg/redis"
	"clan-bingo/pkg/response"
)

// uploadOverhead multipart 边界与表单字段的额外开销
const uploadOverhead = 64 << 10

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, identity service.IdentityService, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))

	// ── 健康检查与指标 ──
	r.GET("/health", health(rdb))
	r.GET("/metrics", metricsAuth(cfg.Server.MetricsToken), gin.WrapH(metrics.Handler()))

	jsonLimit := middleware.BodyLimit(cfg.Server.BodyLimit)
	uploadLimit := middleware.BodyLimit(cfg.Storage.MaxUploadBytes + uploadOverhead)
	throttle := middleware.RateLimit(rdb, cfg.Workflow.RateLimit, cfg.Workflow.RateLimitWindow, logger)

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.Authenticate(identity))
	{
		// 凭证图片上传单独放宽请求体上限
		v1.POST("/proofs", uploadLimit, throttle, h.Claim.UploadProof)

		api := v1.Group("", jsonLimit)

		// 当前用户
		api.GET("/me", h.Profile.Me)
		api.PUT("/me/rsn", h.Profile.SetRSN)

		// 队伍目录
		teams := api.Group("/teams")
		{
			teams.POST("", h.Team.Create)
			teams.POST("/join", throttle, h.Team.Join)
			teams.GET("/mine", h.Team.ListMine)
			teams.GET("/:id", h.Team.Get)
			teams.DELETE("/:id", h.Team.Delete)
			teams.DELETE("/:id/membership", h.Team.Leave)
			teams.GET("/:id/members", h.Team.ListMembers)
			teams.GET("/:id/squares", h.Board.ListSquares)
			teams.POST("/:id/squares/seed", h.Board.Seed)
			teams.POST("/:id/squares/apply-defaults", h.Board.ApplyDefaults)
			teams.GET("/:id/interests", h.Interest.ListForTeam)
		}

		// 格子
		squares := api.Group("/squares")
		{
			squares.PATCH("/:id", h.Board.Edit)
			squares.PUT("/:id/completed", h.Board.SetCompleted)
			squares.GET("/:id/claims", h.Claim.ListForSquare)
			squares.POST("/:id/claims", throttle, h.Claim.Submit)
			squares.GET("/:id/claims/latest", h.Claim.Latest)
			squares.GET("/:id/interest", h.Interest.ListForSquare)
			squares.POST("/:id/interest", throttle, h.Interest.Toggle)
		}

		// 凭证
		claims := api.Group("/claims")
		{
			claims.POST("/:id/review", h.Claim.Review)
			claims.GET("/:id/proof-url", h.Claim.ProofURL)
		}

		// 管理员
		admin := api.Group("/admin", middleware.RequireAdmin(identity))
		{
			admin.GET("/teams", h.Team.ListAll)
			admin.GET("/claims/pending", h.Claim.ListPending)
			admin.GET("/admins", h.Admin.List)
			admin.PUT("/admins/:user_id", h.Admin.Grant)
			admin.DELETE("/admins/:user_id", h.Admin.Revoke)
		}
	}

	return r
}

// health Redis 仅承载限流，不可用时标记 degraded 而不是失败
func health(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if rdb != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
			defer cancel()
			if err := rdb.Ping(ctx); err != nil {
				body["redis"] = "degraded"
			}
		}
		c.JSON(http.StatusOK, body)
	}
}

// metricsAuth token 为空时不校验（仅内网暴露）
func metricsAuth(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token == "" {
			c.Next()
			return
		}
		got := c.GetHeader("Authorization")
		if subtle.ConstantTimeCompare([]byte(got), []byte("Bearer "+token)) != 1 {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}
		c.Next()
	}
}
