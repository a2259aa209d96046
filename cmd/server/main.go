package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"clan-bingo/config"
	"clan-bingo/internal/api/handler"
	"clan-bingo/internal/api/router"
	"clan-bingo/internal/repository"
	"clan-bingo/internal/service"
	"clan-bingo/internal/worker"
	"clan-bingo/pkg/database"
	"clan-bingo/pkg/jwt"
	applogger "clan-bingo/pkg/logger"
	"clan-bingo/pkg/redis"
	"clan-bingo/pkg/storage"
)

func main() {
	// 0. 本地开发从 .env 注入环境变量（文件不存在时忽略）
	_ = godotenv.Load()

	// 1. 加载配置
	cfg, err := config.Load(os.Getenv("BINGO_CONFIG_FILE"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库并执行迁移
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：失败时限流降级为放行）
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，限流功能将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 对象存储（可选：未配置时上传与签名接口返回 503）
	ctx := context.Background()
	var blobs service.BlobStore
	s3Store, err := storage.NewS3Store(ctx, &cfg.Storage, logger)
	switch {
	case err == nil:
		blobs = s3Store
	case errors.Is(err, storage.ErrNotConfigured):
		logger.Warn("对象存储未配置，凭证图片上传不可用")
	default:
		logger.Fatal("对象存储初始化失败", zap.Error(err))
	}

	// 6. 依赖注入: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwt.NewManager(&cfg.Auth), blobs, logger)
	h := handler.NewHandler(svc)

	// 6.1 初始管理员
	if err := svc.Admin.Bootstrap(ctx, cfg.Auth.BootstrapAdmins); err != nil {
		logger.Fatal("写入初始管理员失败", zap.Error(err))
	}

	// 7. 孤儿凭证清理任务
	var sweeper *worker.ProofSweeper
	if cfg.Sweeper.Enabled && s3Store != nil {
		sweeper = worker.NewProofSweeper(s3Store, repo.Claim, &cfg.Sweeper, logger)
		if err := sweeper.Start(); err != nil {
			logger.Fatal("启动清理任务失败", zap.Error(err))
		}
	}

	// 8. 初始化路由
	gin.SetMode(gin.ReleaseMode)
	engine := router.Setup(cfg, h, svc.Identity, rdb, logger)

	// 9. 启动 HTTP 服务器（优雅关闭）；读超时覆盖图片上传
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 10. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if sweeper != nil {
		if err := sweeper.Stop(); err != nil {
			logger.Error("清理任务关闭异常", zap.Error(err))
		}
	}

	sqlDB.Close()

	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
