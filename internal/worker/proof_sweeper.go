package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"clan-bingo/config"
	"clan-bingo/pkg/metrics"
	"clan-bingo/pkg/storage"
)

// ObjectStore 清理任务需要的对象存储能力（*storage.S3Store 实现）
type ObjectStore interface {
	List(ctx context.Context, prefix string, fn func(storage.Object) error) error
	Delete(ctx context.Context, key string) error
}

// ClaimLookup 判断对象是否仍被凭证引用（repository.ClaimRepository 实现）
type ClaimLookup interface {
	ExistsByImagePath(ctx context.Context, imagePath string) (bool, error)
}

// ProofSweeper 定期删除没有任何凭证引用的图片对象。
// 上传先于凭证提交，删除队伍也会留下孤儿图片；只清理早于 MinAge 的对象，
// 给"已上传、尚未提交"的请求留出窗口。
type ProofSweeper struct {
	store    ObjectStore
	claims   ClaimLookup
	interval time.Duration
	minAge   time.Duration
	logger   *zap.Logger
	now      func() time.Time
	sched    gocron.Scheduler
}

// NewProofSweeper 创建清理任务（未启动）
func NewProofSweeper(store ObjectStore, claims ClaimLookup, cfg *config.SweeperConfig, logger *zap.Logger) *ProofSweeper {
	return &ProofSweeper{
		store:    store,
		claims:   claims,
		interval: cfg.Interval,
		minAge:   cfg.MinAge,
		logger:   logger,
		now:      time.Now,
	}
}

// Start 按 interval 周期执行；上一轮未结束时跳过本轮
func (s *ProofSweeper) Start() error {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("创建调度器失败: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), s.interval)
			defer cancel()
			if _, err := s.Sweep(ctx); err != nil {
				s.logger.Error("孤儿凭证清理失败", zap.Error(err))
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithName("proof-sweeper"),
	)
	if err != nil {
		_ = sched.Shutdown()
		return fmt.Errorf("注册清理任务失败: %w", err)
	}

	sched.Start()
	s.sched = sched
	s.logger.Info("孤儿凭证清理任务已启动",
		zap.Duration("interval", s.interval),
		zap.Duration("min_age", s.minAge),
	)
	return nil
}

// Stop 等待正在执行的任务结束后关闭调度器
func (s *ProofSweeper) Stop() error {
	if s.sched == nil {
		return nil
	}
	return s.sched.Shutdown()
}

// Sweep 执行一轮清理，返回删除数量。
// 引用查询失败时立即中止：无法确认的对象一律保留。
func (s *ProofSweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.minAge)

	var candidates []string
	err := s.store.List(ctx, "", func(obj storage.Object) error {
		if obj.LastModified.After(cutoff) {
			return nil
		}
		referenced, err := s.claims.ExistsByImagePath(ctx, obj.Key)
		if err != nil {
			return fmt.Errorf("查询凭证引用失败: %w", err)
		}
		if !referenced {
			candidates = append(candidates, obj.Key)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, key := range candidates {
		if err := s.store.Delete(ctx, key); err != nil {
			s.logger.Warn("删除孤儿凭证失败", zap.String("key", key), zap.Error(err))
			continue
		}
		deleted++
	}
	metrics.AddSwept(deleted)

	if deleted > 0 || len(candidates) > 0 {
		s.logger.Info("孤儿凭证清理完成",
			zap.Int("candidates", len(candidates)),
			zap.Int("deleted", deleted),
		)
	}
	return deleted, nil
}
