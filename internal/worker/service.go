package worker

import (
	"context"
	"errors"
	"time"

	"github.com/dealsplit/internal/config"
	"github.com/dealsplit/internal/logger"
	"github.com/dealsplit/internal/queue"

	"github.com/hibiken/asynq"
)

// Service 异步队列服务
type Service struct {
	name           string
	server         *asynq.Server
	mux            *asynq.ServeMux
	consumer       *Consumer
	warmupInterval time.Duration
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer, warmupInterval time.Duration) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:           "worker",
		server:         server,
		mux:            mux,
		consumer:       consumer,
		warmupInterval: warmupInterval,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.warmupInterval > 0 && s.consumer != nil && s.consumer.Container != nil && s.consumer.DashboardService != nil {
		go s.runDashboardWarmupLoop(ctx)
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	<-ctx.Done()
	return nil
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runDashboardWarmupLoop 定时预热，使按日滚动的时间范围在无结算单变更时也保持新鲜
func (s *Service) runDashboardWarmupLoop(ctx context.Context) {
	runOnce := func() {
		written, err := s.consumer.DashboardService.Warmup(ctx, "")
		if err != nil {
			logger.Warnw("worker_dashboard_periodic_warmup_failed", "error", err)
			return
		}
		logger.Debugw("worker_dashboard_periodic_warmup_done", "windows", written)
	}
	runOnce()

	ticker := time.NewTicker(s.warmupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
