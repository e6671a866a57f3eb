package worker

import (
	"context"

	"github.com/dealsplit/internal/logger"
	"github.com/dealsplit/internal/provider"
	"github.com/dealsplit/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskDashboardWarmup, c.handleDashboardWarmup)
}

// handleDashboardWarmup 重算预设范围的仪表盘汇总；任务版本落后于当前版本时跳过，由更新的任务负责
func (c *Consumer) handleDashboardWarmup(ctx context.Context, task *asynq.Task) error {
	if c == nil || c.Container == nil || c.DashboardService == nil || task == nil {
		logger.Debugw("worker_dashboard_warmup_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseDashboardWarmupPayload(task)
	if err != nil {
		logger.Warnw("worker_dashboard_warmup_unmarshal_failed", "error", err)
		return err
	}
	current := c.DashboardService.CurrentVersion(ctx)
	if payload.Version < current {
		logger.Debugw("worker_dashboard_warmup_skip_stale",
			"task_version", payload.Version,
			"current_version", current,
		)
		return nil
	}
	written, err := c.DashboardService.Warmup(ctx, "")
	if err != nil {
		logger.Warnw("worker_dashboard_warmup_failed",
			"reason", payload.Reason,
			"payout_id", payload.PayoutID,
			"error", err,
		)
		return err
	}
	logger.Infow("worker_dashboard_warmup_done",
		"reason", payload.Reason,
		"payout_id", payload.PayoutID,
		"version", current,
		"windows", written,
	)
	return nil
}
