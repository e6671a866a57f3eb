package app

import (
	"errors"
	"time"

	"github.com/dealsplit/internal/config"
	"github.com/dealsplit/internal/logger"
	"github.com/dealsplit/internal/provider"
	"github.com/dealsplit/internal/router"
	"github.com/dealsplit/internal/worker"
)

// BuildRunner 构建服务运行器
func BuildRunner(cfg *config.Config, mode string) (*Runner, *provider.Container, error) {
	if cfg == nil {
		return nil, nil, errors.New("config is nil")
	}
	if mode != ModeAll && mode != ModeAPI && mode != ModeWorker {
		return nil, nil, errors.New("unknown mode: " + mode)
	}

	container := provider.NewContainer(cfg)

	var services []Service

	// 初始化 HTTP 服务
	if mode == ModeAll || mode == ModeAPI {
		engine := router.SetupRouter(cfg, container)
		addr := cfg.Server.Host + ":" + cfg.Server.Port
		httpService := NewHTTPService(addr, engine)
		services = append(services, httpService)
	}

	// 初始化 Worker 服务
	if mode == ModeAll || mode == ModeWorker {
		consumer := worker.NewConsumer(container)
		warmupInterval := time.Duration(cfg.Dashboard.WarmupIntervalSeconds) * time.Second
		workerService, err := worker.NewService(&cfg.Queue, consumer, warmupInterval)
		if err != nil {
			if mode == ModeWorker {
				container.Close()
				return nil, nil, err
			}
			// all 模式下队列未启用时仅运行 HTTP，结算单变更的预热任务会被跳过
			logger.Warnw("app_worker_disabled", "error", err)
		} else {
			services = append(services, workerService)
		}
	}

	// 如果没有服务被启动（例如模式错误或配置导致都没起），应该报错或至少打日志
	if len(services) == 0 {
		container.Close()
		return nil, nil, errors.New("no services initialized (check mode and config)")
	}

	return NewRunner(services...), container, nil
}

// Run 应用启动入口
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	runner, container, err := BuildRunner(opts.Config, opts.Mode)
	if err != nil {
		return err
	}
	defer container.Close()

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	opts.Logger.Infow("app_start", "addr", addr, "mode", opts.Mode)
	return RunWithOptions(runner, opts)
}
