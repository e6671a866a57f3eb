package provider

import (
	"github.com/dealsplit/internal/cache"
	"github.com/dealsplit/internal/config"
	"github.com/dealsplit/internal/logger"
	"github.com/dealsplit/internal/models"
	"github.com/dealsplit/internal/queue"
	"github.com/dealsplit/internal/repository"
	"github.com/dealsplit/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	DeveloperRepo repository.DeveloperRepository
	ClientRepo    repository.ClientRepository
	FeeRepo       repository.FeeRepository
	PayoutRepo    repository.PayoutRepository

	// Services
	DeveloperService *service.DeveloperService
	ClientService    *service.ClientService
	FeeService       *service.FeeService
	DashboardService *service.DashboardService
	PayoutService    *service.PayoutService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端，未启用时返回空实现
	queueClient, err := queue.NewClient(&cfg.Queue)
	if err != nil {
		logger.Errorw("provider_init_queue_client_failed", "error", err)
		queueClient, _ = queue.NewClient(nil)
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.DeveloperRepo = repository.NewDeveloperRepository(db)
	c.ClientRepo = repository.NewClientRepository(db)
	c.FeeRepo = repository.NewFeeRepository(db)
	c.PayoutRepo = repository.NewPayoutRepository(db)
}

func (c *Container) initServices() {
	c.DeveloperService = service.NewDeveloperService(c.DeveloperRepo)
	c.ClientService = service.NewClientService(c.ClientRepo)
	c.FeeService = service.NewFeeService(c.FeeRepo, c.Config.Fees)
	c.DashboardService = service.NewDashboardService(c.PayoutRepo, c.Config.Dashboard, c.Config.Fees)
	c.PayoutService = service.NewPayoutService(
		c.PayoutRepo,
		c.DeveloperRepo,
		c.ClientRepo,
		c.FeeService,
		c.DashboardService,
		c.QueueClient,
		c.Config.Fees,
		c.Config.Export,
	)
}

// Close 释放容器持有的外部连接
func (c *Container) Close() {
	if c == nil {
		return
	}
	if err := c.QueueClient.Close(); err != nil {
		logger.Warnw("provider_close_queue_client_failed", "error", err)
	}
	if err := cache.Close(); err != nil {
		logger.Warnw("provider_close_redis_failed", "error", err)
	}
}
