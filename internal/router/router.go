package router

import (
	"fmt"
	"strings"

	"github.com/dealsplit/internal/cache"
	"github.com/dealsplit/internal/config"
	adminhandlers "github.com/dealsplit/internal/http/handlers/admin"
	"github.com/dealsplit/internal/logger"
	"github.com/dealsplit/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter 初始化路由
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	h := adminhandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "ds"
	}
	redisClient := cache.Client()
	payoutCreateRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:payout_create", redisPrefix),
		WindowSeconds: cfg.RateLimit.PayoutCreate.WindowSeconds,
		MaxRequests:   cfg.RateLimit.PayoutCreate.MaxRequests,
	}
	exportRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:payout_export", redisPrefix),
		WindowSeconds: cfg.RateLimit.Export.WindowSeconds,
		MaxRequests:   cfg.RateLimit.Export.MaxRequests,
	}

	// 中间件
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// 开发者
		apiV1.GET("/developers", h.GetDevelopers)
		apiV1.POST("/developers", h.CreateDeveloper)
		apiV1.POST("/developers/:id/archive", h.ToggleDeveloperArchive)

		// 客户与项目
		apiV1.GET("/clients", h.GetClients)
		apiV1.POST("/clients", h.CreateClient)
		apiV1.POST("/clients/:id/archive", h.ToggleClientArchive)
		apiV1.POST("/clients/:id/projects", h.CreateProject)
		apiV1.POST("/clients/:id/projects/:project_id/archive", h.ToggleProjectArchive)
		apiV1.POST("/clients/:id/projects/:project_id/status", h.CycleProjectStatus)

		// 费用
		apiV1.GET("/fees", h.GetFees)
		apiV1.POST("/fees", h.CreateFee)
		apiV1.DELETE("/fees/:id", h.DeleteFee)

		// 结算单
		apiV1.POST("/payouts/preview", h.PreviewPayout)
		apiV1.POST("/payouts", RateLimitMiddleware(redisClient, payoutCreateRule, KeyByIPAndJSONField("developer_id")), h.CreatePayout)
		apiV1.GET("/payouts", h.GetPayouts)
		apiV1.GET("/payouts/board", h.GetPayoutBoard)
		apiV1.GET("/payouts/export", RateLimitMiddleware(redisClient, exportRule, KeyByIPAndRoute), h.ExportPayouts)
		apiV1.GET("/payouts/:id", h.GetPayout)
		apiV1.DELETE("/payouts/:id", h.DeletePayout)
		apiV1.POST("/payouts/:id/status", h.UpdatePayoutStatus)
		apiV1.POST("/payouts/:id/payment-fee", h.CorrectPayoutPaymentFee)

		// 仪表盘
		apiV1.GET("/dashboard/summary", h.GetDashboardSummary)
	}

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
