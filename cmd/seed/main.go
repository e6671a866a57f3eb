package main

import (
	"context"

	"github.com/dealsplit/internal/config"
	"github.com/dealsplit/internal/constants"
	"github.com/dealsplit/internal/logger"
	"github.com/dealsplit/internal/models"
	"github.com/dealsplit/internal/provider"
	"github.com/dealsplit/internal/service"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type seedProject struct {
	name   string
	amount string
}

type seedClient struct {
	name     string
	projects []seedProject
}

func main() {
	_ = godotenv.Load()

	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogLevel, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	var count int64
	if err := models.DB.Model(&models.Payout{}).Count(&count).Error; err != nil {
		stdLog.Fatalf("Failed to count payouts: %v", err)
	}
	if count > 0 {
		stdLog.Printf("Database already has %d payouts, skip seeding", count)
		return
	}

	container := provider.NewContainer(cfg)
	defer container.Close()
	ctx := context.Background()

	// 添加开发者
	developerNames := []service.CreateDeveloperInput{
		{Name: "Alice Chen", Email: "alice@example.com"},
		{Name: "Bruno Silva", Email: "bruno@example.com"},
		{Name: "Chidi Okafor"},
	}
	developers := make([]*models.Developer, 0, len(developerNames))
	for _, input := range developerNames {
		developer, err := container.DeveloperService.Create(input)
		if err != nil {
			stdLog.Fatalf("Failed to create developer %s: %v", input.Name, err)
		}
		developers = append(developers, developer)
	}

	// 添加客户与项目
	clientSeeds := []seedClient{
		{name: "Acme Corp", projects: []seedProject{{"Website Redesign", "4200"}, {"Mobile App", "8800"}}},
		{name: "Globex", projects: []seedProject{{"Data Pipeline", "6150.50"}}},
		{name: "Initech", projects: []seedProject{{"TPS Reports", "1200"}, {"Printer Driver", "950"}}},
	}
	var lineItems [][]service.PayoutLineItemInput
	for _, seed := range clientSeeds {
		client, err := container.ClientService.Create(service.CreateClientInput{Name: seed.name})
		if err != nil {
			stdLog.Fatalf("Failed to create client %s: %v", seed.name, err)
		}
		items := make([]service.PayoutLineItemInput, 0, len(seed.projects))
		for _, p := range seed.projects {
			project, err := container.ClientService.AddProject(client.ID, service.CreateProjectInput{Name: p.name})
			if err != nil {
				stdLog.Fatalf("Failed to create project %s: %v", p.name, err)
			}
			items = append(items, service.PayoutLineItemInput{
				ClientID:  client.ID,
				ProjectID: project.ID,
				Amount:    decimal.RequireFromString(p.amount),
			})
		}
		lineItems = append(lineItems, items)
	}

	// 添加自定义费用
	if _, err := container.FeeService.CreateCustom(service.CreateFeeInput{
		Name:  "Hosting",
		Kind:  constants.FeeKindFixed,
		Value: decimal.NewFromInt(50),
	}); err != nil {
		stdLog.Printf("Skip custom fee: %v", err)
	}

	// 添加结算单并推进状态
	statuses := []string{"", constants.PayoutStatusPending, constants.PayoutStatusPaymentComplete}
	for i, items := range lineItems {
		developer := developers[i%len(developers)]
		payout, err := container.PayoutService.Create(ctx, service.CreatePayoutInput{
			DeveloperID: developer.ID,
			LineItems:   items,
		})
		if err != nil {
			stdLog.Fatalf("Failed to create payout: %v", err)
		}
		if statuses[i] != "" {
			if _, err := container.PayoutService.UpdateStatus(ctx, payout.ID, statuses[i]); err != nil {
				stdLog.Fatalf("Failed to update payout status: %v", err)
			}
		}
		stdLog.Printf("Seeded payout %s for %s: gross=%s final=%s", payout.PayoutNo, developer.Name, payout.GrossTotal.String(), payout.FinalPayout.String())
	}

	stdLog.Println("Seed data created successfully")
}
