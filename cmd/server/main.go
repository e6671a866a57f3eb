package main

import (
	"flag"
	"fmt"
	"os"
	"syscall"

	"github.com/dealsplit/internal/app"
	"github.com/dealsplit/internal/config"
	"github.com/dealsplit/internal/logger"
	"github.com/dealsplit/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	ansiReset     = "\033[0m"
	ansiBold      = "\033[1m"
	ansiDim       = "\033[2m"
	ansiGreen     = "\033[32m"
	ansiCyan      = "\033[36m"
	ansiBrightMag = "\033[95m"
)

func main() {
	// 解析命令行参数
	var mode string
	flag.StringVar(&mode, "mode", app.ModeAll, "启动模式: all (默认), api, worker")
	flag.Parse()

	printStartupBanner(mode)

	// .env 存在时先加载，供 viper 的环境变量覆盖读取
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if envErr != nil && !os.IsNotExist(envErr) {
		stdLog.Printf("警告: 读取 .env 失败: %v", envErr)
	}

	// 初始化数据库
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, cfg.Database.LogLevel, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("数据库初始化失败: %v", err)
	}

	// 自动迁移数据库表
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("数据库迁移失败: %v", err)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := app.Run(app.Options{
		Config:  cfg,
		Logger:  logger.S(),
		Signals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		Mode:    mode,
	}); err != nil {
		stdLog.Fatalf("服务运行失败: %v", err)
	}
}

func printStartupBanner(mode string) {
	fmt.Println(ansiBrightMag + "╔══════════════════════════════════════════════╗" + ansiReset)
	fmt.Println(ansiBrightMag + "║           Deal Split Tracker 启动中          ║" + ansiReset)
	fmt.Println(ansiBrightMag + "╚══════════════════════════════════════════════╝" + ansiReset)
	fmt.Println(ansiCyan + "  ____             _   ____        _ _ _   " + ansiReset)
	fmt.Println(ansiCyan + " |  _ \\  ___  __ _| | / ___| _ __ | (_) |_ " + ansiReset)
	fmt.Println(ansiCyan + " | | | |/ _ \\/ _` | | \\___ \\| '_ \\| | | __|" + ansiReset)
	fmt.Println(ansiCyan + " | |_| |  __/ (_| | |  ___) | |_) | | | |_ " + ansiReset)
	fmt.Println(ansiCyan + " |____/ \\___|\\__,_|_| |____/| .__/|_|_|\\__|" + ansiReset)
	fmt.Println(ansiCyan + "                            |_|            " + ansiReset)
	fmt.Println(ansiGreen + ansiBold + "mode: " + mode + ansiReset)
	fmt.Println(ansiDim + "----------------------------------------------" + ansiReset)
}
