package config

import (
	"fmt"
	"strings"

	"github.com/dealsplit/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Queue     QueueConfig     `mapstructure:"queue"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Fees      FeesConfig      `mapstructure:"fees"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Export    ExportConfig    `mapstructure:"export"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Level,
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver   string             `mapstructure:"driver"`    // 数据库驱动（sqlite/postgres）
	DSN      string             `mapstructure:"dsn"`       // 数据库连接串
	LogLevel string             `mapstructure:"log_level"` // gorm 日志级别
	Pool     DatabasePoolConfig `mapstructure:"pool"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// FeeDefaultConfig 内置费用配置
type FeeDefaultConfig struct {
	Name             string `mapstructure:"name"`
	Kind             string `mapstructure:"kind"`  // percentage / fixed
	Value            string `mapstructure:"value"` // 以字符串保存，避免浮点误差
	BasedOnRemainder bool   `mapstructure:"based_on_remainder"`
}

// FeesConfig 费用配置
type FeesConfig struct {
	Defaults          []FeeDefaultConfig `mapstructure:"defaults"`
	PaymentFeeName    string             `mapstructure:"payment_fee_name"`
	ManagementFeeName string             `mapstructure:"management_fee_name"`
}

// DashboardConfig 仪表盘配置
type DashboardConfig struct {
	CacheTTLSeconds       int    `mapstructure:"cache_ttl_seconds"`
	CustomMaxDays         int    `mapstructure:"custom_max_days"`
	Timezone              string `mapstructure:"timezone"`
	WarmupIntervalSeconds int    `mapstructure:"warmup_interval_seconds"` // worker 定时预热间隔，0 表示关闭
}

// ExportConfig 导出配置
type ExportConfig struct {
	SheetName string `mapstructure:"sheet_name"`
	MaxRows   int    `mapstructure:"max_rows"`
}

// RateLimitRuleConfig 单条限流规则，任一值为 0 时不限流
type RateLimitRuleConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxRequests   int `mapstructure:"max_requests"`
}

// RateLimitConfig 接口限流配置（依赖 Redis）
type RateLimitConfig struct {
	PayoutCreate RateLimitRuleConfig `mapstructure:"payout_create"`
	Export       RateLimitRuleConfig `mapstructure:"export"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	cfg, err := LoadWith(viper.GetViper())
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return cfg
}

// LoadWith 使用指定 viper 实例加载配置
func LoadWith(v *viper.Viper) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")     // 从当前目录查找
	v.AddConfigPath("../")   // 如果从 cmd/server 运行
	v.AddConfigPath("./etc") // etc 文件夹

	setDefaults(v)

	// 环境变量支持（例如 server.port -> SERVER_PORT）
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	cfg.normalize()
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("log.level", "")
	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "dealsplit.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 10)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/dealsplit.db")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)
	v.SetDefault("database.pool.conn_max_lifetime_seconds", 0)
	v.SetDefault("database.pool.conn_max_idle_time_seconds", 0)
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "ds")
	v.SetDefault("queue.enabled", false)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.password", "")
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.queues", map[string]int{
		"default": 10,
	})
	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Content-Length",
		"Accept-Encoding",
		"Accept-Language",
		"Cache-Control",
		"X-Requested-With",
		"X-Request-ID",
	})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 600)
	v.SetDefault("fees.defaults", []map[string]interface{}{
		{"name": "Platform Fee", "kind": "percentage", "value": "10", "based_on_remainder": false},
		{"name": "Management Fee", "kind": "percentage", "value": "15", "based_on_remainder": false},
		{"name": "Payment Fee", "kind": "percentage", "value": "2.9", "based_on_remainder": true},
	})
	v.SetDefault("fees.payment_fee_name", "Payment Fee")
	v.SetDefault("fees.management_fee_name", "Management Fee")
	v.SetDefault("dashboard.cache_ttl_seconds", 60)
	v.SetDefault("dashboard.custom_max_days", 366)
	v.SetDefault("dashboard.timezone", "")
	v.SetDefault("dashboard.warmup_interval_seconds", 600)
	v.SetDefault("export.sheet_name", "Payouts")
	v.SetDefault("export.max_rows", 10000)
	v.SetDefault("rate_limit.payout_create.window_seconds", 10)
	v.SetDefault("rate_limit.payout_create.max_requests", 5)
	v.SetDefault("rate_limit.export.window_seconds", 60)
	v.SetDefault("rate_limit.export.max_requests", 10)
}

// normalize 修正空值，保证下游拿到可用配置
func (c *Config) normalize() {
	c.Fees.PaymentFeeName = strings.TrimSpace(c.Fees.PaymentFeeName)
	if c.Fees.PaymentFeeName == "" {
		c.Fees.PaymentFeeName = "Payment Fee"
	}
	c.Fees.ManagementFeeName = strings.TrimSpace(c.Fees.ManagementFeeName)
	if c.Fees.ManagementFeeName == "" {
		c.Fees.ManagementFeeName = "Management Fee"
	}
	if c.Dashboard.CacheTTLSeconds < 0 {
		c.Dashboard.CacheTTLSeconds = 0
	}
	if c.Dashboard.WarmupIntervalSeconds < 0 {
		c.Dashboard.WarmupIntervalSeconds = 0
	}
	if c.Dashboard.CustomMaxDays <= 0 {
		c.Dashboard.CustomMaxDays = 366
	}
	if strings.TrimSpace(c.Export.SheetName) == "" {
		c.Export.SheetName = "Payouts"
	}
}
