package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dealsplit/internal/cache"
	"github.com/dealsplit/internal/config"
	"github.com/dealsplit/internal/constants"
	"github.com/dealsplit/internal/logger"
	"github.com/dealsplit/internal/models"
	"github.com/dealsplit/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	dashboardVersionKey     = "dashboard:version"
	dashboardWarmupParallel = 4
)

// dashboardPresetRanges 预热时计算的固定时间范围
var dashboardPresetRanges = []string{
	constants.DashboardRangeAll,
	constants.DashboardRangeYesterday,
	constants.DashboardRange7Days,
	constants.DashboardRange30Days,
	constants.DashboardRangeThisMonth,
	constants.DashboardRangeLastMonth,
	constants.DashboardRangeThisYear,
	constants.DashboardRangeLastYear,
}

// DashboardService 仪表盘服务
// 说明：按时间范围汇总结算单，结果按数据版本缓存。
type DashboardService struct {
	payoutRepo        repository.PayoutRepository
	cacheTTL          time.Duration
	customMaxDays     int
	defaultTimezone   string
	managementFeeName string
	now               func() time.Time
}

// NewDashboardService 创建仪表盘服务
func NewDashboardService(payoutRepo repository.PayoutRepository, cfg config.DashboardConfig, fees config.FeesConfig) *DashboardService {
	return &DashboardService{
		payoutRepo:        payoutRepo,
		cacheTTL:          time.Duration(cfg.CacheTTLSeconds) * time.Second,
		customMaxDays:     cfg.CustomMaxDays,
		defaultTimezone:   strings.TrimSpace(cfg.Timezone),
		managementFeeName: fees.ManagementFeeName,
		now:               time.Now,
	}
}

// DashboardQueryInput 仪表盘查询输入
type DashboardQueryInput struct {
	Range        string
	From         *time.Time
	To           *time.Time
	Timezone     string
	ForceRefresh bool
}

// DashboardSummaryResponse 仪表盘汇总响应
type DashboardSummaryResponse struct {
	Range    string `json:"range"`
	From     string `json:"from,omitempty"`
	To       string `json:"to,omitempty"`
	Timezone string `json:"timezone"`
	Version  int64  `json:"version"`
	PayoutSummary
}

type dashboardWindow struct {
	rangeKey string
	interval *PayoutInterval
	timezone string
}

// GetSummary 获取仪表盘汇总
func (s *DashboardService) GetSummary(ctx context.Context, input DashboardQueryInput) (*DashboardSummaryResponse, error) {
	if input.Timezone == "" {
		input.Timezone = s.defaultTimezone
	}
	window, err := resolveDashboardWindow(input, s.now(), s.customMaxDays)
	if err != nil {
		return nil, err
	}

	version := s.CurrentVersion(ctx)
	cacheKey := dashboardCacheKey(window, version)
	if !input.ForceRefresh {
		var cached DashboardSummaryResponse
		hit, cacheErr := cache.GetJSON(ctx, cacheKey, &cached)
		if cacheErr == nil && hit {
			return &cached, nil
		}
	}

	var from, to *time.Time
	if window.interval != nil {
		from, to = &window.interval.From, &window.interval.To
	}
	payouts, err := s.payoutRepo.ListCreatedBetween(from, to)
	if err != nil {
		return nil, err
	}
	response := s.buildSummary(window, version, payouts)
	s.store(ctx, cacheKey, response)
	return response, nil
}

// Warmup 重新计算所有预设范围的汇总并写入缓存，返回写入数量。
// 结算单只加载一次，各范围并发聚合。
func (s *DashboardService) Warmup(ctx context.Context, timezone string) (int, error) {
	if strings.TrimSpace(timezone) == "" {
		timezone = s.defaultTimezone
	}
	now := s.now()
	windows := make([]dashboardWindow, 0, len(dashboardPresetRanges))
	for _, rangeKey := range dashboardPresetRanges {
		window, err := resolveDashboardWindow(DashboardQueryInput{Range: rangeKey, Timezone: timezone}, now, s.customMaxDays)
		if err != nil {
			return 0, err
		}
		windows = append(windows, window)
	}

	// 先取版本再加载数据，加载期间发生的变更会提升版本，旧数据只会落在旧版本键下
	version := s.CurrentVersion(ctx)
	payouts, err := s.payoutRepo.ListCreatedBetween(nil, nil)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dashboardWarmupParallel)
	for _, window := range windows {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			response := s.buildSummary(window, version, payouts)
			return cache.SetJSON(gctx, dashboardCacheKey(window, version), response, s.cacheTTL)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(windows), nil
}

// BumpVersion 递增仪表盘数据版本，使已有缓存失效
func (s *DashboardService) BumpVersion(ctx context.Context) (int64, error) {
	return cache.BumpVersion(ctx, dashboardVersionKey)
}

// CurrentVersion 当前仪表盘数据版本，读取失败时返回 0
func (s *DashboardService) CurrentVersion(ctx context.Context) int64 {
	version, err := cache.GetVersion(ctx, dashboardVersionKey)
	if err != nil {
		logger.Warnw("dashboard_version_read_failed", "error", err)
		return 0
	}
	return version
}

func (s *DashboardService) store(ctx context.Context, key string, response *DashboardSummaryResponse) {
	if err := cache.SetJSON(ctx, key, response, s.cacheTTL); err != nil {
		logger.Warnw("dashboard_cache_write_failed", "key", key, "error", err)
	}
}

func (s *DashboardService) buildSummary(window dashboardWindow, version int64, payouts []models.Payout) *DashboardSummaryResponse {
	response := &DashboardSummaryResponse{
		Range:         window.rangeKey,
		Timezone:      window.timezone,
		Version:       version,
		PayoutSummary: AggregatePayouts(payouts, window.interval, s.managementFeeName),
	}
	if window.interval != nil {
		response.From = window.interval.From.Format(time.RFC3339)
		response.To = window.interval.To.Format(time.RFC3339)
	}
	return response
}

func dashboardCacheKey(window dashboardWindow, version int64) string {
	if window.interval == nil {
		return fmt.Sprintf("dashboard:summary:v%d:%s", version, window.rangeKey)
	}
	return fmt.Sprintf("dashboard:summary:v%d:%s:%d:%d:%s",
		version,
		window.rangeKey,
		window.interval.From.Unix(),
		window.interval.To.Unix(),
		window.timezone,
	)
}

// resolveDashboardWindow 将范围参数解析为闭区间；all 不限时间
func resolveDashboardWindow(input DashboardQueryInput, now time.Time, customMaxDays int) (dashboardWindow, error) {
	rangeKey := strings.ToLower(strings.TrimSpace(input.Range))
	if rangeKey == "" {
		rangeKey = constants.DashboardRangeAll
	}

	timezone := strings.TrimSpace(input.Timezone)
	location := time.Local
	if timezone != "" {
		if parsed, err := time.LoadLocation(timezone); err == nil {
			location = parsed
		} else {
			timezone = ""
		}
	}
	if timezone == "" {
		timezone = location.String()
	}

	localNow := now.In(location)
	todayStart := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, location)
	monthStart := time.Date(localNow.Year(), localNow.Month(), 1, 0, 0, 0, 0, location)
	yearStart := time.Date(localNow.Year(), 1, 1, 0, 0, 0, 0, location)
	window := dashboardWindow{rangeKey: rangeKey, timezone: timezone}

	var startAt, endAt time.Time
	switch rangeKey {
	case constants.DashboardRangeAll:
		return window, nil
	case constants.DashboardRangeYesterday:
		startAt, endAt = todayStart.AddDate(0, 0, -1), todayStart
	case constants.DashboardRange7Days:
		startAt, endAt = todayStart.AddDate(0, 0, -6), todayStart.AddDate(0, 0, 1)
	case constants.DashboardRange30Days:
		startAt, endAt = todayStart.AddDate(0, 0, -29), todayStart.AddDate(0, 0, 1)
	case constants.DashboardRangeThisMonth:
		startAt, endAt = monthStart, monthStart.AddDate(0, 1, 0)
	case constants.DashboardRangeLastMonth:
		startAt, endAt = monthStart.AddDate(0, -1, 0), monthStart
	case constants.DashboardRangeThisYear:
		startAt, endAt = yearStart, yearStart.AddDate(1, 0, 0)
	case constants.DashboardRangeLastYear:
		startAt, endAt = yearStart.AddDate(-1, 0, 0), yearStart
	case constants.DashboardRangeCustom:
		if input.From == nil || input.To == nil {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		from := input.From.In(location)
		to := input.To.In(location)
		if to.Before(from) {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		if customMaxDays > 0 && to.Sub(from) > time.Hour*24*time.Duration(customMaxDays) {
			return dashboardWindow{}, ErrDashboardRangeInvalid
		}
		window.interval = &PayoutInterval{From: from, To: to}
		return window, nil
	default:
		return dashboardWindow{}, ErrDashboardRangeInvalid
	}

	window.interval = &PayoutInterval{From: startAt, To: endAt.Add(-time.Nanosecond)}
	return window, nil
}
