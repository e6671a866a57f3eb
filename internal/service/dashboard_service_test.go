package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dealsplit/internal/config"
	"github.com/dealsplit/internal/constants"
	"github.com/dealsplit/internal/models"
	"github.com/dealsplit/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupDashboardServiceTest(t *testing.T, now time.Time) (*DashboardService, *gorm.DB) {
	t.Helper()
	db := openServiceTestDB(t, "dashboard_service_test")
	svc := NewDashboardService(
		repository.NewPayoutRepository(db),
		config.DashboardConfig{CacheTTLSeconds: 60, CustomMaxDays: 31, Timezone: "UTC"},
		testFeesConfig(),
	)
	svc.now = func() time.Time { return now }
	return svc, db
}

func seedDashboardPayout(t *testing.T, db *gorm.DB, no string, createdAt time.Time, gross int64) {
	t.Helper()
	amount := models.NewMoneyFromDecimal(decimal.NewFromInt(gross))
	payout := models.Payout{
		PayoutNo:      no,
		DeveloperID:   1,
		DeveloperName: "Alice",
		GrossTotal:    amount,
		TotalFees:     models.ZeroMoney(),
		FinalPayout:   amount,
		Status:        constants.PayoutStatusNotPaid,
		CreatedAt:     createdAt,
		LineItems: []models.PayoutLineItem{
			{ClientID: 1, ClientName: "Acme", ProjectID: 1, ProjectName: "Website", Amount: amount},
		},
	}
	if err := repository.NewPayoutRepository(db).Create(&payout); err != nil {
		t.Fatalf("create payout failed: %v", err)
	}
}

func TestResolveDashboardWindowPresets(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	cases := []struct {
		rangeKey string
		from     time.Time
		to       time.Time
	}{
		{constants.DashboardRangeYesterday, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{constants.DashboardRange7Days, time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC)},
		{constants.DashboardRangeThisMonth, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{constants.DashboardRangeLastMonth, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{constants.DashboardRangeLastYear, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.rangeKey, func(t *testing.T) {
			window, err := resolveDashboardWindow(DashboardQueryInput{Range: tc.rangeKey, Timezone: "UTC"}, now, 31)
			if err != nil {
				t.Fatalf("resolve window failed: %v", err)
			}
			if window.interval == nil {
				t.Fatalf("expected interval")
			}
			if !window.interval.From.Equal(tc.from) {
				t.Fatalf("from expected %s, got %s", tc.from, window.interval.From)
			}
			if !window.interval.To.Equal(tc.to.Add(-time.Nanosecond)) {
				t.Fatalf("to expected just before %s, got %s", tc.to, window.interval.To)
			}
		})
	}

	window, err := resolveDashboardWindow(DashboardQueryInput{}, now, 31)
	if err != nil || window.interval != nil || window.rangeKey != constants.DashboardRangeAll {
		t.Fatalf("expected unbounded all window, got %+v err=%v", window, err)
	}
}

func TestResolveDashboardWindowCustom(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC)

	window, err := resolveDashboardWindow(DashboardQueryInput{Range: "custom", From: &from, To: &to}, now, 31)
	if err != nil {
		t.Fatalf("resolve custom window failed: %v", err)
	}
	if !window.interval.From.Equal(from) || !window.interval.To.Equal(to) {
		t.Fatalf("unexpected custom interval: %+v", window.interval)
	}

	farTo := from.AddDate(0, 2, 0)
	invalid := []DashboardQueryInput{
		{Range: "custom"},
		{Range: "custom", From: &to, To: &from},
		{Range: "custom", From: &from, To: &farTo},
		{Range: "fortnight"},
	}
	for _, input := range invalid {
		if _, err := resolveDashboardWindow(input, now, 31); !errors.Is(err, ErrDashboardRangeInvalid) {
			t.Fatalf("expected invalid range for %+v, got %v", input, err)
		}
	}
}

func TestDashboardServiceSummaryUsesCacheUntilVersionBump(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	svc, db := setupDashboardServiceTest(t, now)
	ctx := context.Background()
	seedDashboardPayout(t, db, "PO-1", now.Add(-2*time.Hour), 100)
	seedDashboardPayout(t, db, "PO-2", now.AddDate(0, -2, 0), 300)

	first, err := svc.GetSummary(ctx, DashboardQueryInput{Range: constants.DashboardRangeThisMonth})
	if err != nil {
		t.Fatalf("get summary failed: %v", err)
	}
	if first.PayoutCount != 1 || !first.TotalReceived.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected this_month summary: %+v", first.PayoutSummary)
	}

	seedDashboardPayout(t, db, "PO-3", now.Add(-time.Hour), 50)

	cached, err := svc.GetSummary(ctx, DashboardQueryInput{Range: constants.DashboardRangeThisMonth})
	if err != nil {
		t.Fatalf("get cached summary failed: %v", err)
	}
	if cached.PayoutCount != 1 {
		t.Fatalf("expected cached summary, got count %d", cached.PayoutCount)
	}

	refreshed, err := svc.GetSummary(ctx, DashboardQueryInput{Range: constants.DashboardRangeThisMonth, ForceRefresh: true})
	if err != nil {
		t.Fatalf("force refresh failed: %v", err)
	}
	if refreshed.PayoutCount != 2 {
		t.Fatalf("expected force refresh to recompute, got %d", refreshed.PayoutCount)
	}

	if _, err := svc.BumpVersion(ctx); err != nil {
		t.Fatalf("bump version failed: %v", err)
	}
	all, err := svc.GetSummary(ctx, DashboardQueryInput{})
	if err != nil {
		t.Fatalf("get all summary failed: %v", err)
	}
	if all.PayoutCount != 3 || !all.TotalReceived.Equal(decimal.NewFromInt(450)) {
		t.Fatalf("unexpected all summary: %+v", all.PayoutSummary)
	}
	if !all.ClientTotals["Acme"].Equal(decimal.NewFromInt(450)) {
		t.Fatalf("expected Acme attribution 450, got %s", all.ClientTotals["Acme"])
	}
}

func TestDashboardServiceWarmupFillsPresetWindows(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	svc, db := setupDashboardServiceTest(t, now)
	ctx := context.Background()
	seedDashboardPayout(t, db, "PO-1", now.Add(-time.Hour), 100)

	written, err := svc.Warmup(ctx, "")
	if err != nil {
		t.Fatalf("warmup failed: %v", err)
	}
	if written != len(dashboardPresetRanges) {
		t.Fatalf("expected %d windows, got %d", len(dashboardPresetRanges), written)
	}

	seedDashboardPayout(t, db, "PO-2", now.Add(-time.Minute), 900)
	summary, err := svc.GetSummary(ctx, DashboardQueryInput{Range: constants.DashboardRange7Days})
	if err != nil {
		t.Fatalf("get summary failed: %v", err)
	}
	if summary.PayoutCount != 1 {
		t.Fatalf("expected warmed cache entry, got count %d", summary.PayoutCount)
	}
}

// listThenMutateRepo 在首次列表查询返回后执行一次写入，模拟预热期间提交的变更
type listThenMutateRepo struct {
	*repository.GormPayoutRepository
	mutate func()
	done   bool
}

func (r *listThenMutateRepo) ListCreatedBetween(from, to *time.Time) ([]models.Payout, error) {
	payouts, err := r.GormPayoutRepository.ListCreatedBetween(from, to)
	if !r.done && r.mutate != nil {
		r.done = true
		r.mutate()
	}
	return payouts, err
}

func TestDashboardServiceWarmupDoesNotCacheStaleDataUnderNewVersion(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	svc, db := setupDashboardServiceTest(t, now)
	ctx := context.Background()
	seedDashboardPayout(t, db, "PO-1", now.Add(-time.Hour), 100)
	if _, err := svc.BumpVersion(ctx); err != nil {
		t.Fatalf("bump version failed: %v", err)
	}

	svc.payoutRepo = &listThenMutateRepo{
		GormPayoutRepository: repository.NewPayoutRepository(db),
		mutate: func() {
			seedDashboardPayout(t, db, "PO-2", now.Add(-time.Minute), 50)
			if _, err := svc.BumpVersion(ctx); err != nil {
				t.Fatalf("bump version failed: %v", err)
			}
		},
	}
	if _, err := svc.Warmup(ctx, ""); err != nil {
		t.Fatalf("warmup failed: %v", err)
	}

	summary, err := svc.GetSummary(ctx, DashboardQueryInput{Range: constants.DashboardRangeAll})
	if err != nil {
		t.Fatalf("get summary failed: %v", err)
	}
	if summary.Version != 2 {
		t.Fatalf("expected version 2, got %d", summary.Version)
	}
	if summary.PayoutCount != 2 || !summary.TotalReceived.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("expected fresh summary count=2 received=150, got count=%d received=%s", summary.PayoutCount, summary.TotalReceived)
	}
}
