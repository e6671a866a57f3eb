package service

import (
	"testing"
	"time"

	"github.com/dealsplit/internal/constants"
	"github.com/dealsplit/internal/models"
)

func summaryPayout(created time.Time, gross, management, final string, clients ...string) models.Payout {
	lines := make([]models.PayoutLineItem, 0, len(clients))
	for i, client := range clients {
		lines = append(lines, models.PayoutLineItem{ClientName: client, ProjectName: "P" + string(rune('A'+i))})
	}
	payout := models.Payout{
		GrossTotal:  models.NewMoneyFromDecimal(d(gross)),
		FinalPayout: models.NewMoneyFromDecimal(d(final)),
		LineItems:   lines,
		CreatedAt:   created,
	}
	if management != "" {
		payout.Fees = append(payout.Fees, models.PayoutFeeEntry{Name: constants.FeeNameManagement, Amount: models.NewMoneyFromDecimal(d(management))})
	}
	return payout
}

func TestAggregatePayoutsEmpty(t *testing.T) {
	summary := AggregatePayouts(nil, nil, "")
	if summary.PayoutCount != 0 || !summary.TotalReceived.IsZero() || !summary.TotalFeesPaid.IsZero() {
		t.Fatalf("expected zero summary, got %+v", summary)
	}
	if summary.ClientTotals == nil || len(summary.ClientTotals) != 0 || len(summary.FeeTotals) != 0 {
		t.Fatalf("expected empty maps, got %+v", summary)
	}
}

func TestAggregatePayoutsFullAttribution(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	payouts := []models.Payout{
		summaryPayout(now, "500", "75", "425", "Acme"),
		summaryPayout(now, "300", "45", "255", "Acme", "Globex"),
	}
	summary := AggregatePayouts(payouts, nil, constants.FeeNameManagement)

	if !summary.ClientTotals["Acme"].Equal(d("800")) {
		t.Fatalf("expected Acme 800, got %s", summary.ClientTotals["Acme"])
	}
	if !summary.ClientTotals["Globex"].Equal(d("300")) {
		t.Fatalf("expected Globex 300, got %s", summary.ClientTotals["Globex"])
	}
	if !summary.TotalReceived.Equal(d("800")) || summary.PayoutCount != 2 {
		t.Fatalf("unexpected totals: %+v", summary)
	}
	if !summary.ManagementFeeTotals["Acme"].Equal(d("120")) || !summary.ManagementFeeTotals["Globex"].Equal(d("45")) {
		t.Fatalf("unexpected management totals: %+v", summary.ManagementFeeTotals)
	}
	if !summary.TotalManagementFees.Equal(d("165")) {
		t.Fatalf("unexpected management total: %s", summary.TotalManagementFees)
	}
	if !summary.ClientNetTotals["Acme"].Equal(d("680")) || !summary.TotalNetReceived.Equal(d("935")) {
		t.Fatalf("unexpected net totals: %+v total=%s", summary.ClientNetTotals, summary.TotalNetReceived)
	}
	if !summary.FeeTotals[constants.FeeNameManagement].Equal(d("120")) || !summary.TotalFeesPaid.Equal(d("120")) {
		t.Fatalf("unexpected fee totals: %+v", summary.FeeTotals)
	}
}

func TestAggregatePayoutsCountsClientOncePerPayout(t *testing.T) {
	now := time.Now()
	summary := AggregatePayouts([]models.Payout{summaryPayout(now, "100", "", "100", "Acme", "Acme")}, nil, "")
	if !summary.ClientTotals["Acme"].Equal(d("100")) {
		t.Fatalf("expected single attribution, got %s", summary.ClientTotals["Acme"])
	}
	if _, ok := summary.ManagementFeeTotals["Acme"]; !ok {
		t.Fatalf("client without management fee should still appear with zero")
	}
}

func TestAggregatePayoutsIntervalInclusive(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	payouts := []models.Payout{
		summaryPayout(from, "10", "", "10", "A"),
		summaryPayout(to, "20", "", "20", "A"),
		summaryPayout(from.Add(-time.Second), "40", "", "40", "A"),
		summaryPayout(to.Add(time.Second), "80", "", "80", "A"),
	}
	summary := AggregatePayouts(payouts, &PayoutInterval{From: from, To: to}, "")
	if summary.PayoutCount != 2 || !summary.TotalReceived.Equal(d("30")) {
		t.Fatalf("unexpected filtered summary: count=%d total=%s", summary.PayoutCount, summary.TotalReceived)
	}
}

func TestAggregatePayoutsConfiguredManagementName(t *testing.T) {
	payout := summaryPayout(time.Now(), "100", "", "80", "Acme")
	payout.Fees = []models.PayoutFeeEntry{{Name: "Agency Cut", Amount: models.NewMoneyFromDecimal(d("20"))}}
	summary := AggregatePayouts([]models.Payout{payout}, nil, "Agency Cut")
	if !summary.ManagementFeeTotals["Acme"].Equal(d("20")) {
		t.Fatalf("expected configured management fee to be attributed, got %s", summary.ManagementFeeTotals["Acme"])
	}
}
