package service

import (
	"errors"
	"testing"

	"github.com/dealsplit/internal/config"
	"github.com/dealsplit/internal/constants"
	"github.com/dealsplit/internal/repository"

	"github.com/shopspring/decimal"
)

func setupFeeServiceTest(t *testing.T) *FeeService {
	t.Helper()
	db := openServiceTestDB(t, "fee_service_test")
	return NewFeeService(repository.NewFeeRepository(db), testFeesConfig())
}

func TestFeeServiceListIncludesDefaultsFirst(t *testing.T) {
	svc := setupFeeServiceTest(t)
	if _, err := svc.CreateCustom(CreateFeeInput{Name: "Hosting", Kind: constants.FeeKindFixed, Value: decimal.NewFromInt(20)}); err != nil {
		t.Fatalf("create custom fee failed: %v", err)
	}

	views, err := svc.List()
	if err != nil {
		t.Fatalf("list fees failed: %v", err)
	}
	if len(views) != 4 {
		t.Fatalf("expected 4 fees, got %d", len(views))
	}
	for i := 0; i < 3; i++ {
		if views[i].Source != constants.FeeSourceDefault {
			t.Fatalf("expected default fee at %d, got %+v", i, views[i])
		}
	}
	if !views[2].BasedOnRemainder {
		t.Fatalf("expected payment fee to be remainder based")
	}
	if views[3].Source != constants.FeeSourceCustom || views[3].Name != "Hosting" || views[3].ID == 0 {
		t.Fatalf("unexpected custom fee view: %+v", views[3])
	}
}

func TestFeeServiceCreateCustomRejectsCollisions(t *testing.T) {
	svc := setupFeeServiceTest(t)
	if _, err := svc.CreateCustom(CreateFeeInput{Name: "Hosting", Kind: constants.FeeKindFixed, Value: decimal.NewFromInt(20)}); err != nil {
		t.Fatalf("create custom fee failed: %v", err)
	}

	cases := []struct {
		name  string
		input CreateFeeInput
		want  error
	}{
		{"default name", CreateFeeInput{Name: "platform fee", Kind: constants.FeeKindPercentage, Value: decimal.NewFromInt(1)}, ErrFeeNameDuplicate},
		{"custom name", CreateFeeInput{Name: "HOSTING", Kind: constants.FeeKindFixed, Value: decimal.NewFromInt(1)}, ErrFeeNameDuplicate},
		{"empty name", CreateFeeInput{Name: "  ", Kind: constants.FeeKindFixed}, ErrFeeNameRequired},
		{"bad kind", CreateFeeInput{Name: "Tax", Kind: "share", Value: decimal.NewFromInt(1)}, ErrFeeKindInvalid},
		{"negative value", CreateFeeInput{Name: "Tax", Kind: constants.FeeKindFixed, Value: decimal.NewFromInt(-1)}, ErrFeeValueNegative},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateCustom(tc.input)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected validation category, got %v", err)
			}
		})
	}
}

func TestFeeServiceDeleteCustom(t *testing.T) {
	svc := setupFeeServiceTest(t)
	fee, err := svc.CreateCustom(CreateFeeInput{Name: "Hosting", Kind: constants.FeeKindFixed, Value: decimal.NewFromInt(20)})
	if err != nil {
		t.Fatalf("create custom fee failed: %v", err)
	}
	if err := svc.DeleteCustom(fee.ID); err != nil {
		t.Fatalf("delete custom fee failed: %v", err)
	}
	if err := svc.DeleteCustom(fee.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.CreateCustom(CreateFeeInput{Name: "Hosting", Kind: constants.FeeKindFixed}); err != nil {
		t.Fatalf("expected name reusable after delete, got %v", err)
	}
}

func TestBuildDefaultFeesSkipsInvalidEntries(t *testing.T) {
	fees := buildDefaultFees([]config.FeeDefaultConfig{
		{Name: "Platform Fee", Kind: "Percentage", Value: "10"},
		{Name: "", Kind: "fixed", Value: "1"},
		{Name: "Broken", Kind: "fixed", Value: "abc"},
		{Name: "Negative", Kind: "fixed", Value: "-5"},
	})
	if len(fees) != 1 {
		t.Fatalf("expected 1 valid fee, got %d", len(fees))
	}
	if fees[0].Kind != constants.FeeKindPercentage || !fees[0].Value.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unexpected fee: %+v", fees[0])
	}
}
