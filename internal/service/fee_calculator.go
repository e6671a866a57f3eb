package service

import (
	"fmt"
	"strings"

	"github.com/dealsplit/internal/constants"
	"github.com/dealsplit/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Fee 参与计算的费用定义
type Fee struct {
	Name             string          `json:"name"`
	Kind             string          `json:"kind"`
	Value            decimal.Decimal `json:"value"`
	BasedOnRemainder bool            `json:"based_on_remainder"`
}

// FeeLineItem 参与计算的项目明细
type FeeLineItem struct {
	ClientID  uint            `json:"client_id"`
	ProjectID uint            `json:"project_id"`
	Amount    decimal.Decimal `json:"amount"`
}

// FeeBreakdownEntry 单项费用计算结果
type FeeBreakdownEntry struct {
	Name             string       `json:"name"`
	Amount           models.Money `json:"amount"`
	Kind             string       `json:"kind"`
	Value            models.Rate  `json:"value"`
	BasedOnRemainder bool         `json:"based_on_remainder"`
}

// FeeCalculation 费用计算结果
type FeeCalculation struct {
	GrossTotal   models.Money        `json:"gross_total"`
	FeeBreakdown []FeeBreakdownEntry `json:"fee_breakdown"`
	TotalFees    models.Money        `json:"total_fees"`
	FinalPayout  models.Money        `json:"final_payout"`
}

// CalculateFees 按调用方给定的费用顺序计算费用明细与实际结算金额。
// 百分比费用默认以项目合计为基数；BasedOnRemainder 的费用以扣除此前同类费用后的剩余金额为基数，
// 并在计算后从剩余金额中扣减。每项金额先保留 2 位小数再汇总，结果不做下限截断。
func CalculateFees(lineItems []FeeLineItem, fees []Fee) (FeeCalculation, error) {
	gross := decimal.Zero
	for i, item := range lineItems {
		if item.Amount.IsNegative() {
			return FeeCalculation{}, fmt.Errorf("%w: line item %d amount %s", ErrAmountNegative, i, item.Amount.String())
		}
		gross = gross.Add(item.Amount)
	}
	gross = gross.Round(2)
	if gross.IsNegative() {
		return FeeCalculation{}, fmt.Errorf("%w: gross total %s", ErrAmountNegative, gross.String())
	}
	if err := validateFees(fees); err != nil {
		return FeeCalculation{}, err
	}

	remaining := gross
	totalFees := decimal.Zero
	breakdown := make([]FeeBreakdownEntry, 0, len(fees))
	for _, fee := range fees {
		amount := fee.Value
		if fee.Kind == constants.FeeKindPercentage {
			base := gross
			if fee.BasedOnRemainder {
				base = remaining
			}
			amount = base.Mul(fee.Value).Div(hundred)
		}
		amount = amount.Round(2)
		breakdown = append(breakdown, FeeBreakdownEntry{
			Name:             fee.Name,
			Amount:           models.NewMoneyFromDecimal(amount),
			Kind:             fee.Kind,
			Value:            models.NewRateFromDecimal(fee.Value),
			BasedOnRemainder: fee.BasedOnRemainder,
		})
		if fee.BasedOnRemainder {
			remaining = remaining.Sub(amount)
		}
		totalFees = totalFees.Add(amount)
	}

	return FeeCalculation{
		GrossTotal:   models.NewMoneyFromDecimal(gross),
		FeeBreakdown: breakdown,
		TotalFees:    models.NewMoneyFromDecimal(totalFees),
		FinalPayout:  models.NewMoneyFromDecimal(gross.Sub(totalFees)),
	}, nil
}

// validateFees 校验费用列表：名称非空且唯一（忽略大小写）、类型合法、数值非负
func validateFees(fees []Fee) error {
	seen := make(map[string]struct{}, len(fees))
	for _, fee := range fees {
		name := strings.TrimSpace(fee.Name)
		if name == "" {
			return ErrFeeNameRequired
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("%w: %s", ErrFeeNameDuplicate, name)
		}
		seen[key] = struct{}{}
		if !isValidFeeKind(fee.Kind) {
			return fmt.Errorf("%w: %s", ErrFeeKindInvalid, fee.Kind)
		}
		if fee.Value.IsNegative() {
			return fmt.Errorf("%w: %s", ErrFeeValueNegative, name)
		}
	}
	return nil
}

func isValidFeeKind(kind string) bool {
	return kind == constants.FeeKindPercentage || kind == constants.FeeKindFixed
}
