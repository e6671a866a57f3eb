package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/dealsplit/internal/constants"
	"github.com/dealsplit/internal/models"

	"github.com/shopspring/decimal"
)

// payoutTransitions 结算单允许的状态流转，终态不出现在键中
var payoutTransitions = map[string][]string{
	constants.PayoutStatusNotPaid: {
		constants.PayoutStatusPending,
		constants.PayoutStatusPaymentComplete,
		constants.PayoutStatusCanceled,
	},
	constants.PayoutStatusPending: {
		constants.PayoutStatusPaymentComplete,
		constants.PayoutStatusCanceled,
	},
}

// IsValidPayoutStatus 判断状态值是否合法
func IsValidPayoutStatus(status string) bool {
	for _, s := range constants.PayoutStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// IsTerminalPayoutStatus 判断是否为终态
func IsTerminalPayoutStatus(status string) bool {
	return status == constants.PayoutStatusPaymentComplete || status == constants.PayoutStatusCanceled
}

// CanTransitionPayout 判断状态流转是否允许
func CanTransitionPayout(from, to string) bool {
	for _, next := range payoutTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionPayout 流转结算单状态并追加时间线记录。
// 入参不会被修改；失败时返回 ErrInvalidTransition。
func TransitionPayout(payout models.Payout, next string, now time.Time) (models.Payout, error) {
	next = strings.TrimSpace(next)
	if !CanTransitionPayout(payout.Status, next) {
		return payout, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, payout.Status, next)
	}

	timeline := make([]models.PayoutTimelineEntry, len(payout.Timeline), len(payout.Timeline)+1)
	copy(timeline, payout.Timeline)
	timeline = append(timeline, models.PayoutTimelineEntry{
		PayoutID:  payout.ID,
		Status:    next,
		Timestamp: now,
	})

	updated := payout
	updated.Status = next
	updated.Timeline = timeline
	return updated, nil
}

// CorrectPaymentFee 将支付手续费修正为实际金额并重算费用合计与实际结算金额。
// 目标为按剩余金额计算的费用项；历史数据没有该标记时按 paymentFeeName 匹配。
// 不修改状态与时间线，也不重新计算其他费用。
func CorrectPaymentFee(payout models.Payout, newAmount decimal.Decimal, paymentFeeName string) (models.Payout, error) {
	if newAmount.IsNegative() {
		return payout, fmt.Errorf("%w: payment fee %s", ErrAmountNegative, newAmount.String())
	}
	idx := findPaymentFeeEntry(payout.Fees, paymentFeeName)
	if idx < 0 {
		return payout, ErrPaymentFeeMissing
	}

	fees := make([]models.PayoutFeeEntry, len(payout.Fees))
	copy(fees, payout.Fees)
	fees[idx].Amount = models.NewMoneyFromDecimal(newAmount)

	totalFees := decimal.Zero
	for _, entry := range fees {
		totalFees = totalFees.Add(entry.Amount.Decimal)
	}

	updated := payout
	updated.Fees = fees
	updated.TotalFees = models.NewMoneyFromDecimal(totalFees)
	updated.FinalPayout = models.NewMoneyFromDecimal(payout.GrossTotal.Decimal.Sub(totalFees))
	return updated, nil
}

func findPaymentFeeEntry(entries []models.PayoutFeeEntry, paymentFeeName string) int {
	for i, entry := range entries {
		if entry.BasedOnRemainder {
			return i
		}
	}
	name := strings.TrimSpace(paymentFeeName)
	if name == "" {
		name = constants.FeeNamePayment
	}
	for i, entry := range entries {
		if strings.EqualFold(strings.TrimSpace(entry.Name), name) {
			return i
		}
	}
	return -1
}
