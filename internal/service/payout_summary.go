package service

import (
	"strings"
	"time"

	"github.com/dealsplit/internal/constants"
	"github.com/dealsplit/internal/models"

	"github.com/shopspring/decimal"
)

// PayoutInterval 汇总时间区间（闭区间）
type PayoutInterval struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains 判断时间是否落在区间内（含边界）
func (i PayoutInterval) Contains(t time.Time) bool {
	return !t.Before(i.From) && !t.After(i.To)
}

// PayoutSummary 结算单汇总结果
type PayoutSummary struct {
	PayoutCount         int                     `json:"payout_count"`
	TotalReceived       models.Money            `json:"total_received"`
	TotalFeesPaid       models.Money            `json:"total_fees_paid"`
	TotalManagementFees models.Money            `json:"total_management_fees"`
	TotalNetReceived    models.Money            `json:"total_net_received"`
	ClientTotals        map[string]models.Money `json:"client_totals"`
	FeeTotals           map[string]models.Money `json:"fee_totals"`
	ManagementFeeTotals map[string]models.Money `json:"management_fee_totals"`
	ClientNetTotals     map[string]models.Money `json:"client_net_totals"`
}

// AggregatePayouts 汇总结算单。
// 结算单涉及多个客户时，其金额完整计入每个客户（不按比例拆分）；同一客户在一张结算单中只计一次。
func AggregatePayouts(payouts []models.Payout, interval *PayoutInterval, managementFeeName string) PayoutSummary {
	managementFeeName = strings.TrimSpace(managementFeeName)
	if managementFeeName == "" {
		managementFeeName = constants.FeeNameManagement
	}

	totalReceived := decimal.Zero
	clientTotals := make(map[string]decimal.Decimal)
	feeTotals := make(map[string]decimal.Decimal)
	managementTotals := make(map[string]decimal.Decimal)
	clientNetTotals := make(map[string]decimal.Decimal)
	count := 0

	for _, payout := range payouts {
		if interval != nil && !interval.Contains(payout.CreatedAt) {
			continue
		}
		count++
		gross := payout.GrossTotal.Decimal
		totalReceived = totalReceived.Add(gross)

		managementFee := decimal.Zero
		for _, entry := range payout.Fees {
			feeTotals[entry.Name] = feeTotals[entry.Name].Add(entry.Amount.Decimal)
			if entry.Name == managementFeeName {
				managementFee = entry.Amount.Decimal
			}
		}

		for _, client := range payout.ClientNames() {
			clientTotals[client] = clientTotals[client].Add(gross)
			managementTotals[client] = managementTotals[client].Add(managementFee)
			clientNetTotals[client] = clientNetTotals[client].Add(payout.FinalPayout.Decimal)
		}
	}

	return PayoutSummary{
		PayoutCount:         count,
		TotalReceived:       models.NewMoneyFromDecimal(totalReceived),
		TotalFeesPaid:       sumMoneyMap(feeTotals),
		TotalManagementFees: sumMoneyMap(managementTotals),
		TotalNetReceived:    sumMoneyMap(clientNetTotals),
		ClientTotals:        toMoneyMap(clientTotals),
		FeeTotals:           toMoneyMap(feeTotals),
		ManagementFeeTotals: toMoneyMap(managementTotals),
		ClientNetTotals:     toMoneyMap(clientNetTotals),
	}
}

func toMoneyMap(values map[string]decimal.Decimal) map[string]models.Money {
	result := make(map[string]models.Money, len(values))
	for key, value := range values {
		result[key] = models.NewMoneyFromDecimal(value)
	}
	return result
}

func sumMoneyMap(values map[string]decimal.Decimal) models.Money {
	total := decimal.Zero
	for _, value := range values {
		total = total.Add(value)
	}
	return models.NewMoneyFromDecimal(total)
}
