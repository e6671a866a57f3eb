package service

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dealsplit/internal/logger"
	"github.com/dealsplit/internal/models"
	"github.com/dealsplit/internal/repository"

	"github.com/xuri/excelize/v2"
)

const defaultExportSheet = "Sheet1"

// ExportXLSX 按筛选条件导出结算单表格，每张结算单一行，每种费用一列
func (s *PayoutService) ExportXLSX(filter repository.PayoutListFilter) (*bytes.Buffer, error) {
	filter.Page = 1
	filter.PageSize = s.export.MaxRows
	payouts, _, err := s.List(filter)
	if err != nil {
		return nil, err
	}
	return buildPayoutWorkbook(payouts, s.export.SheetName)
}

func buildPayoutWorkbook(payouts []models.Payout, sheetName string) (*bytes.Buffer, error) {
	sheetName = strings.TrimSpace(sheetName)
	if sheetName == "" {
		sheetName = defaultExportSheet
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warnw("payout_export_close_failed", "error", err)
		}
	}()
	if sheetName != defaultExportSheet {
		if err := f.SetSheetName(defaultExportSheet, sheetName); err != nil {
			return nil, err
		}
	}

	feeNames := collectFeeNames(payouts)
	headers := []string{"Payout No", "Developer", "Clients", "Projects", "Gross Total"}
	headers = append(headers, feeNames...)
	headers = append(headers, "Total Fees", "Final Payout", "Status", "Created At")
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for rowIndex, payout := range payouts {
		row := []interface{}{
			payout.PayoutNo,
			payout.DeveloperName,
			strings.Join(payout.ClientNames(), ", "),
			strings.Join(payout.ProjectNames(), ", "),
			payout.GrossTotal.InexactFloat64(),
		}
		amounts := make(map[string]models.Money, len(payout.Fees))
		for _, entry := range payout.Fees {
			amounts[entry.Name] = entry.Amount
		}
		for _, name := range feeNames {
			if amount, ok := amounts[name]; ok {
				row = append(row, amount.InexactFloat64())
			} else {
				row = append(row, "")
			}
		}
		row = append(row,
			payout.TotalFees.InexactFloat64(),
			payout.FinalPayout.InexactFloat64(),
			payout.Status,
			payout.CreatedAt.Format("2006-01-02 15:04:05"),
		)
		cell := fmt.Sprintf("A%d", rowIndex+2)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf, nil
}

// collectFeeNames 按首次出现顺序收集费用名称
func collectFeeNames(payouts []models.Payout) []string {
	seen := make(map[string]struct{})
	names := make([]string, 0)
	for _, payout := range payouts {
		for _, entry := range payout.Fees {
			if _, ok := seen[entry.Name]; ok {
				continue
			}
			seen[entry.Name] = struct{}{}
			names = append(names, entry.Name)
		}
	}
	return names
}
