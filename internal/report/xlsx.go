package report

import (
	"fmt"

	"folio/internal/analysis"

	"github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"
)

const (
	SheetHoldings   = "Holdings"
	SheetSummary    = "Summary"
	SheetAllocation = "Allocation"
)

// Workbook is everything the spreadsheet export shows.
type Workbook struct {
	Holdings   []analysis.EnrichedHolding
	Summary    analysis.Summary
	Allocation []analysis.Allocation
}

// XLSX renders wb as an Excel workbook.
func XLSX(wb Workbook, log *logrus.Logger) ([]byte, error) {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Warnf("close workbook: %v", err)
		}
	}()

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#cfe2f3"}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", SheetHoldings); err != nil {
		return nil, err
	}
	if err := fillHoldings(f, wb.Holdings, header); err != nil {
		return nil, fmt.Errorf("fill %s: %w", SheetHoldings, err)
	}
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return nil, err
	}
	if err := fillSummary(f, wb.Summary, header); err != nil {
		return nil, fmt.Errorf("fill %s: %w", SheetSummary, err)
	}
	if _, err := f.NewSheet(SheetAllocation); err != nil {
		return nil, err
	}
	if err := fillAllocation(f, wb.Allocation, header); err != nil {
		return nil, fmt.Errorf("fill %s: %w", SheetAllocation, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func writeHeader(f *excelize.File, sheet string, cols []string, style int) error {
	values := make([]any, len(cols))
	for i, c := range cols {
		values[i] = c
	}
	if err := writeRow(f, sheet, 1, values); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func fillHoldings(f *excelize.File, items []analysis.EnrichedHolding, style int) error {
	cols := append(append([]string{}, csvHeader...), "P&L %")
	if err := writeHeader(f, SheetHoldings, cols, style); err != nil {
		return err
	}
	for i, it := range items {
		row := []any{
			it.Name,
			it.Units.InexactFloat64(),
			it.BuyingPrice.InexactFloat64(),
			it.PurchaseDate,
			string(it.Type),
			it.CurrentValue.InexactFloat64(),
			it.PnL.InexactFloat64(),
			it.PnLPercent.Round(2).InexactFloat64(),
		}
		if err := writeRow(f, SheetHoldings, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func fillSummary(f *excelize.File, s analysis.Summary, style int) error {
	if err := writeHeader(f, SheetSummary, []string{"Metric", "Value"}, style); err != nil {
		return err
	}
	rows := [][]any{
		{"Total Invested", INR(s.TotalInvested)},
		{"Current Value", INR(s.CurrentValue)},
		{"Total P&L", INR(s.TotalPnL)},
		{"Return %", s.ReturnPercentage.StringFixed(2)},
	}
	for i, r := range rows {
		if err := writeRow(f, SheetSummary, i+2, r); err != nil {
			return err
		}
	}
	return nil
}

func fillAllocation(f *excelize.File, alloc []analysis.Allocation, style int) error {
	if err := writeHeader(f, SheetAllocation, []string{"Type", "Value", "Percentage"}, style); err != nil {
		return err
	}
	for i, a := range alloc {
		row := []any{a.Type, a.Value.InexactFloat64(), a.Percentage.Round(2).InexactFloat64()}
		if err := writeRow(f, SheetAllocation, i+2, row); err != nil {
			return err
		}
	}
	return nil
}
