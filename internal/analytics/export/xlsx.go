package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/receiptly/receiptly/internal/analytics"
)

// WriteDashboardXLSX builds a three-sheet workbook: summary, monthly
// revenue and daily revenue.
func WriteDashboardXLSX(w io.Writer, dash analytics.Dashboard) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return err
	}

	summaryRows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Receipts", dash.Summary.TotalReceipts},
		{"Paid", dash.Summary.PaidCount},
		{"Pending", dash.Summary.PendingCount},
		{"Unpaid", dash.Summary.UnpaidCount},
		{"Revenue", dash.Summary.Revenue},
		{"Outstanding", dash.Summary.Outstanding},
		{"Generated At", dash.GeneratedAt.Format("2006-01-02 15:04:05")},
	}
	if err := writeRows(f, summarySheet, summaryRows); err != nil {
		return err
	}

	monthlyRows := [][]interface{}{{"Month", "Revenue", "Receipts"}}
	for _, point := range dash.Monthly {
		monthlyRows = append(monthlyRows, []interface{}{point.Month, point.Revenue, point.Receipts})
	}
	if err := addSheet(f, "Monthly Revenue", monthlyRows); err != nil {
		return err
	}

	dailyRows := [][]interface{}{{"Day", "Revenue", "Receipts"}}
	for _, point := range dash.Daily {
		dailyRows = append(dailyRows, []interface{}{point.Day, point.Revenue, point.Receipts})
	}
	if err := addSheet(f, "Daily Revenue", dailyRows); err != nil {
		return err
	}

	_, err := f.WriteTo(w)
	return err
}

func addSheet(f *excelize.File, name string, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	return writeRows(f, name, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
