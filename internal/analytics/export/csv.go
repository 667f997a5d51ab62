// Package export serialises dashboard aggregates for download.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/receiptly/receiptly/internal/analytics"
)

// WriteDashboardCSV emits the summary block followed by the monthly and
// daily revenue series.
func WriteDashboardCSV(w io.Writer, dash analytics.Dashboard) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Total Receipts", strconv.Itoa(dash.Summary.TotalReceipts)},
		{"Paid", strconv.Itoa(dash.Summary.PaidCount)},
		{"Pending", strconv.Itoa(dash.Summary.PendingCount)},
		{"Unpaid", strconv.Itoa(dash.Summary.UnpaidCount)},
		{"Revenue", formatFloat(dash.Summary.Revenue)},
		{"Outstanding", formatFloat(dash.Summary.Outstanding)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	if err := writer.Write(nil); err != nil {
		return err
	}
	if err := writer.Write([]string{"Month", "Revenue", "Receipts"}); err != nil {
		return err
	}
	for _, point := range dash.Monthly {
		if err := writer.Write([]string{point.Month, formatFloat(point.Revenue), strconv.Itoa(point.Receipts)}); err != nil {
			return err
		}
	}

	if err := writer.Write(nil); err != nil {
		return err
	}
	if err := writer.Write([]string{"Day", "Revenue", "Receipts"}); err != nil {
		return err
	}
	for _, point := range dash.Daily {
		if err := writer.Write([]string{point.Day, formatFloat(point.Revenue), strconv.Itoa(point.Receipts)}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
