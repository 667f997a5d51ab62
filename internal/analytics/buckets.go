// Package analytics aggregates a vendor's receipts into the figures shown
// on the sales dashboard. Aggregation happens in memory: the receipt set of
// a single small business is small, and totals must be derived through the
// calculator rather than summed from stored columns.
package analytics

import (
	"time"

	"github.com/receiptly/receiptly/internal/receipts"
)

// Summary carries the headline counters for the dashboard cards.
type Summary struct {
	TotalReceipts int     `json:"total_receipts"`
	PaidCount     int     `json:"paid_count"`
	PendingCount  int     `json:"pending_count"`
	UnpaidCount   int     `json:"unpaid_count"`
	Revenue       float64 `json:"revenue"`
	Outstanding   float64 `json:"outstanding"`
}

// MonthlyPoint is one month of collected revenue.
type MonthlyPoint struct {
	Month    string  `json:"month"`
	Revenue  float64 `json:"revenue"`
	Receipts int     `json:"receipts"`
}

// DailyPoint is one day of collected revenue.
type DailyPoint struct {
	Day      string  `json:"day"`
	Revenue  float64 `json:"revenue"`
	Receipts int     `json:"receipts"`
}

// Summarize counts receipts by status. Revenue is the grand total of paid
// receipts; outstanding is everything still pending or unpaid.
func Summarize(recs []receipts.Receipt) Summary {
	var s Summary
	for i := range recs {
		total := recs[i].ComputeTotals().GrandTotal
		s.TotalReceipts++
		switch recs[i].Status {
		case receipts.StatusPaid:
			s.PaidCount++
			s.Revenue += total
		case receipts.StatusPending:
			s.PendingCount++
			s.Outstanding += total
		case receipts.StatusUnpaid:
			s.UnpaidCount++
			s.Outstanding += total
		}
	}
	return s
}

// MonthlyRevenue buckets paid revenue into the trailing months window,
// oldest first. Months without activity keep a zero point so charts stay
// aligned.
func MonthlyRevenue(recs []receipts.Receipt, months int, now time.Time) []MonthlyPoint {
	if months <= 0 {
		months = 12
	}
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	points := make([]MonthlyPoint, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		points[i] = MonthlyPoint{Month: key}
		index[key] = i
	}

	for i := range recs {
		key := recs[i].IssueDate.UTC().Format("2006-01")
		pos, ok := index[key]
		if !ok {
			continue
		}
		points[pos].Receipts++
		if recs[i].Status == receipts.StatusPaid {
			points[pos].Revenue += recs[i].ComputeTotals().GrandTotal
		}
	}
	return points
}

// DailyRevenue buckets paid revenue into the trailing days window, oldest
// first.
func DailyRevenue(recs []receipts.Receipt, days int, now time.Time) []DailyPoint {
	if days <= 0 {
		days = 30
	}
	now = now.UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	points := make([]DailyPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		key := start.AddDate(0, 0, i).Format("2006-01-02")
		points[i] = DailyPoint{Day: key}
		index[key] = i
	}

	for i := range recs {
		key := recs[i].IssueDate.UTC().Format("2006-01-02")
		pos, ok := index[key]
		if !ok {
			continue
		}
		points[pos].Receipts++
		if recs[i].Status == receipts.StatusPaid {
			points[pos].Revenue += recs[i].ComputeTotals().GrandTotal
		}
	}
	return points
}
