// Package analytics derives dashboard figures and reports from the current
// collections. Every function is pure: the same inputs and the same now
// always produce the same output.
package analytics

import (
	"time"

	"compras/internal/core"
)

// MonthFilter decides whether a YYYY-MM-DD date belongs to the month of now.
type MonthFilter func(date string, now time.Time) bool

// SameMonth compares the month of year only, so January 2023 matches
// January 2024. Kept for the dashboard tiles that have always worked this way.
func SameMonth(date string, now time.Time) bool {
	d, err := core.ParseDate(date)
	if err != nil {
		return false
	}
	return d.Month() == now.Month()
}

// SameMonthAndYear compares both month and year.
func SameMonthAndYear(date string, now time.Time) bool {
	d, err := core.ParseDate(date)
	if err != nil {
		return false
	}
	return d.Month() == now.Month() && d.Year() == now.Year()
}

type Stats struct {
	TotalPurchases float64 `json:"totalPurchases"`
	TotalSales     float64 `json:"totalSales"`
	CMVPercent     float64 `json:"cmvPercent"`
	// NextMonthDebt sums every pending boleto regardless of its due date.
	NextMonthDebt float64 `json:"nextMonthDebt"`
}

// MonthlyStats computes the dashboard tiles with the month-of-year filter.
func MonthlyStats(receipts []core.Receipt, sales []core.DailySale, boletos []core.Boleto, now time.Time) Stats {
	return monthlyStats(receipts, sales, boletos, now, SameMonth)
}

// MonthlyStatsStrict is MonthlyStats restricted to the current year as well.
func MonthlyStatsStrict(receipts []core.Receipt, sales []core.DailySale, boletos []core.Boleto, now time.Time) Stats {
	return monthlyStats(receipts, sales, boletos, now, SameMonthAndYear)
}

func monthlyStats(receipts []core.Receipt, sales []core.DailySale, boletos []core.Boleto, now time.Time, inMonth MonthFilter) Stats {
	var monthReceipts []core.Receipt
	for _, r := range receipts {
		if inMonth(r.Date, now) {
			monthReceipts = append(monthReceipts, r)
		}
	}
	var monthSales []core.DailySale
	for _, s := range sales {
		if inMonth(s.Date, now) {
			monthSales = append(monthSales, s)
		}
	}

	st := Stats{
		TotalPurchases: TotalValue(monthReceipts),
		TotalSales:     core.Sum(monthSales, func(s core.DailySale) float64 { return s.TotalValue }),
		NextMonthDebt:  PendingDebt(boletos),
	}
	st.CMVPercent = CMVPercent(st.TotalPurchases, st.TotalSales)
	return st
}

// CMVPercent is purchases / sales × 100, or 0 without sales.
func CMVPercent(purchases, sales float64) float64 {
	return core.Percent(purchases, sales)
}

// PendingDebt sums the value of every pending boleto.
func PendingDebt(boletos []core.Boleto) float64 {
	return core.Sum(boletos, func(b core.Boleto) float64 {
		if b.Status != core.StatusPending {
			return 0
		}
		return b.Value
	})
}

// TotalValue sums Receipt.TotalValue.
func TotalValue(receipts []core.Receipt) float64 {
	return core.Sum(receipts, func(r core.Receipt) float64 { return r.TotalValue })
}

// CurrentMonthReceipts keeps receipts dated in the month and year of now.
func CurrentMonthReceipts(receipts []core.Receipt, now time.Time) []core.Receipt {
	out := make([]core.Receipt, 0)
	for _, r := range receipts {
		if SameMonthAndYear(r.Date, now) {
			out = append(out, r)
		}
	}
	return out
}

// SalesSummary is the cash register total for one month.
type SalesSummary struct {
	Total float64 `json:"total"`
	// Entries counts the sale records of the month, shown as registered days.
	Entries int `json:"entries"`
}

func MonthSales(sales []core.DailySale, now time.Time, inMonth MonthFilter) SalesSummary {
	var matched []core.DailySale
	for _, s := range sales {
		if inMonth(s.Date, now) {
			matched = append(matched, s)
		}
	}
	return SalesSummary{
		Total:   core.Sum(matched, func(s core.DailySale) float64 { return s.TotalValue }),
		Entries: len(matched),
	}
}
