package analytics

import (
	"slices"
	"strings"
	"time"

	"compras/internal/core"
)

// Forecast summarizes the boletos due in the calendar month after now.
type Forecast struct {
	Label          string        `json:"label"`
	Year           int           `json:"year"`
	Month          int           `json:"month"`
	DefaultDueDate string        `json:"defaultDueDate"`
	Boletos        []core.Boleto `json:"boletos"`
	TotalPending   float64       `json:"totalPending"`
	TotalPaid      float64       `json:"totalPaid"`
	Total          float64       `json:"total"`
	PendingCount   int           `json:"pendingCount"`
	PaidCount      int           `json:"paidCount"`
}

// NextMonthForecast selects boletos due in the month following now and
// splits their values by status. Matched boletos are ordered by due date.
func NextMonthForecast(boletos []core.Boleto, now time.Time) Forecast {
	today := core.DateOf(now)
	target := time.Date(today.Year(), today.Month()+1, 1, 0, 0, 0, 0, time.UTC)

	matched := make([]core.Boleto, 0)
	for _, b := range boletos {
		due, err := core.ParseDate(b.DueDate)
		if err != nil {
			continue
		}
		if due.Year() == target.Year() && due.Month() == target.Month() {
			matched = append(matched, b)
		}
	}
	slices.SortStableFunc(matched, func(a, b core.Boleto) int {
		return strings.Compare(a.DueDate, b.DueDate)
	})

	f := Forecast{
		Label:          target.Format("01/2006"),
		Year:           target.Year(),
		Month:          int(target.Month()),
		DefaultDueDate: core.FormatDate(target),
		Boletos:        matched,
	}
	var pending, paid []core.Boleto
	for _, b := range matched {
		if b.Status == core.StatusPaid {
			paid = append(paid, b)
		} else {
			pending = append(pending, b)
		}
	}
	value := func(b core.Boleto) float64 { return b.Value }
	f.TotalPending = core.Sum(pending, value)
	f.TotalPaid = core.Sum(paid, value)
	f.Total = core.Sum([]float64{f.TotalPending, f.TotalPaid}, func(v float64) float64 { return v })
	f.PendingCount = len(pending)
	f.PaidCount = len(paid)
	return f
}
