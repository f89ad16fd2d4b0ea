package analytics

import (
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"compras/internal/core"
)

const (
	SeriesDays    = 30
	TopCategoryN  = 5
	RecentN       = 5
	UpcomingN     = 3
	UpcomingDays  = 7
	OtherCategory = "OUTROS"
)

// SalesSeries returns one point per day for the trailing SeriesDays days
// ending today, oldest first.
func SalesSeries(sales []core.DailySale, now time.Time) []core.SeriesPoint {
	byDay := make(map[string]decimal.Decimal)
	for _, s := range sales {
		byDay[s.Date] = byDay[s.Date].Add(decimal.NewFromFloat(s.TotalValue))
	}

	today := core.DateOf(now)
	points := make([]core.SeriesPoint, 0, SeriesDays)
	for i := SeriesDays - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		key := core.FormatDate(day)
		points = append(points, core.SeriesPoint{
			Date:   key,
			Label:  day.Format("02/01"),
			Amount: byDay[key].InexactFloat64(),
		})
	}
	return points
}

// TopCategories groups receipt totals by product category, sorted by amount
// descending. Receipts whose product or category is unknown go to
// OtherCategory. At most TopCategoryN groups are returned.
func TopCategories(receipts []core.Receipt, products []core.Product) []core.CategoryAmount {
	l := NewLookup(nil, products)
	var order []string
	sums := make(map[string]decimal.Decimal)
	for _, r := range receipts {
		name := l.CategoryName(r.ProductID)
		if name == "" {
			name = OtherCategory
		}
		if _, seen := sums[name]; !seen {
			order = append(order, name)
		}
		sums[name] = sums[name].Add(decimal.NewFromFloat(r.TotalValue))
	}

	out := make([]core.CategoryAmount, 0, len(order))
	for _, name := range order {
		out = append(out, core.CategoryAmount{Name: name, Amount: sums[name].InexactFloat64()})
	}
	slices.SortStableFunc(out, func(a, b core.CategoryAmount) int {
		return sums[b.Name].Cmp(sums[a.Name])
	})
	if len(out) > TopCategoryN {
		out = out[:TopCategoryN]
	}
	return out
}

type ActivityKind string

const (
	ActivityReceipt ActivityKind = "receipt"
	ActivitySale    ActivityKind = "sale"
)

// Activity is one entry of the recent activity feed.
type Activity struct {
	Kind   ActivityKind `json:"kind"`
	ID     string       `json:"id"`
	Date   string       `json:"date"`
	Amount float64      `json:"amount"`
	// Ref is the invoice number for receipts and the notes for sales.
	Ref string `json:"ref,omitempty"`
}

// RecentActivity merges receipts and sales, newest date first, and keeps
// the first RecentN. Entries with the same date keep receipts before sales.
func RecentActivity(receipts []core.Receipt, sales []core.DailySale) []Activity {
	feed := make([]Activity, 0, len(receipts)+len(sales))
	for _, r := range receipts {
		feed = append(feed, Activity{Kind: ActivityReceipt, ID: r.ID, Date: r.Date, Amount: r.TotalValue, Ref: r.InvoiceNumber})
	}
	for _, s := range sales {
		feed = append(feed, Activity{Kind: ActivitySale, ID: s.ID, Date: s.Date, Amount: s.TotalValue, Ref: s.Notes})
	}
	slices.SortStableFunc(feed, func(a, b Activity) int {
		return strings.Compare(b.Date, a.Date)
	})
	if len(feed) > RecentN {
		feed = feed[:RecentN]
	}
	return feed
}

// UpcomingBills returns pending boletos due between today and
// today+UpcomingDays inclusive, earliest first, at most UpcomingN.
func UpcomingBills(boletos []core.Boleto, now time.Time) []core.Boleto {
	today := core.DateOf(now)
	limit := today.AddDate(0, 0, UpcomingDays)

	out := make([]core.Boleto, 0)
	for _, b := range boletos {
		if b.Status != core.StatusPending {
			continue
		}
		due, err := core.ParseDate(b.DueDate)
		if err != nil || due.Before(today) || due.After(limit) {
			continue
		}
		out = append(out, b)
	}
	slices.SortStableFunc(out, func(a, b core.Boleto) int {
		return strings.Compare(a.DueDate, b.DueDate)
	})
	if len(out) > UpcomingN {
		out = out[:UpcomingN]
	}
	return out
}
