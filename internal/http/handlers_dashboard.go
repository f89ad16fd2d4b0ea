package http

import (
	"fmt"
	"net/http"

	"compras/internal/analytics"
	"compras/internal/core"
	applog "compras/internal/log"
	"compras/internal/services"
)

const (
	filterMonth        = "month"
	filterMonthAndYear = "month_and_year"
)

type statsDisplay struct {
	TotalPurchases string `json:"totalPurchases"`
	TotalSales     string `json:"totalSales"`
	NextMonthDebt  string `json:"nextMonthDebt"`
}

type dashboardResponse struct {
	Unit core.StoreUnit `json:"unit"`
	Date string         `json:"date"`

	// MonthFilter names the filter behind Stats.
	MonthFilter       string                `json:"monthFilter"`
	Stats             analytics.Stats       `json:"stats"`
	StatsDisplay      statsDisplay          `json:"statsDisplay"`
	StatsMonth        analytics.Stats       `json:"statsMonth"`
	StatsMonthAndYear analytics.Stats       `json:"statsMonthAndYear"`
	SalesSeries       []core.SeriesPoint    `json:"salesSeries"`
	TopCategories     []core.CategoryAmount `json:"topCategories"`
	RecentActivity    []analytics.Activity  `json:"recentActivity"`
	UpcomingBills     []core.Boleto         `json:"upcomingBills"`
}

// handleDashboard serves the dashboard, cached per unit, revision and day.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	snap := s.ws.Snapshot()
	now := s.ws.Now()
	today := core.FormatDate(core.DateOf(now))
	key := fmt.Sprintf("%s|%d|%s", snap.Unit, snap.Revision, today)

	if cached, ok := s.dashboardCache.Get(key); ok {
		s.metrics.cacheHits.Add(1)
		writeJSON(w, http.StatusOK, cached)
		return
	}
	s.metrics.cacheMisses.Add(1)

	resp := s.buildDashboard(snap, today)
	s.dashboardCache.Set(key, resp)
	applog.FromContext(r.Context()).DebugContext(r.Context(), "Dashboard computed",
		applog.FieldComponent, applog.ComponentCache,
		applog.FieldUnit, snap.Unit,
		"revision", snap.Revision)

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) buildDashboard(snap services.Snapshot, today string) dashboardResponse {
	now := s.ws.Now()
	resp := dashboardResponse{
		Unit:              snap.Unit,
		Date:              today,
		StatsMonth:        analytics.MonthlyStats(snap.Receipts, snap.Sales, snap.Boletos, now),
		StatsMonthAndYear: analytics.MonthlyStatsStrict(snap.Receipts, snap.Sales, snap.Boletos, now),
		SalesSeries:       analytics.SalesSeries(snap.Sales, now),
		TopCategories:     analytics.TopCategories(snap.Receipts, snap.Products),
		RecentActivity:    analytics.RecentActivity(snap.Receipts, snap.Sales),
		UpcomingBills:     analytics.UpcomingBills(snap.Boletos, now),
	}
	if s.strictMonth {
		resp.MonthFilter, resp.Stats = filterMonthAndYear, resp.StatsMonthAndYear
	} else {
		resp.MonthFilter, resp.Stats = filterMonth, resp.StatsMonth
	}
	resp.StatsDisplay = statsDisplay{
		TotalPurchases: core.FormatBRL(resp.Stats.TotalPurchases),
		TotalSales:     core.FormatBRL(resp.Stats.TotalSales),
		NextMonthDebt:  core.FormatBRL(resp.Stats.NextMonthDebt),
	}
	return resp
}

type reportRow struct {
	analytics.ReceiptRow
	CategoryName string `json:"categoryName"`
	DateDisplay  string `json:"dateDisplay"`
}

type reportResponse struct {
	Filter       analytics.ReportFilter `json:"filter"`
	Rows         []reportRow            `json:"rows"`
	Count        int                    `json:"count"`
	Total        float64                `json:"total"`
	TotalDisplay string                 `json:"totalDisplay"`
}

// handleReports filters the unit's receipts. Query parameters: productId,
// supplierId, startDate, endDate and preset=month.
func (s *Server) handleReports(w http.ResponseWriter, r *http.Request) {
	filter, err := ParseReportFilter(r.URL.Query(), s.ws.Now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	snap := s.ws.Snapshot()
	matched := analytics.FilterReceipts(snap.Receipts, filter)
	lookup := analytics.NewLookup(snap.Suppliers, snap.Products)

	rows := make([]reportRow, 0, len(matched))
	for _, row := range analytics.ResolveReceipts(matched, lookup) {
		rows = append(rows, reportRow{
			ReceiptRow:   row,
			CategoryName: lookup.CategoryName(row.ProductID),
			DateDisplay:  core.FormatDateBR(row.Date),
		})
	}
	total := analytics.TotalValue(matched)

	writeJSON(w, http.StatusOK, reportResponse{
		Filter:       filter,
		Rows:         rows,
		Count:        len(rows),
		Total:        total,
		TotalDisplay: core.FormatBRL(total),
	})
}
