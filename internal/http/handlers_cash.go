package http

import (
	"net/http"

	"compras/internal/analytics"
	"compras/internal/core"
)

type salesResponse struct {
	Sales        []core.DailySale       `json:"sales"`
	Month        analytics.SalesSummary `json:"month"`
	MonthDisplay string                 `json:"monthDisplay"`
}

// handleListSales returns the sales, newest date first, and the total of
// the current month.
func (s *Server) handleListSales(w http.ResponseWriter, r *http.Request) {
	sales := s.ws.Sales()
	month := analytics.MonthSales(sales, s.ws.Now(), s.monthFilter())
	writeJSON(w, http.StatusOK, salesResponse{
		Sales:        sales,
		Month:        month,
		MonthDisplay: core.FormatBRL(month.Total),
	})
}

func (s *Server) handleCreateSale(w http.ResponseWriter, r *http.Request) {
	p, err := parseBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sale, err := s.ws.AddSale(r.Context(), saleForm(p))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, sale)
}

func (s *Server) handleDeleteSale(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.DeleteSale(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// monthFilter is the month filter selected by configuration.
func (s *Server) monthFilter() analytics.MonthFilter {
	if s.strictMonth {
		return analytics.SameMonthAndYear
	}
	return analytics.SameMonth
}
