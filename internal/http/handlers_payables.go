package http

import (
	"net/http"

	"compras/internal/analytics"
)

func (s *Server) handleListBoletos(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ws.Boletos())
}

func (s *Server) handleCreateBoleto(w http.ResponseWriter, r *http.Request) {
	p, err := parseBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	boleto, err := s.ws.AddBoleto(r.Context(), boletoForm(p))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, boleto)
}

func (s *Server) handleToggleBoleto(w http.ResponseWriter, r *http.Request) {
	boleto, err := s.ws.ToggleBoleto(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, boleto)
}

func (s *Server) handleDeleteBoleto(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.DeleteBoleto(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, analytics.NextMonthForecast(s.ws.Boletos(), s.ws.Now()))
}

func (s *Server) handleListFixedCosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ws.FixedCosts())
}

func (s *Server) handleCreateFixedCost(w http.ResponseWriter, r *http.Request) {
	p, err := parseBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	cost, err := s.ws.AddFixedCost(r.Context(), fixedCostForm(p))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, cost)
}

func (s *Server) handleToggleFixedCost(w http.ResponseWriter, r *http.Request) {
	cost, err := s.ws.ToggleFixedCost(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cost)
}

func (s *Server) handleDeleteFixedCost(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.DeleteFixedCost(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListMaintenance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ws.Maintenance())
}

func (s *Server) handleCreateMaintenance(w http.ResponseWriter, r *http.Request) {
	p, err := parseBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	record, err := s.ws.AddMaintenance(r.Context(), maintenanceForm(p))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleDeleteMaintenance(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.DeleteMaintenance(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
