package http

import (
	"net/http"

	"compras/internal/core"
)

type unitResponse struct {
	Unit  core.StoreUnit   `json:"unit"`
	Units []core.StoreUnit `json:"units"`
}

func (s *Server) handleGetUnit(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, unitResponse{Unit: s.ws.Unit(), Units: s.ws.Units()})
}

// handleSwitchUnit reloads the per-unit collections. The purchase draft is
// kept across units.
func (s *Server) handleSwitchUnit(w http.ResponseWriter, r *http.Request) {
	p, err := parseBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.ws.SwitchUnit(r.Context(), p.Get("unit")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, unitResponse{Unit: s.ws.Unit(), Units: s.ws.Units()})
}

type accessResponse struct {
	Restricted bool `json:"restricted"`
}

func (s *Server) handleGetAccess(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, accessResponse{Restricted: s.access.Restricted()})
}

func (s *Server) handleLock(w http.ResponseWriter, r *http.Request) {
	if err := s.access.Lock(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accessResponse{Restricted: true})
}

func (s *Server) handleUnlock(w http.ResponseWriter, r *http.Request) {
	p, err := parseBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.access.Unlock(r.Context(), p.Get("passcode")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accessResponse{Restricted: false})
}
