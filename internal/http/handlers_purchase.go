package http

import (
	"net/http"

	"compras/internal/analytics"
	"compras/internal/core"
	"compras/internal/services"
)

// historyLimit is how many receipts the history view shows.
const historyLimit = 50

type draftResponse struct {
	services.Draft
	Total        float64 `json:"total"`
	TotalDisplay string  `json:"totalDisplay"`
}

func newDraftResponse(d services.Draft) draftResponse {
	return draftResponse{Draft: d, Total: d.Total(), TotalDisplay: core.FormatBRL(d.Total())}
}

func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, newDraftResponse(s.ws.Draft()))
}

func (s *Server) handleSetDraftHeader(w http.ResponseWriter, r *http.Request) {
	p, err := parseBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	draft, err := s.ws.SetDraftHeader(r.Context(), invoiceHeader(p))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDraftResponse(draft))
}

func (s *Server) handleAddDraftItem(w http.ResponseWriter, r *http.Request) {
	p, err := parseBody(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	draft, err := s.ws.AddDraftItem(r.Context(), itemForm(p))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newDraftResponse(draft))
}

func (s *Server) handleRemoveDraftItem(w http.ResponseWriter, r *http.Request) {
	index, err := pathIndex(r, "index")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	draft, err := s.ws.RemoveDraftItem(index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newDraftResponse(draft))
}

type commitResponse struct {
	Receipts []core.Receipt `json:"receipts"`
	Draft    draftResponse  `json:"draft"`
}

func (s *Server) handleCommitDraft(w http.ResponseWriter, r *http.Request) {
	created, err := s.ws.CommitDraft(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, commitResponse{Receipts: created, Draft: newDraftResponse(s.ws.Draft())})
}

// handleListReceipts returns the newest receipts with names resolved.
func (s *Server) handleListReceipts(w http.ResponseWriter, r *http.Request) {
	snap := s.ws.Snapshot()
	receipts := snap.Receipts
	if len(receipts) > historyLimit {
		receipts = receipts[:historyLimit]
	}
	lookup := analytics.NewLookup(snap.Suppliers, snap.Products)
	writeJSON(w, http.StatusOK, analytics.ResolveReceipts(receipts, lookup))
}

type currentMonthResponse struct {
	Receipts     []analytics.ReceiptRow `json:"receipts"`
	Total        float64                `json:"total"`
	TotalDisplay string                 `json:"totalDisplay"`
}

// handleCurrentMonthReceipts backs the maintenance screen cross-reference.
func (s *Server) handleCurrentMonthReceipts(w http.ResponseWriter, r *http.Request) {
	snap := s.ws.Snapshot()
	receipts := s.ws.CurrentMonthReceipts()
	total := analytics.TotalValue(receipts)
	writeJSON(w, http.StatusOK, currentMonthResponse{
		Receipts:     analytics.ResolveReceipts(receipts, analytics.NewLookup(snap.Suppliers, snap.Products)),
		Total:        total,
		TotalDisplay: core.FormatBRL(total),
	})
}

func (s *Server) handleDeleteReceipt(w http.ResponseWriter, r *http.Request) {
	if err := s.ws.DeleteReceipt(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
