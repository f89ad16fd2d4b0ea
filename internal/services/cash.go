package services

import (
	"context"
	"slices"
	"strings"

	"compras/internal/core"
	"compras/internal/storage"
)

// Sales returns the unit's daily sales sorted by date, newest first.
func (w *Workspace) Sales() []core.DailySale {
	w.mu.Lock()
	out := slices.Clone(w.sales)
	w.mu.Unlock()

	slices.SortStableFunc(out, func(a, b core.DailySale) int { return strings.Compare(b.Date, a.Date) })
	return out
}

// AddSale records a cash total. Several entries for one day are allowed.
func (w *Workspace) AddSale(ctx context.Context, form core.SaleForm) (core.DailySale, error) {
	s, err := form.Build(w.newID())
	if err != nil {
		return core.DailySale{}, w.rejected(ctx, storage.Sales, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.sales = prepend(w.sales, s)
	w.created(ctx, storage.Sales, s.ID)
	return s, persist(ctx, w, storage.Sales, w.sales)
}

func (w *Workspace) DeleteSale(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, ok := without(w.sales, id, func(s core.DailySale) string { return s.ID })
	if !ok {
		return ErrNotFound
	}
	w.sales = next
	w.deleted(ctx, storage.Sales, id)
	return persist(ctx, w, storage.Sales, w.sales)
}
