package services

import (
	"context"
	"slices"

	"compras/internal/core"
	applog "compras/internal/log"
	"compras/internal/storage"
)

func (w *Workspace) Boletos() []core.Boleto {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.boletos)
}

// AddBoleto records a pending bill. The supplier is optional.
func (w *Workspace) AddBoleto(ctx context.Context, form core.BoletoForm) (core.Boleto, error) {
	b, err := form.Build(w.newID())
	if err != nil {
		return core.Boleto{}, w.rejected(ctx, storage.Boletos, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.boletos = prepend(w.boletos, b)
	w.created(ctx, storage.Boletos, b.ID)
	return b, persist(ctx, w, storage.Boletos, w.boletos)
}

// ToggleBoleto flips the bill between pending and paid.
func (w *Workspace) ToggleBoleto(ctx context.Context, id string) (core.Boleto, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := slices.IndexFunc(w.boletos, func(b core.Boleto) bool { return b.ID == id })
	if i < 0 {
		return core.Boleto{}, ErrNotFound
	}
	next := slices.Clone(w.boletos)
	next[i].Status = next[i].Status.Toggle()
	w.boletos = next

	w.logger.InfoContext(ctx, "Boleto toggled",
		applog.FieldRecordID, id,
		"status", next[i].Status,
		applog.FieldOperation, applog.OpToggle)
	return next[i], persist(ctx, w, storage.Boletos, w.boletos)
}

func (w *Workspace) DeleteBoleto(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, ok := without(w.boletos, id, func(b core.Boleto) string { return b.ID })
	if !ok {
		return ErrNotFound
	}
	w.boletos = next
	w.deleted(ctx, storage.Boletos, id)
	return persist(ctx, w, storage.Boletos, w.boletos)
}

func (w *Workspace) FixedCosts() []core.FixedCost {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.fixedCosts)
}

func (w *Workspace) AddFixedCost(ctx context.Context, form core.FixedCostForm) (core.FixedCost, error) {
	c, err := form.Build(w.newID())
	if err != nil {
		return core.FixedCost{}, w.rejected(ctx, storage.FixedCosts, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.fixedCosts = prepend(w.fixedCosts, c)
	w.created(ctx, storage.FixedCosts, c.ID)
	return c, persist(ctx, w, storage.FixedCosts, w.fixedCosts)
}

func (w *Workspace) ToggleFixedCost(ctx context.Context, id string) (core.FixedCost, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	i := slices.IndexFunc(w.fixedCosts, func(c core.FixedCost) bool { return c.ID == id })
	if i < 0 {
		return core.FixedCost{}, ErrNotFound
	}
	next := slices.Clone(w.fixedCosts)
	next[i].Status = next[i].Status.Toggle()
	w.fixedCosts = next

	w.logger.InfoContext(ctx, "Fixed cost toggled",
		applog.FieldRecordID, id,
		"status", next[i].Status,
		applog.FieldOperation, applog.OpToggle)
	return next[i], persist(ctx, w, storage.FixedCosts, w.fixedCosts)
}

func (w *Workspace) DeleteFixedCost(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, ok := without(w.fixedCosts, id, func(c core.FixedCost) string { return c.ID })
	if !ok {
		return ErrNotFound
	}
	w.fixedCosts = next
	w.deleted(ctx, storage.FixedCosts, id)
	return persist(ctx, w, storage.FixedCosts, w.fixedCosts)
}
