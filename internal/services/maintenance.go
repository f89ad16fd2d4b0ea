package services

import (
	"context"
	"slices"

	"compras/internal/analytics"
	"compras/internal/core"
	"compras/internal/storage"
)

func (w *Workspace) Maintenance() []core.MaintenanceRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.maintenance)
}

func (w *Workspace) AddMaintenance(ctx context.Context, form core.MaintenanceForm) (core.MaintenanceRecord, error) {
	m, err := form.Build(w.newID())
	if err != nil {
		return core.MaintenanceRecord{}, w.rejected(ctx, storage.Maintenance, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.maintenance = prepend(w.maintenance, m)
	w.created(ctx, storage.Maintenance, m.ID)
	return m, persist(ctx, w, storage.Maintenance, w.maintenance)
}

func (w *Workspace) DeleteMaintenance(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, ok := without(w.maintenance, id, func(m core.MaintenanceRecord) string { return m.ID })
	if !ok {
		return ErrNotFound
	}
	w.maintenance = next
	w.deleted(ctx, storage.Maintenance, id)
	return persist(ctx, w, storage.Maintenance, w.maintenance)
}

// CurrentMonthReceipts lists this month's receipts, shown next to the
// maintenance log for cross-checking.
func (w *Workspace) CurrentMonthReceipts() []core.Receipt {
	w.mu.Lock()
	defer w.mu.Unlock()
	return analytics.CurrentMonthReceipts(w.receipts, w.now())
}
