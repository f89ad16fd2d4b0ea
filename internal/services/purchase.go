package services

import (
	"context"
	"slices"
	"strings"

	"compras/internal/core"
	"compras/internal/storage"
)

// Draft is the invoice being entered. Items are kept newest first.
type Draft struct {
	Header core.InvoiceHeader `json:"header"`
	Items  []core.DraftItem   `json:"items"`
}

// Total sums quantity × unit price over the items.
func (d Draft) Total() float64 {
	return core.Sum(d.Items, core.DraftItem.Total)
}

// Empty reports whether the draft has no items.
func (d Draft) Empty() bool {
	return len(d.Items) == 0
}

func (w *Workspace) Draft() Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Draft{Header: w.draft.Header, Items: slices.Clone(w.draft.Items)}
}

// SetDraftHeader replaces the invoice header. The header is free text until
// commit; only a malformed date is refused.
func (w *Workspace) SetDraftHeader(ctx context.Context, h core.InvoiceHeader) (Draft, error) {
	h.InvoiceNumber = strings.TrimSpace(h.InvoiceNumber)
	h.SupplierID = strings.TrimSpace(h.SupplierID)
	h.Date = strings.TrimSpace(h.Date)
	if h.Date != "" {
		if _, err := core.ParseDate(h.Date); err != nil {
			return w.Draft(), w.rejected(ctx, storage.Receipts, err)
		}
	}

	w.mu.Lock()
	w.draft.Header = h
	w.mu.Unlock()
	return w.Draft(), nil
}

// AddDraftItem validates the item and puts it at the top of the draft.
func (w *Workspace) AddDraftItem(ctx context.Context, form core.ItemForm) (Draft, error) {
	item, err := form.Build()
	if err != nil {
		return w.Draft(), w.rejected(ctx, storage.Receipts, err)
	}

	w.mu.Lock()
	w.draft.Items = prepend(w.draft.Items, item)
	w.mu.Unlock()
	return w.Draft(), nil
}

// RemoveDraftItem deletes the item at index as listed by Draft.
func (w *Workspace) RemoveDraftItem(index int) (Draft, error) {
	w.mu.Lock()
	if index < 0 || index >= len(w.draft.Items) {
		w.mu.Unlock()
		return w.Draft(), ErrInvalidIndex
	}
	w.draft.Items = slices.Delete(slices.Clone(w.draft.Items), index, index+1)
	w.mu.Unlock()
	return w.Draft(), nil
}

// CommitDraft turns every draft item into a receipt carrying the header,
// puts them at the top of the receipt list in draft order and clears the
// items. The header stays for the next invoice.
func (w *Workspace) CommitDraft(ctx context.Context) ([]core.Receipt, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.draft.Items) == 0 {
		return nil, ErrEmptyDraft
	}

	created := make([]core.Receipt, 0, len(w.draft.Items))
	for _, item := range w.draft.Items {
		created = append(created, item.Receipt(w.newID(), w.draft.Header))
	}

	w.receipts = prepend(w.receipts, created...)
	w.draft.Items = []core.DraftItem{}
	for _, r := range created {
		w.created(ctx, storage.Receipts, r.ID)
	}

	return created, persist(ctx, w, storage.Receipts, w.receipts)
}

// Receipts returns the unit's receipts, newest first.
func (w *Workspace) Receipts() []core.Receipt {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.receipts)
}

func (w *Workspace) DeleteReceipt(ctx context.Context, id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	next, ok := without(w.receipts, id, func(r core.Receipt) string { return r.ID })
	if !ok {
		return ErrNotFound
	}
	w.receipts = next
	w.deleted(ctx, storage.Receipts, id)
	return persist(ctx, w, storage.Receipts, w.receipts)
}
