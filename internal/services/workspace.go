// Package services holds the stateful workflows of the purchasing app: the
// catalog, the purchase draft, the cash log, payables and maintenance. All of
// them operate on one Workspace, the in-memory working set of the active
// store unit backed by a storage.Store.
package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"compras/internal/amqp"
	"compras/internal/core"
	applog "compras/internal/log"
	"compras/internal/storage"
)

var (
	ErrNotFound     = errors.New("record not found")
	ErrEmptyDraft   = errors.New("draft has no items")
	ErrInvalidIndex = errors.New("draft item index out of range")
)

// Notifier is told about every collection that was saved.
type Notifier interface {
	PublishCollectionChanged(ctx context.Context, msg *amqp.CollectionChangedMessage) error
}

// Options configures NewWorkspace. Store and Units are required.
type Options struct {
	Store    storage.Store
	Keys     storage.Keys
	Units    []core.StoreUnit
	Notifier Notifier
	Logger   *applog.Logger
	NewID    func() string
	Now      func() time.Time
}

// Workspace serializes every operation behind one mutex. Mutations replace
// the affected list and write it through to the store; a failed write is
// reported but the in-memory change stays.
type Workspace struct {
	mu sync.Mutex

	store    storage.Store
	keys     storage.Keys
	units    []core.StoreUnit
	notifier Notifier
	logger   *applog.Logger
	events   *applog.StructuredLogger
	newID    func() string
	now      func() time.Time

	unit        core.StoreUnit
	suppliers   []core.Supplier
	products    []core.Product
	receipts    []core.Receipt
	sales       []core.DailySale
	boletos     []core.Boleto
	maintenance []core.MaintenanceRecord
	fixedCosts  []core.FixedCost
	draft       Draft

	revision uint64
}

// NewWorkspace loads the catalog, the active unit and that unit's
// collections. Missing or unreadable data falls back to defaults.
func NewWorkspace(ctx context.Context, opts Options) (*Workspace, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("workspace store is nil")
	}
	if len(opts.Units) == 0 {
		return nil, fmt.Errorf("workspace needs at least one store unit")
	}
	if opts.Logger == nil {
		opts.Logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorkspace)
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	w := &Workspace{
		store:    opts.Store,
		keys:     opts.Keys,
		units:    slices.Clone(opts.Units),
		notifier: opts.Notifier,
		logger:   opts.Logger,
		events:   applog.NewStructuredLogger(opts.Logger),
		newID:    opts.NewID,
		now:      opts.Now,
	}

	w.suppliers = storage.Load(ctx, w.store, w.keys.Suppliers(), core.SeedSuppliers())
	w.products = storage.Load(ctx, w.store, w.keys.Products(), []core.Product{})

	saved := storage.Load(ctx, w.store, w.keys.ActiveUnit(), core.StoreUnit(""))
	unit, err := core.ParseStoreUnit(string(saved), w.units)
	if err != nil {
		unit = w.units[0]
	}
	w.loadUnit(ctx, unit)

	w.draft.Header.Date = core.FormatDate(core.DateOf(w.now()))
	w.draft.Items = []core.DraftItem{}

	w.logger.InfoContext(ctx, "Workspace loaded",
		applog.FieldUnit, w.unit,
		"suppliers", len(w.suppliers),
		"products", len(w.products),
		"receipts", len(w.receipts))

	return w, nil
}

func (w *Workspace) loadUnit(ctx context.Context, unit core.StoreUnit) {
	w.unit = unit
	w.receipts = storage.Load(ctx, w.store, w.keys.Unit(unit, storage.Receipts), []core.Receipt{})
	w.sales = storage.Load(ctx, w.store, w.keys.Unit(unit, storage.Sales), []core.DailySale{})
	w.boletos = storage.Load(ctx, w.store, w.keys.Unit(unit, storage.Boletos), []core.Boleto{})
	w.maintenance = storage.Load(ctx, w.store, w.keys.Unit(unit, storage.Maintenance), []core.MaintenanceRecord{})
	w.fixedCosts = storage.Load(ctx, w.store, w.keys.Unit(unit, storage.FixedCosts), []core.FixedCost{})
	w.revision++
}

// Unit returns the active store unit.
func (w *Workspace) Unit() core.StoreUnit {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.unit
}

// Units returns the configured store units.
func (w *Workspace) Units() []core.StoreUnit {
	return slices.Clone(w.units)
}

// SwitchUnit persists the new active unit and reloads every per-unit
// collection. The catalog and the purchase draft are kept.
func (w *Workspace) SwitchUnit(ctx context.Context, raw string) error {
	unit, err := core.ParseStoreUnit(raw, w.units)
	if err != nil {
		w.events.LogValidationRejected(ctx, "active_unit", err)
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if unit != w.unit {
		w.loadUnit(ctx, unit)
	}
	w.logger.InfoContext(ctx, "Store unit switched",
		applog.FieldUnit, unit,
		applog.FieldOperation, applog.OpSwitch)

	if err := storage.Save(ctx, w.store, w.keys.ActiveUnit(), unit); err != nil {
		w.logger.ErrorContext(ctx, "Failed to save active unit", applog.FieldError, err)
		return fmt.Errorf("save %s: %w", w.keys.ActiveUnit(), err)
	}
	return nil
}

// Snapshot is a consistent copy of the working set.
type Snapshot struct {
	Unit        core.StoreUnit
	Revision    uint64
	Suppliers   []core.Supplier
	Products    []core.Product
	Receipts    []core.Receipt
	Sales       []core.DailySale
	Boletos     []core.Boleto
	Maintenance []core.MaintenanceRecord
	FixedCosts  []core.FixedCost
}

// Snapshot copies every list of the active unit. Revision changes whenever
// any list does.
func (w *Workspace) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Snapshot{
		Unit:        w.unit,
		Revision:    w.revision,
		Suppliers:   slices.Clone(w.suppliers),
		Products:    slices.Clone(w.products),
		Receipts:    slices.Clone(w.receipts),
		Sales:       slices.Clone(w.sales),
		Boletos:     slices.Clone(w.boletos),
		Maintenance: slices.Clone(w.maintenance),
		FixedCosts:  slices.Clone(w.fixedCosts),
	}
}

// Now returns the workspace clock.
func (w *Workspace) Now() time.Time {
	return w.now()
}

// persist writes one collection of the active unit, or a global one, and
// announces the change. Caller holds w.mu.
func persist[T any](ctx context.Context, w *Workspace, c storage.Collection, items []T) error {
	w.revision++
	key := w.keys.For(w.unit, c)
	if err := storage.Save(ctx, w.store, key, items); err != nil {
		w.events.LogSaveFailed(ctx, string(w.unit), string(c), key, err)
		return fmt.Errorf("save %s: %w", key, err)
	}
	w.notify(ctx, key, c, len(items))
	return nil
}

func (w *Workspace) notify(ctx context.Context, key string, c storage.Collection, count int) {
	if w.notifier == nil {
		return
	}
	unit := ""
	if !c.Global() {
		unit = string(w.unit)
	}
	msg := amqp.NewCollectionChangedMessage(key, unit, string(c), count)
	if err := w.notifier.PublishCollectionChanged(ctx, msg); err != nil {
		w.logger.WarnContext(ctx, "Failed to publish collection change",
			applog.FieldKey, key,
			applog.FieldError, err)
	}
}

// rejected logs a validation failure and returns it unchanged.
func (w *Workspace) rejected(ctx context.Context, c storage.Collection, err error) error {
	w.events.LogValidationRejected(ctx, string(c), err)
	return err
}

func (w *Workspace) created(ctx context.Context, c storage.Collection, id string) {
	unit := ""
	if !c.Global() {
		unit = string(w.unit)
	}
	w.events.LogRecordCreated(ctx, unit, string(c), id)
}

func (w *Workspace) deleted(ctx context.Context, c storage.Collection, id string) {
	unit := ""
	if !c.Global() {
		unit = string(w.unit)
	}
	w.events.LogRecordDeleted(ctx, unit, string(c), id)
}

func prepend[T any](items []T, v ...T) []T {
	out := make([]T, 0, len(items)+len(v))
	out = append(out, v...)
	return append(out, items...)
}

// without returns a copy of items lacking the element with id.
func without[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	i := slices.IndexFunc(items, func(v T) bool { return idOf(v) == id })
	if i < 0 {
		return items, false
	}
	return slices.Delete(slices.Clone(items), i, i+1), true
}
