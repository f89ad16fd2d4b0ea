// Package worker mirrors persisted collections into a spreadsheet. Changes
// arrive as AMQP messages; a periodic full sync repairs anything a lost
// message left behind.
package worker

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"compras/internal/amqp"
	"compras/internal/core"
	applog "compras/internal/log"
	"compras/internal/sheets"
	"compras/internal/storage"
)

// MirrorWorker rewrites spreadsheet tabs from the store.
type MirrorWorker struct {
	store       storage.Store
	keys        storage.Keys
	units       []core.StoreUnit
	sheets      sheets.RowWriter
	concurrency int
	logger      *applog.Logger
}

func NewMirrorWorker(store storage.Store, keys storage.Keys, units []core.StoreUnit, writer sheets.RowWriter, concurrency int, logger *applog.Logger) *MirrorWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	}
	return &MirrorWorker{
		store:       store,
		keys:        keys,
		units:       units,
		sheets:      writer,
		concurrency: concurrency,
		logger:      logger,
	}
}

// HandleCollectionChanged mirrors the collection named by msg. Keys outside
// the layout are acknowledged and ignored.
func (w *MirrorWorker) HandleCollectionChanged(ctx context.Context, msg *amqp.CollectionChangedMessage) error {
	ref, ok := w.keys.Parse(msg.Key)
	if !ok {
		w.logger.WarnContext(ctx, "Ignoring change for unknown key", applog.FieldKey, msg.Key)
		return nil
	}
	return w.SyncCollection(ctx, ref)
}

// SyncCollection rewrites the tab of one collection.
func (w *MirrorWorker) SyncCollection(ctx context.Context, ref storage.Ref) error {
	rows, err := Rows(ctx, w.store, w.keys, ref)
	if err != nil {
		return err
	}
	tab := TabName(ref)
	if err := w.sheets.ReplaceRows(ctx, tab, rows); err != nil {
		return fmt.Errorf("mirror %s: %w", ref.Key, err)
	}
	w.logger.InfoContext(ctx, "Collection mirrored",
		applog.FieldKey, ref.Key,
		applog.FieldTab, tab,
		applog.FieldCount, len(rows)-1)
	return nil
}

// FullSync mirrors every collection of every unit, a bounded number at a
// time. All collections are attempted; the first error is returned.
func (w *MirrorWorker) FullSync(ctx context.Context) error {
	start := time.Now()
	refs := w.keys.All(w.units)

	var g errgroup.Group
	g.SetLimit(w.concurrency)
	for _, ref := range refs {
		g.Go(func() error {
			if err := w.SyncCollection(ctx, ref); err != nil {
				w.logger.ErrorContext(ctx, "Mirror failed",
					applog.FieldKey, ref.Key,
					applog.FieldError, err)
				return err
			}
			return nil
		})
	}
	err := g.Wait()

	w.logger.InfoContext(ctx, "Full sync finished",
		applog.FieldCount, len(refs),
		"duration", time.Since(start),
		"ok", err == nil)
	return err
}

// Run performs a full sync immediately and then every interval until ctx
// is cancelled.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) {
	if err := w.FullSync(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Startup sync failed", applog.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.FullSync(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic sync failed", applog.FieldError, err)
			}
		}
	}
}
