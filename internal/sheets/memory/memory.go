package memory

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"compras/internal/sheets"
)

var _ sheets.RowWriter = (*Writer)(nil)

// Writer keeps tabs in memory. It backs the mirror worker when no
// spreadsheet is configured and in tests.
type Writer struct {
	mu     sync.Mutex
	tabs   map[string][][]any
	writes int
}

func New() *Writer {
	return &Writer{tabs: make(map[string][][]any)}
}

func (w *Writer) ReplaceRows(_ context.Context, tab string, rows [][]any) error {
	tab = strings.TrimSpace(tab)
	if tab == "" {
		return errors.New("empty tab name")
	}
	cp := make([][]any, len(rows))
	for i, r := range rows {
		cp[i] = slices.Clone(r)
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tabs[tab] = cp
	w.writes++
	return nil
}

// Rows returns a copy of the tab content and whether the tab exists.
func (w *Writer) Rows(tab string) ([][]any, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rows, ok := w.tabs[tab]
	if !ok {
		return nil, false
	}
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = slices.Clone(r)
	}
	return out, true
}

// Tabs lists tab names in sorted order.
func (w *Writer) Tabs() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.tabs))
	for t := range w.tabs {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}

// Writes counts successful ReplaceRows calls.
func (w *Writer) Writes() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes
}
