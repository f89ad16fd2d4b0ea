// Package sheets defines the spreadsheet mirror: every persisted collection
// is rendered as one tab, header row first.
package sheets

import "context"

// Ports for outbound adapters.
type (
	// RowWriter replaces the whole content of a tab, creating it when missing.
	RowWriter interface {
		ReplaceRows(ctx context.Context, tab string, rows [][]any) error
	}
)
