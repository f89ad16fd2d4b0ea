package log

import (
	"context"
	"log/slog"
	"net/http"
)

// StructuredLogger writes the recurring events of the service with a fixed
// message and field set, so they can be filtered reliably.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, clientIP string) {
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery).
		WithClientIP(clientIP)
	if ua := r.Header.Get("User-Agent"); ua != "" {
		fields[FieldUserAgent] = ua
	}
	sl.logger.WithComponent(ComponentHTTP).InfoContext(ctx, "HTTP request started", fields.ToSlice()...)
}

// LogHTTPEnd logs at Warn for 4xx and Error for 5xx responses.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, statusCode int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	switch {
	case statusCode >= 500:
		level = slog.LevelError
	case statusCode >= 400:
		level = slog.LevelWarn
	}
	fields := NewFields().
		WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery).
		WithClientIP(clientIP)
	fields[FieldStatusCode] = statusCode
	fields[FieldDuration] = durationMs
	sl.logger.WithComponent(ComponentHTTP).Log(ctx, level, "HTTP request completed", fields.ToSlice()...)
}

func (sl *StructuredLogger) LogRecordCreated(ctx context.Context, unit, collection, id string) {
	sl.logRecord(ctx, "Record created", OpCreate, unit, collection, id)
}

func (sl *StructuredLogger) LogRecordDeleted(ctx context.Context, unit, collection, id string) {
	sl.logRecord(ctx, "Record deleted", OpDelete, unit, collection, id)
}

func (sl *StructuredLogger) logRecord(ctx context.Context, msg, op, unit, collection, id string) {
	fields := NewFields().
		WithUnit(unit).
		WithCollection(collection, "").
		WithRecord(id).
		WithOperation(op)
	sl.logger.InfoContext(ctx, msg, fields.ToSlice()...)
}

// LogValidationRejected logs input that was not stored.
func (sl *StructuredLogger) LogValidationRejected(ctx context.Context, collection string, err error) {
	fields := NewFields().
		WithCollection(collection, "").
		WithError(err).
		WithErrorType(ErrorTypeValidation).
		WithOperation(OpValidate)
	sl.logger.WarnContext(ctx, "Input rejected", fields.ToSlice()...)
}

// LogSaveFailed logs a collection that could not be written to the store.
func (sl *StructuredLogger) LogSaveFailed(ctx context.Context, unit, collection, key string, err error) {
	fields := NewFields().
		WithUnit(unit).
		WithCollection(collection, key).
		WithError(err).
		WithErrorType(ErrorTypeDatabase).
		WithOperation(OpSave)
	sl.logger.WithComponent(ComponentStorage).ErrorContext(ctx, "Failed to save collection", fields.ToSlice()...)
}
