// Package log binds log/slog loggers to the component that emits them and
// carries the request-scoped logger through contexts.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger is a slog.Logger tagged with a component attribute. The attribute
// is attached once, so re-tagging never duplicates it.
type Logger struct {
	*slog.Logger
	root      *slog.Logger
	component string
}

type Config struct {
	Level     slog.Level
	Component string
	// Handler overrides the text handler on stdout; Level is ignored then.
	Handler slog.Handler
}

func DefaultConfig() Config {
	return Config{Level: slog.LevelInfo, Component: ComponentApp}
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else
// is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func New(cfg Config) *Logger {
	h := cfg.Handler
	if h == nil {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level})
	}
	return bind(slog.New(h), cfg.Component)
}

// Discard returns a logger that drops every record.
func Discard() *Logger {
	return bind(slog.New(slog.NewTextHandler(io.Discard, nil)), "")
}

func bind(root *slog.Logger, component string) *Logger {
	l := root
	if component != "" {
		l = root.With(FieldComponent, component)
	}
	return &Logger{Logger: l, root: root, component: component}
}

// With returns a logger carrying args on every record.
func (l *Logger) With(args ...any) *Logger {
	return bind(l.root.With(args...), l.component)
}

// WithComponent re-tags the logger, keeping attributes added by With.
func (l *Logger) WithComponent(component string) *Logger {
	return bind(l.root, component)
}

func (l *Logger) Component() string {
	return l.component
}
