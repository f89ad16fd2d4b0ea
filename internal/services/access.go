package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"sync"

	applog "compras/internal/log"
	"compras/internal/storage"
)

var ErrWrongPasscode = errors.New("wrong passcode")

// AccessGate is the restricted display mode. Entering it is free; leaving it
// takes the shared passcode. It hides screens, it does not authorize anyone.
type AccessGate struct {
	mu         sync.Mutex
	store      storage.Store
	key        string
	passcode   string
	restricted bool
	logger     *applog.Logger
}

// NewAccessGate restores the persisted mode, unrestricted by default.
func NewAccessGate(ctx context.Context, store storage.Store, key, passcode string, logger *applog.Logger) *AccessGate {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentAccess)
	}
	return &AccessGate{
		store:      store,
		key:        key,
		passcode:   passcode,
		restricted: storage.Load(ctx, store, key, false),
		logger:     logger,
	}
}

func (g *AccessGate) Restricted() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.restricted
}

// Lock enters restricted mode.
func (g *AccessGate) Lock(ctx context.Context) error {
	return g.set(ctx, true)
}

// Unlock leaves restricted mode when code matches the passcode.
func (g *AccessGate) Unlock(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if subtle.ConstantTimeCompare([]byte(code), []byte(g.passcode)) != 1 {
		g.logger.WarnContext(ctx, "Unlock refused",
			applog.FieldErrorType, applog.ErrorTypeAuth)
		return ErrWrongPasscode
	}
	return g.set(ctx, false)
}

func (g *AccessGate) set(ctx context.Context, restricted bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.restricted = restricted
	g.logger.InfoContext(ctx, "Access mode changed", "restricted", restricted)

	if err := storage.Save(ctx, g.store, g.key, restricted); err != nil {
		g.logger.ErrorContext(ctx, "Failed to save access mode", applog.FieldError, err)
		return fmt.Errorf("save %s: %w", g.key, err)
	}
	return nil
}
