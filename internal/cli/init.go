// Package cli holds the start-up and shutdown steps shared by the commands.
package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"compras/internal/config"
	applog "compras/internal/log"
)

// SetupLogger installs a text logger on stdout at the named level as the
// slog default and returns it.
func SetupLogger(level string) *slog.Logger {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: applog.ParseLevel(level),
	}))
	slog.SetDefault(logger)
	return logger
}

// ComponentLogger tags the default logger with component.
func ComponentLogger(component string) *applog.Logger {
	return applog.New(applog.Config{Component: component, Handler: slog.Default().Handler()})
}

// LoadEnvFile loads .env when present. Deployments set the environment
// directly, so a missing file is not an error.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig exits the process when the configuration is invalid.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// GracefulShutdown waits for SIGINT or SIGTERM in the background. The
// returned context is cancelled on the signal; done is closed once cleanup
// returned or timeout elapsed, whichever comes first.
func GracefulShutdown(logger *slog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		<-ctx.Done()
		stop()
		logger.Info("Shutdown signal received")
		runCleanup(logger, timeout, cleanup)
		close(done)
	}()
	return ctx, done
}

// runCleanup calls cleanup with a context bounded by timeout and returns
// when cleanup does or the timeout elapses.
func runCleanup(logger *slog.Logger, timeout time.Duration, cleanup func(context.Context)) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		if cleanup != nil {
			cleanup(ctx)
		}
	}()

	select {
	case <-finished:
		logger.Info("Shutdown complete")
		return true
	case <-ctx.Done():
		logger.Warn("Shutdown timeout reached", "timeout", timeout)
		return false
	}
}

// WaitForShutdown blocks until the signal arrived and cleanup ended.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
