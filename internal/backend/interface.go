// Package backend builds the storage.Store selected by DATA_BACKEND.
package backend

import (
	"context"
	"slices"
	"time"

	"compras/internal/storage"
)

// CleanupFunc releases the resources behind a store.
type CleanupFunc func() error

// BackendResult is a ready store and the function that closes it.
type BackendResult struct {
	Store   storage.Store
	Cleanup CleanupFunc
}

// Close runs Cleanup when set.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config carries the settings of every backend; only those of Type are read.
type Config struct {
	Type BackendType

	SQLiteDBPath string
	PostgresURL  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// DataDirectory seeds the memory backend with JSON files.
	DataDirectory string

	// KeyPrefix scopes key listing on shared backends.
	KeyPrefix string

	// CacheTTL enables the read cache when positive.
	CacheTTL  time.Duration
	CacheSize int
}

type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
	RedisBackend    BackendType = "redis"
)

var backendTypes = []BackendType{MemoryBackend, SQLiteBackend, PostgresBackend, RedisBackend}

func (bt BackendType) String() string {
	return string(bt)
}

func (bt BackendType) IsValid() bool {
	return slices.Contains(backendTypes, bt)
}
