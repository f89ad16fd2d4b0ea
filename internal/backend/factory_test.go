package backend

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"compras/internal/cache"
	"compras/internal/config"
	"compras/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:  "sqlite",
		SQLiteDBPath: "/tmp/x.db",
		KeyPrefix:    "vbq",
		CacheTTL:     time.Minute,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Type != SQLiteBackend || cfg.SQLiteDBPath != "/tmp/x.db" || cfg.CacheSize != defaultCacheSize {
		t.Fatalf("unexpected backend config %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		cfg Config
		ok  bool
	}{
		{Config{Type: MemoryBackend}, true},
		{Config{Type: SQLiteBackend}, false},
		{Config{Type: PostgresBackend}, false},
		{Config{Type: PostgresBackend, PostgresURL: "postgres://db/x"}, true},
		{Config{Type: RedisBackend}, false},
		{Config{Type: "nope"}, false},
	}
	for i, tc := range cases {
		err := tc.cfg.Validate()
		if tc.ok != (err == nil) {
			t.Fatalf("case %d: ok=%v err=%v", i, tc.ok, err)
		}
	}
	if got := GetBackendTypeStrings(); len(got) != 4 || got[0] != "memory" {
		t.Fatalf("unexpected backend types %v", got)
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	f := NewFactory(nil, nil)
	res, err := f.CreateBackend(context.Background(), Config{Type: MemoryBackend, DataDirectory: t.TempDir()})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := res.Store.(*storage.CachedStore); ok {
		t.Fatal("cache should be off without a TTL")
	}
	if err := res.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestCreateSQLiteBackendWithCache(t *testing.T) {
	caches := cache.NewManager()
	f := NewFactory(nil, caches)
	res, err := f.CreateBackend(context.Background(), Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "compras.db"),
		CacheTTL:     time.Minute,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer res.Close()

	if _, ok := res.Store.(*storage.CachedStore); !ok {
		t.Fatalf("expected cached store, got %T", res.Store)
	}
	ctx := context.Background()
	if err := storage.Save(ctx, res.Store, "vbq_loja1_sales", []int{1, 2}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if got := storage.Load(ctx, res.Store, "vbq_loja1_sales", []int{}); len(got) != 2 {
		t.Fatalf("unexpected load %v", got)
	}
	if _, ok := caches.CleanAll()["store"]; !ok {
		t.Fatal("read cache should be registered with the manager")
	}
}
