package backend

import (
	"errors"
	"fmt"

	"compras/internal/config"
)

const defaultCacheSize = 64

// FromAppConfig picks the backend settings out of the application config.
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, errors.New("app config is nil")
	}
	bt := BackendType(appConfig.DataBackend)
	if !bt.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.DataBackend)
	}
	return Config{
		Type:          bt,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		PostgresURL:   appConfig.PostgresURL,
		RedisAddr:     appConfig.RedisAddr,
		RedisPassword: appConfig.RedisPassword,
		RedisDB:       appConfig.RedisDB,
		DataDirectory: appConfig.SeedDir,
		KeyPrefix:     appConfig.KeyPrefix,
		CacheTTL:      appConfig.CacheTTL,
		CacheSize:     defaultCacheSize,
	}, nil
}

// required lists, per backend, the environment variable it cannot start
// without and how to read it from Config.
var required = map[BackendType]struct {
	env   string
	value func(Config) string
}{
	SQLiteBackend:   {"SQLITE_DB_PATH", func(c Config) string { return c.SQLiteDBPath }},
	PostgresBackend: {"POSTGRES_URL", func(c Config) string { return c.PostgresURL }},
	RedisBackend:    {"REDIS_ADDR", func(c Config) string { return c.RedisAddr }},
}

func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}
	if req, ok := required[c.Type]; ok && req.value(c) == "" {
		return fmt.Errorf("%s backend requires %s", c.Type, req.env)
	}
	return nil
}

// GetBackendTypeStrings lists the accepted DATA_BACKEND values.
func GetBackendTypeStrings() []string {
	out := make([]string, len(backendTypes))
	for i, t := range backendTypes {
		out[i] = t.String()
	}
	return out
}
