package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Memory(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", StorageDriverMemory)
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_TIMEZONE", "Asia/Jakarta")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "Asia/Jakarta", cfg.App.Timezone.String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSAllowedOrigins)
	assert.Equal(t, 90*time.Second, cfg.Redis.CacheTTL)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel())
	assert.Equal(t, time.Hour, cfg.Jobs.StaleRecordCheckInterval)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"missing jwt secret":     {"STORAGE_DRIVER": StorageDriverMemory, "JWT_SECRET_KEY": ""},
		"postgres without pass":  {"STORAGE_DRIVER": StorageDriverPostgres, "JWT_SECRET_KEY": "s", "DB_PASSWORD": ""},
		"unknown driver":         {"STORAGE_DRIVER": "sqlite", "JWT_SECRET_KEY": "s"},
		"bad timezone":           {"STORAGE_DRIVER": StorageDriverMemory, "JWT_SECRET_KEY": "s", "APP_TIMEZONE": "Mars/Base"},
		"bad port":               {"STORAGE_DRIVER": StorageDriverMemory, "JWT_SECRET_KEY": "s", "APP_PORT": "http"},
		"bad stale interval":     {"STORAGE_DRIVER": StorageDriverMemory, "JWT_SECRET_KEY": "s", "STALE_RECORD_CHECK_INTERVAL": "hourly"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := Config{Database: DatabaseConfig{User: "u", Password: "p", Host: "h", Port: 5432, Name: "db", SSLMode: "disable"}}
	assert.Equal(t, "postgres://u:p@h:5432/db?sslmode=disable", cfg.DatabaseURL())
}
