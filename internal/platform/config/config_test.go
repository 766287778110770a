package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMemoryDefaults(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, StorageMemory, cfg.StorageDriver)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, "100-M", cfg.RateLimit)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfigRequiresDatabaseForPostgres(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("PGSQL_URL", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "PGSQL_URL")
}

func TestLoadConfigRejectsUnknownDriver(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "sqlite")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "unknown STORAGE_DRIVER")
}

func TestLoadConfigProductionNeedsSecret(t *testing.T) {
	viper.Reset()
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("IS_PRODUCTION", "true")
	t.Setenv("JWT_SECRET", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "JWT_SECRET")
}
