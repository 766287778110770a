package config

import (
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	StorageDriver      string
	AutoMigrate        bool
	MigrationsPath     string // empty means the embedded migrations
	JWTSecret          string
	LogLevel           slog.Level
	RedisURL           string // empty means an in-memory idempotency store
	IdempotencyTTL     time.Duration
	RateLimit          string // ulule formatted rate, e.g. "100-M"
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("STORAGE_DRIVER", StoragePostgres)
	viper.SetDefault("AUTO_MIGRATE", true)
	viper.SetDefault("MIGRATIONS_PATH", "")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("IDEMPOTENCY_TTL", "24h")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:    viper.GetString("PGSQL_URL"),
		Port:           viper.GetString("PORT"),
		IsProduction:   viper.GetBool("IS_PRODUCTION"),
		StorageDriver:  strings.ToLower(viper.GetString("STORAGE_DRIVER")),
		AutoMigrate:    viper.GetBool("AUTO_MIGRATE"),
		MigrationsPath: viper.GetString("MIGRATIONS_PATH"),
		JWTSecret:      viper.GetString("JWT_SECRET"),
		RedisURL:       viper.GetString("REDIS_URL"),
		RateLimit:      viper.GetString("RATE_LIMIT"),
	}

	switch cfg.StorageDriver {
	case StoragePostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("PGSQL_URL must be set when STORAGE_DRIVER=%s", StoragePostgres)
		}
	case StorageMemory:
		log.Println("Warning: STORAGE_DRIVER=memory. Ledger data will not survive a restart.")
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q (want %s or %s)", cfg.StorageDriver, StoragePostgres, StorageMemory)
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		cfg.JWTSecret = defaultJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(viper.GetString("LOG_LEVEL"))); err != nil {
		log.Printf("Warning: Invalid LOG_LEVEL ('%s'). Defaulting to INFO.\n", viper.GetString("LOG_LEVEL"))
		cfg.LogLevel = slog.LevelInfo
	}

	ttlStr := viper.GetString("IDEMPOTENCY_TTL")
	ttl, err := time.ParseDuration(ttlStr)
	if err != nil || ttl <= 0 {
		ttl = 24 * time.Hour
		log.Printf("Warning: Invalid value for IDEMPOTENCY_TTL ('%s'). Defaulting to %s.\n", ttlStr, ttl)
	}
	cfg.IdempotencyTTL = ttl

	for _, origin := range strings.Split(viper.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	return cfg, nil
}
