package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	DSN string
}

type AppConfig struct {
	Timezone *time.Location
}

type IngestConfig struct {
	// FreshnessWindow bounds the allowed skew between the signed request
	// timestamp and the server clock.
	FreshnessWindow time.Duration
}

type AuthConfig struct {
	SessionTTL time.Duration
}

type SchedulerConfig struct {
	// RecomputeInterval is how often daily metrics are rebuilt for every
	// account, independent of ingestion.
	RecomputeInterval time.Duration
}

type LoggingConfig struct {
	Level string
}

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	App       AppConfig
	Ingest    IngestConfig
	Auth      AuthConfig
	Scheduler SchedulerConfig
	Logging   LoggingConfig
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("DATABASE_DSN", "data/trade_monitor.db")
	viper.SetDefault("APP_TIMEZONE", "Europe/Warsaw")
	viper.SetDefault("INGEST_FRESHNESS_WINDOW", "300s")
	viper.SetDefault("SESSION_TTL", "720h")
	viper.SetDefault("METRICS_RECOMPUTE_INTERVAL", "1h")
	viper.SetDefault("LOG_LEVEL", "info")

	tz, err := time.LoadLocation(viper.GetString("APP_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid app timezone: %w", err)
	}

	freshness, err := time.ParseDuration(viper.GetString("INGEST_FRESHNESS_WINDOW"))
	if err != nil {
		return nil, fmt.Errorf("invalid ingest freshness window: %w", err)
	}

	sessionTTL, err := time.ParseDuration(viper.GetString("SESSION_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid session ttl: %w", err)
	}

	recompute, err := time.ParseDuration(viper.GetString("METRICS_RECOMPUTE_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid metrics recompute interval: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			DSN: viper.GetString("DATABASE_DSN"),
		},
		App: AppConfig{
			Timezone: tz,
		},
		Ingest: IngestConfig{
			FreshnessWindow: freshness,
		},
		Auth: AuthConfig{
			SessionTTL: sessionTTL,
		},
		Scheduler: SchedulerConfig{
			RecomputeInterval: recompute,
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}

	return cfg, nil
}
