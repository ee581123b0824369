package config

import (
	"fmt"
	"log/slog"

	"github.com/caarlos0/env/v11"
)

// Storage backends selectable with STORAGE_BACKEND.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMinIO  = "minio"
)

// Config contains server configuration parameters.
type Config struct {
	Port     string     `env:"PORT" envDefault:"8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"info"`
	Storage  Storage    `envPrefix:"STORAGE_"`
	SQLite   SQLite     `envPrefix:"DATABASE_"`
	Redis    Redis      `envPrefix:"REDIS_"`
	MinIO    MinIO      `envPrefix:"MINIO_"`
	Upload   Upload     `envPrefix:"UPLOAD_"`
}

// Storage selects where the profile collection is persisted.
type Storage struct {
	Backend string `env:"BACKEND" envDefault:"sqlite"`
	Key     string `env:"KEY" envDefault:"skillconnect_profiles_v1"`
}

// SQLite contains the database file location.
type SQLite struct {
	Path string `env:"PATH" envDefault:"skill-connect.db"`
}

// Redis contains Redis connection parameters.
type Redis struct {
	Addr     string `env:"ADDR" envDefault:"localhost:6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
	UseTLS   bool   `env:"USE_TLS" envDefault:"false"`
}

// MinIO contains object storage parameters.
type MinIO struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET_NAME" envDefault:"skill-connect"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// Upload contains limits applied to video uploads.
type Upload struct {
	MaxBytes      int64   `env:"MAX_BYTES" envDefault:"104857600"`
	RatePerSecond float64 `env:"RATE_PER_SECOND" envDefault:"0.5"`
	Burst         float64 `env:"BURST" envDefault:"5"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch cfg.Storage.Backend {
	case BackendSQLite, BackendRedis:
	case BackendMinIO:
		if cfg.MinIO.AccessKey == "" || cfg.MinIO.SecretKey == "" {
			return nil, fmt.Errorf("MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required for the minio backend")
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
	if cfg.Upload.MaxBytes <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_BYTES must be positive, got %d", cfg.Upload.MaxBytes)
	}
	if cfg.Upload.Burst < 1 {
		return nil, fmt.Errorf("UPLOAD_BURST must be at least 1, got %v", cfg.Upload.Burst)
	}

	return &cfg, nil
}
