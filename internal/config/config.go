package config

import (
	"context"
	"fmt"

	"github.com/sethvargo/go-envconfig"

	"plantdash/internal/period"
)

// Config holds all configuration for the plant dashboard service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8981"`

	// Storage backend for preferences and exports: "local" or "gcs"
	StorageMode  string `env:"STORAGE_MODE,default=local"`
	LocalDataDir string `env:"LOCAL_DATA_DIR,default=./data"`
	GCPProjectID string `env:"GCP_PROJECT_ID"`
	GCSBucket    string `env:"GCS_BUCKET"`

	// Dashboard behaviour
	DataHorizon    string `env:"DATA_HORIZON,default=2026-01-31"`
	StartPeriod    string `env:"START_PERIOD,default=2026-01"`
	PreferencesKey string `env:"PREFERENCES_KEY,default=uic_chart_settings_v1"`

	// Data source: empty URL means fixtures from MOCK_DATA_DIR when set,
	// randomly generated data otherwise
	DataSourceURL string `env:"DATA_SOURCE_URL"`
	MockDataDir   string `env:"MOCK_DATA_DIR"`
	RandomSeed    uint64 `env:"RANDOM_SEED,default=0"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=text"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.StorageMode != "local" && cfg.StorageMode != "gcs" {
		return nil, fmt.Errorf("unsupported storage mode: %s", cfg.StorageMode)
	}
	if cfg.StorageMode == "gcs" && cfg.GCSBucket == "" {
		return nil, fmt.Errorf("GCS_BUCKET is required when STORAGE_MODE=gcs")
	}
	return &cfg, nil
}

// Horizon parses DATA_HORIZON
func (c *Config) Horizon() (period.Horizon, error) {
	return period.ParseHorizon(c.DataHorizon)
}

// Start parses START_PERIOD. Annual values are widened to their January.
func (c *Config) Start() (period.Period, error) {
	p, err := period.Parse(c.StartPeriod)
	if err != nil {
		return period.Period{}, fmt.Errorf("invalid START_PERIOD: %w", err)
	}
	if p.IsAnnual() {
		p.Month = 1
	}
	return p, nil
}
