package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for spxalign.
type Config struct {
	SpxDayTime SpxDayTimeConfig `yaml:"spx_day_time_config"`
	Calendar   Calendar         `yaml:"calendar"`
	Job        Job              `yaml:"job"`
	Output     Output           `yaml:"output"`
	Logging    Logging          `yaml:"logging"`
}

// SpxDayTimeConfig holds the session exclusions and the ordered list of
// valid intraday entry times that define the canonical grid.
type SpxDayTimeConfig struct {
	// EarlyCloseDays are half-day sessions (YYYY-MM-DD) that carry no grid
	// points even though the exchange calendar reports them as open.
	EarlyCloseDays []string `yaml:"early_close_days"`
	// SpecialHolidays are additional excluded sessions (YYYY-MM-DD).
	SpecialHolidays []string `yaml:"special_holidays"`
	// ValidTimes are intraday entry times in HH:MM form, in grid order
	// (e.g. "09:33" through "15:45" at 15-minute steps, 26 entries).
	ValidTimes []string `yaml:"valid_times"`
}

// Calendar selects and configures the exchange session provider.
type Calendar struct {
	// Provider is "alpaca" (live calendar API) or "static" (weekdays minus
	// the configured holiday list).
	Provider string `yaml:"provider"`
	// MarketHolidays feed the static provider (YYYY-MM-DD).
	MarketHolidays []string `yaml:"market_holidays"`
	Alpaca         Alpaca   `yaml:"alpaca"`
}

// Alpaca holds credentials and endpoint for the Alpaca trading API, used
// only to query the exchange calendar.
type Alpaca struct {
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	BaseURL   string `yaml:"base_url"`
}

// Job controls the per-file dispatch harness.
type Job struct {
	// MaxWorkers caps the worker pool. 0 means NumCPU-1.
	MaxWorkers int `yaml:"max_workers"`
}

// Output controls artifact persistence.
type Output struct {
	// GridArtifactDir, when set, receives the canonical grid as CSV and
	// Parquet files for inspection.
	GridArtifactDir string `yaml:"grid_artifact_dir"`
}

// Logging configures the application logger.
type Logging struct {
	Level string `yaml:"level"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Load reads the YAML configuration file at the given path, parses it into a
// Config struct, and then applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if len(cfg.SpxDayTime.ValidTimes) == 0 {
		return nil, fmt.Errorf("config %s: spx_day_time_config.valid_times is empty", path)
	}

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides the
// corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ALPACA_API_KEY"); v != "" {
		cfg.Calendar.Alpaca.APIKey = v
	}

	if v := os.Getenv("ALPACA_API_SECRET"); v != "" {
		cfg.Calendar.Alpaca.APISecret = v
	}

	if v := os.Getenv("ALPACA_BASE_URL"); v != "" {
		cfg.Calendar.Alpaca.BaseURL = v
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Standard Alpaca env vars (highest priority — canonical names used by SDK).
	if v := os.Getenv("APCA_API_KEY_ID"); v != "" {
		cfg.Calendar.Alpaca.APIKey = v
	}
	if v := os.Getenv("APCA_API_SECRET_KEY"); v != "" {
		cfg.Calendar.Alpaca.APISecret = v
	}
}
