// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultWatchlist is analyzed when no watchlist is configured, matching
// the original deployment's portfolio.
var DefaultWatchlist = []string{"TD", "ATZ.TO", "RY", "HOOD", "PLTR"}

// Analysis holds the quantitative engine parameters.
type Analysis struct {
	RiskFreeRate       float64 `yaml:"risk_free_rate"`
	TradingDaysPerYear int     `yaml:"trading_days_per_year"`
	HorizonsDays       []int   `yaml:"horizons_days"`
	PathCount          int     `yaml:"path_count"`
	OptionExpiryYears  float64 `yaml:"option_expiry_years"`
	Seed               uint64  `yaml:"seed"` // 0 seeds from entropy
}

// Config holds application configuration.
type Config struct {
	Port         int      `yaml:"port"`
	LogLevel     string   `yaml:"log_level"`
	DataDir      string   `yaml:"data_dir"`
	Watchlist    []string `yaml:"watchlist"`
	HistoryRange string   `yaml:"history_range"` // Yahoo range, e.g. "1y"
	RefreshCron  string   `yaml:"refresh_cron"`
	Workers      int      `yaml:"workers"` // 0 sizes the pool to CPU count
	Analysis     Analysis `yaml:"analysis"`
}

// Load reads configuration from an optional YAML file, then applies
// environment variable overrides (a .env file is honored first), then
// fills in defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("STONKS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("STONKS_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("STONKS_WATCHLIST"); v != "" {
		cfg.Watchlist = splitList(v)
	}
	if v := os.Getenv("STONKS_HISTORY_RANGE"); v != "" {
		cfg.HistoryRange = v
	}
	if v := os.Getenv("STONKS_REFRESH_CRON"); v != "" {
		cfg.RefreshCron = v
	}
	if v := os.Getenv("STONKS_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("STONKS_SEED"); v != "" {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.Analysis.Seed = seed
		}
	}

	// Defaults
	if cfg.Port == 0 {
		cfg.Port = 8000
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.DataDir == "" {
		cfg.DataDir = "data"
	}
	if len(cfg.Watchlist) == 0 {
		cfg.Watchlist = append([]string(nil), DefaultWatchlist...)
	}
	if cfg.HistoryRange == "" {
		cfg.HistoryRange = "1y"
	}
	if cfg.RefreshCron == "" {
		// Weekday market close, New York time is the operator's concern;
		// the default refreshes hourly on weekdays.
		cfg.RefreshCron = "0 0 * * * 1-5"
	}
	if cfg.Analysis.RiskFreeRate == 0 {
		cfg.Analysis.RiskFreeRate = 0.045
	}
	if cfg.Analysis.TradingDaysPerYear == 0 {
		cfg.Analysis.TradingDaysPerYear = 252
	}
	if len(cfg.Analysis.HorizonsDays) == 0 {
		cfg.Analysis.HorizonsDays = []int{252, 1260}
	}
	if cfg.Analysis.PathCount == 0 {
		cfg.Analysis.PathCount = 10000
	}
	if cfg.Analysis.OptionExpiryYears == 0 {
		cfg.Analysis.OptionExpiryYears = 1.0
	}

	absDataDir, err := filepath.Abs(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}
	cfg.DataDir = absDataDir
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Analysis.PathCount < 1 {
		return fmt.Errorf("analysis.path_count must be at least 1")
	}
	for _, h := range c.Analysis.HorizonsDays {
		if h < 0 {
			return fmt.Errorf("analysis.horizons_days entry %d is negative", h)
		}
	}
	if c.Analysis.TradingDaysPerYear < 1 {
		return fmt.Errorf("analysis.trading_days_per_year must be positive")
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
