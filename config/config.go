package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tracker/safety"
)

// Config is the complete engine configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Safety  SafetyConfig  `json:"safety" yaml:"safety"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Feed    FeedConfig    `json:"feed" yaml:"feed"`
}

// AccountConfig contains the account context the engine values against.
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Equity   float64 `json:"equity" yaml:"equity"`
	Leverage float64 `json:"leverage" yaml:"leverage"`
}

// SafetyConfig mirrors safety.Settings with durations as strings
// ("60s", "1h") so the YAML stays readable.
type SafetyConfig struct {
	PaperTrading            bool    `json:"paper_trading" yaml:"paper_trading"`
	DailyLossLimit          float64 `json:"daily_loss_limit" yaml:"daily_loss_limit"`
	MaxDrawdownLimit        float64 `json:"max_drawdown_limit" yaml:"max_drawdown_limit"`
	ApprovalThreshold       float64 `json:"approval_threshold" yaml:"approval_threshold"`
	EmergencyStopEnabled    bool    `json:"emergency_stop_enabled" yaml:"emergency_stop_enabled"`
	AnomalyDetectionEnabled bool    `json:"anomaly_detection_enabled" yaml:"anomaly_detection_enabled"`
	MaxOpenPositions        int     `json:"max_open_positions" yaml:"max_open_positions"`
	MaxLeverage             float64 `json:"max_leverage" yaml:"max_leverage"`

	Blacklist []string `json:"blacklist,omitempty" yaml:"blacklist,omitempty"`
	Whitelist []string `json:"whitelist,omitempty" yaml:"whitelist,omitempty"`

	TradingHours map[string]safety.Window `json:"trading_hours,omitempty" yaml:"trading_hours,omitempty"`

	ApprovalTimeout string `json:"approval_timeout,omitempty" yaml:"approval_timeout,omitempty"`
	AlertRetention  string `json:"alert_retention,omitempty" yaml:"alert_retention,omitempty"`
}

// Settings converts the config form into validated safety settings.
func (sc SafetyConfig) Settings() (safety.Settings, error) {
	s := safety.Settings{
		PaperTrading:            sc.PaperTrading,
		DailyLossLimit:          sc.DailyLossLimit,
		MaxDrawdownLimit:        sc.MaxDrawdownLimit,
		ApprovalThreshold:       sc.ApprovalThreshold,
		EmergencyStopEnabled:    sc.EmergencyStopEnabled,
		AnomalyDetectionEnabled: sc.AnomalyDetectionEnabled,
		MaxOpenPositions:        sc.MaxOpenPositions,
		MaxLeverage:             sc.MaxLeverage,
		Blacklist:               sc.Blacklist,
		Whitelist:               sc.Whitelist,
		TradingHours:            sc.TradingHours,
	}

	var err error
	if sc.ApprovalTimeout != "" {
		s.ApprovalTimeout, err = time.ParseDuration(sc.ApprovalTimeout)
		if err != nil {
			return safety.Settings{}, fmt.Errorf("approval_timeout: %w", err)
		}
	}
	if sc.AlertRetention != "" {
		s.AlertRetention, err = time.ParseDuration(sc.AlertRetention)
		if err != nil {
			return safety.Settings{}, fmt.Errorf("alert_retention: %w", err)
		}
	}

	if err := s.Validate(); err != nil {
		return safety.Settings{}, err
	}
	return s, nil
}

// JournalConfig selects the audit journal backend.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "csv" or "sqlite"
	AlertsFile string `json:"alerts_file,omitempty" yaml:"alerts_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// FeedConfig points at recorded feed data for replay.
type FeedConfig struct {
	Ticks    string `json:"ticks" yaml:"ticks"`       // CSV, optionally .xz
	Snapshot string `json:"snapshot" yaml:"snapshot"` // JSON position snapshot
}

// LoadFromFile loads configuration from a file (YAML first, JSON
// fallback) and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile writes the configuration (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if (len(path) > 5 && path[len(path)-5:] == ".yaml") || (len(path) > 4 && path[len(path)-4:] == ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration. Bad limits are rejected here, never
// silently clamped.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Equity <= 0 {
		return fmt.Errorf("account.equity must be positive")
	}
	if c.Account.Leverage <= 0 {
		return fmt.Errorf("account.leverage must be positive")
	}
	if _, err := c.Safety.Settings(); err != nil {
		return fmt.Errorf("safety: %w", err)
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.AlertsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal alerts_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'csv' or 'sqlite'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "ACCT-001",
			Currency: "USD",
			Equity:   100000,
			Leverage: 100,
		},
		Safety: SafetyConfig{
			DailyLossLimit:          1000,
			MaxDrawdownLimit:        0.20,
			ApprovalThreshold:       500000,
			EmergencyStopEnabled:    true,
			AnomalyDetectionEnabled: true,
			MaxOpenPositions:        10,
			MaxLeverage:             30,
			ApprovalTimeout:         "60s",
			AlertRetention:          "1h",
		},
		Journal: JournalConfig{
			Type:       "csv",
			AlertsFile: "./alerts.csv",
			EquityFile: "./equity.csv",
		},
	}
}
