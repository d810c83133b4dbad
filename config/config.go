// Package config defines the startup configuration for a trading-loop
// run. Files may be YAML or JSON; YAML is tried first.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the complete run configuration.
type Config struct {
	Account AccountConfig `json:"account" yaml:"account"`
	Engine  EngineConfig  `json:"engine" yaml:"engine"`
	Fill    FillConfig    `json:"fill" yaml:"fill"`
	Journal JournalConfig `json:"journal" yaml:"journal"`
	Assets  []AssetConfig `json:"assets" yaml:"assets"`
}

// AccountConfig seeds the portfolio.
type AccountConfig struct {
	ID       string  `json:"id" yaml:"id"`
	Currency string  `json:"currency" yaml:"currency"`
	Balance  float64 `json:"balance" yaml:"balance"`
}

// EngineConfig sizes the concurrency machinery. Channel capacities are
// fixed at construction: they are the backpressure budget, not a
// tuning knob that grows at runtime.
type EngineConfig struct {
	PoolSize      int `json:"pool_size" yaml:"pool_size"`
	MarketBuffer  int `json:"market_buffer" yaml:"market_buffer"`
	OrderBuffer   int `json:"order_buffer" yaml:"order_buffer"`
	HistoryWindow int `json:"history_window" yaml:"history_window"`
}

// FillConfig tunes the simulated broker: a uniform fill delay between
// the latency bounds and a symmetric slippage fraction around the
// order's price hint.
type FillConfig struct {
	MinLatency string  `json:"min_latency" yaml:"min_latency"` // e.g. "100ms"
	MaxLatency string  `json:"max_latency" yaml:"max_latency"`
	Slippage   float64 `json:"slippage" yaml:"slippage"`
}

func (f FillConfig) Latencies() (min, max time.Duration, err error) {
	if min, err = time.ParseDuration(f.MinLatency); err != nil {
		return 0, 0, fmt.Errorf("fill.min_latency: %w", err)
	}
	if max, err = time.ParseDuration(f.MaxLatency); err != nil {
		return 0, 0, fmt.Errorf("fill.max_latency: %w", err)
	}
	return min, max, nil
}

// JournalConfig selects the fill journal backend.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	FillsFile  string `json:"fills_file,omitempty" yaml:"fills_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// AssetConfig is one traded asset: its candle cadence, order size, and
// strategy selection.
type AssetConfig struct {
	ID         string         `json:"id" yaml:"id"`
	Cadence    string         `json:"cadence" yaml:"cadence"` // e.g. "5s"
	StartPrice float64        `json:"start_price" yaml:"start_price"`
	Quantity   float64        `json:"quantity" yaml:"quantity"`
	Strategy   StrategyConfig `json:"strategy" yaml:"strategy"`
}

func (a AssetConfig) ParseCadence() (time.Duration, error) {
	d, err := time.ParseDuration(a.Cadence)
	if err != nil {
		return 0, fmt.Errorf("asset %s cadence: %w", a.ID, err)
	}
	return d, nil
}

// StrategyConfig names a strategy variant and its tuning parameters.
type StrategyConfig struct {
	Name   string             `json:"name" yaml:"name"`
	Params map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML first, JSON
// fallback) and validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration, choosing the format from the
// file extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
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

// Validate checks the configuration for wiring mistakes before any
// goroutine starts.
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Engine.PoolSize <= 0 {
		return fmt.Errorf("engine.pool_size must be positive")
	}
	if c.Engine.MarketBuffer <= 0 {
		return fmt.Errorf("engine.market_buffer must be positive")
	}
	if c.Engine.OrderBuffer <= 0 {
		return fmt.Errorf("engine.order_buffer must be positive")
	}
	if c.Engine.HistoryWindow <= 0 {
		return fmt.Errorf("engine.history_window must be positive")
	}

	min, max, err := c.Fill.Latencies()
	if err != nil {
		return err
	}
	if min < 0 || max < min {
		return fmt.Errorf("fill latencies require 0 <= min_latency <= max_latency")
	}
	if c.Fill.Slippage < 0 || c.Fill.Slippage >= 1 {
		return fmt.Errorf("fill.slippage must be in [0, 1)")
	}

	switch c.Journal.Type {
	case "none":
	case "csv":
		if c.Journal.FillsFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal fills_file and equity_file required for csv type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for sqlite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}

	if len(c.Assets) == 0 {
		return fmt.Errorf("at least one asset is required")
	}
	seen := make(map[string]bool, len(c.Assets))
	for _, a := range c.Assets {
		if a.ID == "" {
			return fmt.Errorf("asset id is required")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate asset id: %s", a.ID)
		}
		seen[a.ID] = true

		if _, err := a.ParseCadence(); err != nil {
			return err
		}
		if a.StartPrice <= 0 {
			return fmt.Errorf("asset %s start_price must be positive", a.ID)
		}
		if a.Quantity <= 0 {
			return fmt.Errorf("asset %s quantity must be positive", a.ID)
		}
		if a.Strategy.Name == "" {
			return fmt.Errorf("asset %s strategy.name is required", a.ID)
		}
	}
	return nil
}

// Default returns a runnable configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:       "SIM-001",
			Currency: "USD",
			Balance:  100_000,
		},
		Engine: EngineConfig{
			PoolSize:      4,
			MarketBuffer:  128,
			OrderBuffer:   128,
			HistoryWindow: 256,
		},
		Fill: FillConfig{
			MinLatency: "100ms",
			MaxLatency: "500ms",
			Slippage:   0.001,
		},
		Journal: JournalConfig{
			Type:      "csv",
			FillsFile: "./fills.csv",
			EquityFile: "./equity.csv",
		},
		Assets: []AssetConfig{
			{
				ID: "BTC-USD", Cadence: "2s", StartPrice: 60_000, Quantity: 0.05,
				Strategy: StrategyConfig{Name: "momentum", Params: map[string]float64{"fast": 5, "slow": 20}},
			},
			{
				ID: "ETH-USD", Cadence: "5s", StartPrice: 3_000, Quantity: 0.5,
				Strategy: StrategyConfig{Name: "rsi", Params: map[string]float64{"period": 14}},
			},
			{
				ID: "SOL-USD", Cadence: "3s", StartPrice: 150, Quantity: 5,
				Strategy: StrategyConfig{Name: "breakout"},
			},
		},
	}
}
