package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestYAMLRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Default().SaveToFile(path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, Default().SaveToFile(path))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{not: [valid"), 0644))

	_, err := LoadFromFile(path)
	require.Error(t, err)
}

func TestValidateCatchesMistakes(t *testing.T) {
	cases := map[string]func(*Config){
		"no pool":          func(c *Config) { c.Engine.PoolSize = 0 },
		"no market buffer": func(c *Config) { c.Engine.MarketBuffer = 0 },
		"no order buffer":  func(c *Config) { c.Engine.OrderBuffer = 0 },
		"bad latency":      func(c *Config) { c.Fill.MinLatency = "fast" },
		"inverted latency": func(c *Config) { c.Fill.MinLatency = "1s"; c.Fill.MaxLatency = "1ms" },
		"big slippage":     func(c *Config) { c.Fill.Slippage = 1.5 },
		"bad journal":      func(c *Config) { c.Journal.Type = "parquet" },
		"no assets":        func(c *Config) { c.Assets = nil },
		"duplicate asset":  func(c *Config) { c.Assets = append(c.Assets, c.Assets[0]) },
		"bad cadence":      func(c *Config) { c.Assets[0].Cadence = "sometimes" },
		"no strategy":      func(c *Config) { c.Assets[0].Strategy.Name = "" },
		"zero quantity":    func(c *Config) { c.Assets[0].Quantity = 0 },
	}

	for name, mutate := range cases {
		cfg := Default()
		mutate(cfg)
		require.Error(t, cfg.Validate(), name)
	}
}

func TestFillLatencies(t *testing.T) {
	f := FillConfig{MinLatency: "100ms", MaxLatency: "500ms"}
	min, max, err := f.Latencies()
	require.NoError(t, err)
	require.Equal(t, 100*time.Millisecond, min)
	require.Equal(t, 500*time.Millisecond, max)
}
