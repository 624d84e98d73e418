package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rustyeddy/tradecalc/position"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "BTCUSDT", cfg.Trade.Ticker)
	assert.Equal(t, 150.0, cfg.Trade.EntryPrice)
	assert.Equal(t, 175.5, cfg.Trade.ExitPrice)
	assert.Equal(t, 135.0, cfg.Trade.StopLossPrice)
	assert.Equal(t, position.ByAmount, cfg.Trade.Mode)
	assert.Equal(t, 5000.0, cfg.Trade.Amount)
	assert.Equal(t, 60, cfg.Chart.Steps)
	assert.NoError(t, cfg.Validate())

	in := cfg.Trade.Inputs()
	assert.Equal(t, position.Inputs{EntryPrice: 150, ExitPrice: 175.5, StopLossPrice: 135, Mode: position.ByAmount, Amount: 5000}, in)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name: "negative prices are allowed",
			mutate: func(c *Config) {
				c.Trade.EntryPrice = -1
				c.Trade.StopLossPrice = 0
				c.Trade.Amount = -50
			},
		},
		{
			name:    "bad mode",
			mutate:  func(c *Config) { c.Trade.Mode = position.SizeMode(7) },
			wantErr: true,
			errMsg:  "trade.mode",
		},
		{
			name:    "zero steps",
			mutate:  func(c *Config) { c.Chart.Steps = 0 },
			wantErr: true,
			errMsg:  "chart.steps must be positive",
		},
		{
			name:    "bad apply_to",
			mutate:  func(c *Config) { c.Feed.ApplyTo = "mid" },
			wantErr: true,
			errMsg:  "feed.apply_to",
		},
		{
			name: "feed enabled without url",
			mutate: func(c *Config) {
				c.Feed.Enabled = true
				c.Feed.URL = ""
			},
			wantErr: true,
			errMsg:  "feed.url is required",
		},
		{
			name: "feed enabled without symbol",
			mutate: func(c *Config) {
				c.Feed.Enabled = true
				c.Trade.Ticker = ""
			},
			wantErr: true,
			errMsg:  "feed.symbol or trade.ticker",
		},
		{
			name:    "missing addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
			errMsg:  "server.addr is required",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
			errMsg:  "log.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Trade.Mode = position.ByQuantity
			cfg.Trade.Amount = 12
			cfg.Feed.ApplyTo = "entry"
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))

			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.Trade, loaded.Trade)
			assert.Equal(t, cfg.Chart, loaded.Chart)
			assert.Equal(t, cfg.Feed, loaded.Feed)
			assert.Equal(t, cfg.Server, loaded.Server)
		})
	}
}

func TestLoadPartialYAMLKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trade:\n  ticker: ETHUSDT\n  mode: qty\n  amount: 3\n"), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "ETHUSDT", cfg.Trade.Ticker)
	assert.Equal(t, position.ByQuantity, cfg.Trade.Mode)
	assert.Equal(t, 3.0, cfg.Trade.Amount)
	assert.Equal(t, 60, cfg.Chart.Steps)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("trade: [unclosed"), 0644))
	_, err = LoadFromFile(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvTicker:  "SOLUSDT",
		EnvFeedURL: "ws://localhost:9000/ws",
	}
	cfg := Default()
	cfg.ApplyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "SOLUSDT", cfg.Trade.Ticker)
	assert.Equal(t, "SOLUSDT", cfg.FeedSymbol())
	assert.Equal(t, "ws://localhost:9000/ws", cfg.Feed.URL)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadWithoutPath(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv(EnvAddr, ":9999")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Server.Addr)
	assert.Equal(t, "BTCUSDT", cfg.Trade.Ticker)
}
