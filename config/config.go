package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/rustyeddy/tradecalc/position"
)

// Config represents the complete calculator configuration
type Config struct {
	Trade  TradeConfig  `json:"trade" yaml:"trade"`
	Chart  ChartConfig  `json:"chart" yaml:"chart"`
	Feed   FeedConfig   `json:"feed" yaml:"feed"`
	Server ServerConfig `json:"server" yaml:"server"`
	Export ExportConfig `json:"export" yaml:"export"`
	Log    LogConfig    `json:"log" yaml:"log"`
}

// TradeConfig is the starting trade setup. Prices and amount are never
// validated; zero or negative values are legal inputs to the calculator.
type TradeConfig struct {
	Ticker        string            `json:"ticker" yaml:"ticker"`
	EntryPrice    float64           `json:"entry_price" yaml:"entry_price"`
	ExitPrice     float64           `json:"exit_price" yaml:"exit_price"`
	StopLossPrice float64           `json:"stop_loss_price" yaml:"stop_loss_price"`
	Mode          position.SizeMode `json:"mode" yaml:"mode"`
	Amount        float64           `json:"amount" yaml:"amount"`
}

// Inputs converts the configured setup into calculator inputs.
func (t TradeConfig) Inputs() position.Inputs {
	return position.Inputs{
		EntryPrice:    t.EntryPrice,
		ExitPrice:     t.ExitPrice,
		StopLossPrice: t.StopLossPrice,
		Mode:          t.Mode,
		Amount:        t.Amount,
	}
}

type ChartConfig struct {
	Steps int `json:"steps" yaml:"steps"`
}

// FeedConfig controls the live price stream. ApplyTo names the price
// field (entry, exit, stop) that live prices are copied into; empty means
// prices are only displayed.
type FeedConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	URL     string `json:"url" yaml:"url"`
	Symbol  string `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	ApplyTo string `json:"apply_to,omitempty" yaml:"apply_to,omitempty"`
}

// FeedSymbol falls back to the trade ticker when no feed symbol is set.
func (c *Config) FeedSymbol() string {
	if c.Feed.Symbol != "" {
		return c.Feed.Symbol
	}
	return c.Trade.Ticker
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

type ExportConfig struct {
	Dir string `json:"dir" yaml:"dir"`
}

type LogConfig struct {
	Level       string `json:"level" yaml:"level"` // debug|info|warn|error
	Development bool   `json:"development" yaml:"development"`
}

// Environment overrides applied by ApplyEnv.
const (
	EnvTicker  = "TRADECALC_TICKER"
	EnvFeedURL = "TRADECALC_FEED_URL"
	EnvAddr    = "TRADECALC_ADDR"
)

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
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

// Load reads path when given, otherwise starts from Default. A .env file
// in the working directory is honoured if present, then environment
// overrides are applied.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// ApplyEnv overlays non-empty environment values onto c.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvTicker); v != "" {
		c.Trade.Ticker = v
	}
	if v := getenv(EnvFeedURL); v != "" {
		c.Feed.URL = v
	}
	if v := getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
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

// Validate checks the structural settings only.
func (c *Config) Validate() error {
	if c.Trade.Mode != position.ByAmount && c.Trade.Mode != position.ByQuantity {
		return fmt.Errorf("trade.mode must be 'investment' or 'quantity'")
	}
	if c.Chart.Steps <= 0 {
		return fmt.Errorf("chart.steps must be positive")
	}
	if c.Feed.ApplyTo != "" {
		if _, err := position.ParsePriceField(c.Feed.ApplyTo); err != nil {
			return fmt.Errorf("feed.apply_to: %w", err)
		}
	}
	if c.Feed.Enabled && c.Feed.URL == "" {
		return fmt.Errorf("feed.url is required when the feed is enabled")
	}
	if c.Feed.Enabled && c.FeedSymbol() == "" {
		return fmt.Errorf("feed.symbol or trade.ticker is required when the feed is enabled")
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug|info|warn|error")
	}
	return nil
}

// Default returns the stock trade setup the calculator opens with.
func Default() *Config {
	return &Config{
		Trade: TradeConfig{
			Ticker:        "BTCUSDT",
			EntryPrice:    150,
			ExitPrice:     175.50,
			StopLossPrice: 135,
			Mode:          position.ByAmount,
			Amount:        5000,
		},
		Chart: ChartConfig{
			Steps: position.DefaultCurveSteps,
		},
		Feed: FeedConfig{
			URL: "wss://stream.binance.com:9443/ws",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Export: ExportConfig{
			Dir: ".",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
