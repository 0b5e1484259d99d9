package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cryptoedge/cadvi/internal/analyzer"
	"github.com/cryptoedge/cadvi/internal/backtest"
)

// Config is the full application configuration. Every field has a
// working default; a config file only needs to override what differs.
type Config struct {
	MarketData MarketDataConfig `yaml:"market_data"`
	Analyzer   AnalyzerConfig   `yaml:"analyzer"`
	Simulation SimulationConfig `yaml:"simulation"`
	Server     ServerConfig     `yaml:"server"`
}

// MarketDataConfig drives the CoinMarketCap client. The API key itself
// comes from the CMC_API_KEY environment variable, never from the file.
type MarketDataConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Limit     int           `yaml:"limit"`
	Convert   string        `yaml:"convert"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
	RedisAddr string        `yaml:"redis_addr"`
	// RatePerMinute caps outbound requests; CMC free tier allows 30.
	RatePerMinute int `yaml:"rate_per_minute"`
}

// AnalyzerConfig drives normalization, weighting and position sizing.
type AnalyzerConfig struct {
	Mode            string              `yaml:"mode"`
	ReferenceSymbol string              `yaml:"reference_symbol"`
	MinMarketCap    float64             `yaml:"min_market_cap"`
	Stablecoins     []string            `yaml:"stablecoins"`
	LegacyWeights   analyzer.WeightSet  `yaml:"legacy_weights"`
	EnhancedWeights analyzer.WeightSet  `yaml:"enhanced_weights"`
	Kelly           analyzer.KellyStats `yaml:"kelly"`
}

// SimulationConfig drives both the single backtest and the Monte-Carlo
// driver.
type SimulationConfig struct {
	HoldHours           int     `yaml:"hold_hours"`
	StopLossPct         float64 `yaml:"stop_loss_pct"`
	TakeProfitPct       float64 `yaml:"take_profit_pct"`
	DefaultPositionSize float64 `yaml:"default_position_size"`
	Runs                int     `yaml:"runs"`
	Workers             int     `yaml:"workers"`
}

// ServerConfig drives the read-only HTTP API.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		MarketData: MarketDataConfig{
			BaseURL:       "https://pro-api.coinmarketcap.com/v1",
			Limit:         200,
			Convert:       "USD",
			CacheTTL:      5 * time.Minute,
			RatePerMinute: 30,
		},
		Analyzer: AnalyzerConfig{
			Mode:            string(analyzer.ModeEnhanced),
			ReferenceSymbol: "BTC",
			MinMarketCap:    analyzer.DefaultMinMarketCap,
			Stablecoins:     analyzer.DefaultStablecoins,
			LegacyWeights:   analyzer.LegacyWeights(),
			EnhancedWeights: analyzer.EnhancedWeights(),
			Kelly:           analyzer.DefaultKellyStats,
		},
		Simulation: SimulationConfig{
			HoldHours:           24,
			StopLossPct:         0.10,
			TakeProfitPct:       0.20,
			DefaultPositionSize: 0.05,
			Runs:                100,
		},
		Server: ServerConfig{
			Host:         "127.0.0.1",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged; a missing file at an explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks cross-field consistency: known scoring mode, weight
// sets that sum to one, sane simulation bounds.
func (c Config) Validate() error {
	if _, err := analyzer.ParseMode(c.Analyzer.Mode); err != nil {
		return err
	}
	if err := c.Analyzer.LegacyWeights.Validate(); err != nil {
		return fmt.Errorf("legacy_weights: %w", err)
	}
	if err := c.Analyzer.EnhancedWeights.Validate(); err != nil {
		return fmt.Errorf("enhanced_weights: %w", err)
	}
	if c.Simulation.StopLossPct <= 0 || c.Simulation.StopLossPct >= 1 {
		return fmt.Errorf("stop_loss_pct must be in (0, 1), got %.3f", c.Simulation.StopLossPct)
	}
	if c.Simulation.TakeProfitPct <= 0 || c.Simulation.TakeProfitPct >= 1 {
		return fmt.Errorf("take_profit_pct must be in (0, 1), got %.3f", c.Simulation.TakeProfitPct)
	}
	if c.Simulation.Runs <= 0 {
		return fmt.Errorf("runs must be positive, got %d", c.Simulation.Runs)
	}
	if c.MarketData.Limit <= 0 || c.MarketData.Limit > 5000 {
		return fmt.Errorf("market data limit must be between 1 and 5000, got %d", c.MarketData.Limit)
	}
	return nil
}

// SimConfig maps the simulation section onto the backtest package config.
func (c Config) SimConfig() backtest.SimConfig {
	return backtest.SimConfig{
		HoldHours:           c.Simulation.HoldHours,
		StopLossPct:         c.Simulation.StopLossPct,
		TakeProfitPct:       c.Simulation.TakeProfitPct,
		DefaultPositionSize: c.Simulation.DefaultPositionSize,
	}
}

// MonteCarloConfig maps the simulation section onto the Monte-Carlo
// driver config with the given seed.
func (c Config) MonteCarloConfig(seed int64) backtest.MonteCarloConfig {
	return backtest.MonteCarloConfig{
		Sim:     c.SimConfig(),
		Runs:    c.Simulation.Runs,
		Workers: c.Simulation.Workers,
		Seed:    seed,
	}
}

// EngineOptions maps the analyzer section onto engine options.
func (c Config) EngineOptions() []analyzer.Option {
	mode, _ := analyzer.ParseMode(c.Analyzer.Mode)
	return []analyzer.Option{
		analyzer.WithMode(mode),
		analyzer.WithReferenceSymbol(c.Analyzer.ReferenceSymbol),
		analyzer.WithWeights(c.Analyzer.LegacyWeights, c.Analyzer.EnhancedWeights),
		analyzer.WithKellyStats(c.Analyzer.Kelly),
		analyzer.WithNormalizer(analyzer.NewNormalizer(c.Analyzer.MinMarketCap, c.Analyzer.Stablecoins)),
	}
}
