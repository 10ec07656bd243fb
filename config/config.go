package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"tradelab/engine"
	"tradelab/risk"
)

// Config represents the complete simulator configuration.
type Config struct {
	Account   AccountConfig  `json:"account" yaml:"account"`
	Frictions FrictionConfig `json:"frictions" yaml:"frictions"`
	Goals     GoalsConfig    `json:"goals" yaml:"goals"`
	Journal   JournalConfig  `json:"journal" yaml:"journal"`
	Session   SessionConfig  `json:"session,omitempty" yaml:"session,omitempty"`
}

// AccountConfig contains account initialization parameters.
type AccountConfig struct {
	ID          string  `json:"id" yaml:"id"`
	InitialCash float64 `json:"initial_cash" yaml:"initial_cash"`
}

// FrictionConfig holds the execution friction fractions. Values are plain
// fractions (0.001 is 0.1%) and are converted to exact decimals at engine
// construction.
type FrictionConfig struct {
	CommissionRate   float64 `json:"commission_rate" yaml:"commission_rate"`
	SlippagePct      float64 `json:"slippage_pct" yaml:"slippage_pct"`
	SpreadPct        float64 `json:"spread_pct" yaml:"spread_pct"`
	ShortMarginRatio float64 `json:"short_margin_ratio" yaml:"short_margin_ratio"`
	Seed             int64   `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// GoalsConfig holds the discipline goals checked after every fill.
type GoalsConfig struct {
	DailyMaxTrades   int     `json:"daily_max_trades" yaml:"daily_max_trades"`
	DailyMaxLoss     float64 `json:"daily_max_loss" yaml:"daily_max_loss"`
	MonthlyTargetPnL float64 `json:"monthly_target_pnl" yaml:"monthly_target_pnl"`
	MaxDrawdownPct   float64 `json:"max_drawdown_pct" yaml:"max_drawdown_pct"`
}

// JournalConfig selects the persistent journal backend.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "memory", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// SessionConfig is an optional scripted session replayed by `tradelab run`.
type SessionConfig struct {
	Steps []Step `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// Step is one scripted action; exactly one field should be set.
type Step struct {
	Trade *TradeStep `json:"trade,omitempty" yaml:"trade,omitempty"`
	Order *OrderStep `json:"order,omitempty" yaml:"order,omitempty"`
	Tick  *TickStep  `json:"tick,omitempty" yaml:"tick,omitempty"`
}

// TradeStep executes immediately at the given reference price.
type TradeStep struct {
	Key    string   `json:"key" yaml:"key"`
	Action string   `json:"action" yaml:"action"` // Buy | Sell | Short | Cover
	Qty    int64    `json:"qty" yaml:"qty"`
	Price  float64  `json:"price" yaml:"price"`
	Note   string   `json:"note,omitempty" yaml:"note,omitempty"`
	Tags   []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// OrderStep places a pending conditional order.
type OrderStep struct {
	Key         string   `json:"key" yaml:"key"`
	Type        string   `json:"type" yaml:"type"` // order type wire name, e.g. "Stop-Loss"
	Target      float64  `json:"target" yaml:"target"`
	Qty         int64    `json:"qty" yaml:"qty"`
	TrailPct    *float64 `json:"trail_pct,omitempty" yaml:"trail_pct,omitempty"`
	TrailAmount *float64 `json:"trail_amount,omitempty" yaml:"trail_amount,omitempty"`
}

// TickStep feeds a price tick through the order book.
type TickStep struct {
	Key   string  `json:"key" yaml:"key"`
	Price float64 `json:"price" yaml:"price"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
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

// SaveToFile saves configuration to a file (format chosen by extension).
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

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Account.InitialCash <= 0 {
		return fmt.Errorf("account.initial_cash must be positive")
	}
	if c.Frictions.CommissionRate < 0 {
		return fmt.Errorf("frictions.commission_rate must be >= 0")
	}
	if c.Frictions.SlippagePct < 0 {
		return fmt.Errorf("frictions.slippage_pct must be >= 0")
	}
	if c.Frictions.SpreadPct < 0 {
		return fmt.Errorf("frictions.spread_pct must be >= 0")
	}
	if c.Frictions.ShortMarginRatio < 1 {
		return fmt.Errorf("frictions.short_margin_ratio must be >= 1")
	}
	switch c.Journal.Type {
	case "memory":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'memory', 'csv' or 'sqlite'")
	}
	for i, s := range c.Session.Steps {
		n := 0
		if s.Trade != nil {
			n++
			if _, err := engine.ParseAction(s.Trade.Action); err != nil {
				return fmt.Errorf("session.steps[%d]: %w", i, err)
			}
		}
		if s.Order != nil {
			n++
		}
		if s.Tick != nil {
			n++
		}
		if n != 1 {
			return fmt.Errorf("session.steps[%d]: exactly one of trade/order/tick must be set", i)
		}
	}
	return nil
}

// EngineConfig converts the file representation into engine parameters.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		InitialCash:      decimal.NewFromFloat(c.Account.InitialCash),
		CommissionRate:   decimal.NewFromFloat(c.Frictions.CommissionRate),
		SlippagePct:      decimal.NewFromFloat(c.Frictions.SlippagePct),
		SpreadPct:        decimal.NewFromFloat(c.Frictions.SpreadPct),
		ShortMarginRatio: decimal.NewFromFloat(c.Frictions.ShortMarginRatio),
		Seed:             c.Frictions.Seed,
		Goals: risk.Goals{
			DailyMaxTrades:   c.Goals.DailyMaxTrades,
			DailyMaxLoss:     decimal.NewFromFloat(c.Goals.DailyMaxLoss),
			MonthlyTargetPnL: decimal.NewFromFloat(c.Goals.MonthlyTargetPnL),
			MaxDrawdownPct:   c.Goals.MaxDrawdownPct,
		},
	}
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:          "SIM-001",
			InitialCash: 100000,
		},
		Frictions: FrictionConfig{
			CommissionRate:   0.001,  // 0.1%
			SlippagePct:      0.0005, // 0.05%
			SpreadPct:        0.0002, // 0.02%
			ShortMarginRatio: 1.5,
		},
		Goals: GoalsConfig{
			DailyMaxTrades:   20,
			DailyMaxLoss:     5000,
			MonthlyTargetPnL: 10000,
			MaxDrawdownPct:   15,
		},
		Journal: JournalConfig{
			Type: "memory",
		},
	}
}
