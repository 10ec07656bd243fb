// Package state serializes a full simulator session (cash, positions,
// history, equity curve, pending orders, friction config) to a versioned
// JSON document. Money fields are decimals encoded as strings, so the
// round-trip is lossless.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"tradelab/config"
	"tradelab/engine"
	"tradelab/journal"
	"tradelab/orders"
	"tradelab/portfolio"
	"tradelab/risk"
)

const Version = "2.0.0"

const backupPrefix = "backup_"

type Document struct {
	Version     string                   `json:"_version"`
	SavedAt     time.Time                `json:"_saved_at"`
	Cash        decimal.Decimal          `json:"cash"`
	InitialCash decimal.Decimal          `json:"initial_cash"`
	Positions   []*portfolio.Position    `json:"positions"`
	History     []journal.TradeRecord    `json:"history"`
	EquityCurve []journal.EquitySnapshot `json:"equity_curve"`
	Pending     []*orders.Order          `json:"pending_orders"`
	Frictions   config.FrictionConfig    `json:"frictions"`
	Goals       config.GoalsConfig       `json:"goals"`
}

// Capture snapshots the current session into a document.
func Capture(e *engine.Engine, book *orders.Book, cfg *config.Config) *Document {
	return &Document{
		Version:     Version,
		SavedAt:     time.Now(),
		Cash:        e.Cash(),
		InitialCash: e.InitialCash(),
		Positions:   e.Positions(),
		History:     e.History(),
		EquityCurve: e.EquityCurve(),
		Pending:     book.Active(),
		Frictions:   cfg.Frictions,
		Goals:       cfg.Goals,
	}
}

// Build reconstructs a live engine and order book from the document.
func (d *Document) Build(sink journal.Journal, logger *log.Logger) (*engine.Engine, *orders.Book) {
	e := engine.New(engine.Config{
		InitialCash:      d.InitialCash,
		CommissionRate:   decimal.NewFromFloat(d.Frictions.CommissionRate),
		SlippagePct:      decimal.NewFromFloat(d.Frictions.SlippagePct),
		SpreadPct:        decimal.NewFromFloat(d.Frictions.SpreadPct),
		ShortMarginRatio: decimal.NewFromFloat(d.Frictions.ShortMarginRatio),
		Seed:             d.Frictions.Seed,
		Goals: risk.Goals{
			DailyMaxTrades:   d.Goals.DailyMaxTrades,
			DailyMaxLoss:     decimal.NewFromFloat(d.Goals.DailyMaxLoss),
			MonthlyTargetPnL: decimal.NewFromFloat(d.Goals.MonthlyTargetPnL),
			MaxDrawdownPct:   d.Goals.MaxDrawdownPct,
		},
		Sink:   sink,
		Logger: logger,
	})
	e.Restore(d.Cash, d.Positions, d.History, d.EquityCurve)

	book := orders.NewBook(e, logger)
	book.Restore(d.Pending)
	return e, book
}

// Export renders the document as an indented JSON string.
func (d *Document) Export() (string, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal state: %w", err)
	}
	return string(data), nil
}

// Import parses a document from a JSON string, checking the version marker.
func Import(s string) (*Document, error) {
	d := &Document{}
	if err := json.Unmarshal([]byte(s), d); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	if d.Version == "" {
		return nil, fmt.Errorf("parse state: missing _version")
	}
	return d, nil
}

// Save writes the document to path, stamping version and save time.
func Save(d *Document, path string) error {
	d.Version = Version
	d.SavedAt = time.Now()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("save state: %w", err)
		}
	}

	out, err := d.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Load reads a document from path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	return Import(string(data))
}

// Backup writes a timestamped copy of the document into dir and returns the
// path used.
func Backup(d *Document, dir string) (string, error) {
	ts := time.Now().Format("20060102_150405")
	path := filepath.Join(dir, backupPrefix+ts+".json")
	if err := Save(d, path); err != nil {
		return "", err
	}
	return path, nil
}

// ListBackups returns backup files in dir, newest first.
func ListBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var out []string
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, ".json") {
			out = append(out, filepath.Join(dir, name))
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out, nil
}
