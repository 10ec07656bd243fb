package engine

import (
	"github.com/shopspring/decimal"

	"tradelab/journal"
	"tradelab/market"
	"tradelab/portfolio"
)

// Read-only views for analytics and UI collaborators.

func (e *Engine) Cash() decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cash
}

func (e *Engine) InitialCash() decimal.Decimal {
	return e.initialCash
}

// Positions returns a snapshot of all open positions.
func (e *Engine) Positions() []*portfolio.Position {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.Positions()
}

// History returns the trade records in chronological order.
func (e *Engine) History() []journal.TradeRecord {
	return e.hist.Trades()
}

// EquityCurve returns the equity snapshots in chronological order.
func (e *Engine) EquityCurve() []journal.EquitySnapshot {
	return e.hist.Equity()
}

// AccountValue is cash plus positions marked to the supplied prices, falling
// back to average cost where no live price is available. Shorts contribute
// negative exposure.
func (e *Engine) AccountValue(src market.PriceSource) decimal.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cash.Add(e.ledger.TotalValue(src))
}

// MarginUsage reports capital reserved against short positions.
func (e *Engine) MarginUsage() portfolio.MarginReport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.MarginUsage(e.marginRatio, e.cash)
}

// Restore replaces the account state from a saved session.
func (e *Engine) Restore(cash decimal.Decimal, positions []*portfolio.Position,
	trades []journal.TradeRecord, equity []journal.EquitySnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cash = cash
	e.ledger.Restore(positions)
	e.hist.Restore(trades, equity)
}
