// Package journal is the append-only record of executed trades and equity
// snapshots. Records are never mutated or deleted once written.
package journal

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeRecord is one executed fill. PnL is set only on closing actions
// (Sell, Cover); it is nil for opens.
type TradeRecord struct {
	ID         string           `json:"id"`
	Time       time.Time        `json:"time"`
	Key        string           `json:"key"`
	Action     string           `json:"action"`
	Qty        int64            `json:"qty"`
	FillPrice  decimal.Decimal  `json:"fill_price"`
	RawPrice   decimal.Decimal  `json:"raw_price"`
	Amount     decimal.Decimal  `json:"amount"`
	Commission decimal.Decimal  `json:"commission"`
	Slippage   decimal.Decimal  `json:"slippage"`
	PnL        *decimal.Decimal `json:"pnl,omitempty"`
	Class      string           `json:"class"`
	Note       string           `json:"note,omitempty"`
	Tags       []string         `json:"tags,omitempty"`
}

// EquitySnapshot is the total account value after a fill: cash plus all
// positions at average cost.
type EquitySnapshot struct {
	Time  time.Time       `json:"time"`
	Value decimal.Decimal `json:"value"`
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}
