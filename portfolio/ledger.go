// Package portfolio owns the authoritative map of open positions. The
// execution engine is its sole mutator; everything else reads snapshots.
package portfolio

import (
	"sort"

	"github.com/shopspring/decimal"

	"tradelab/market"
)

// Ledger maps instrument key + side to an open position. Long and short
// positions in the same instrument are independent entries, so a trader can
// hold both at once (a boxed position).
type Ledger struct {
	positions map[string]*Position
}

func NewLedger() *Ledger {
	return &Ledger{positions: make(map[string]*Position)}
}

func slot(key string, side Side) string {
	if side == Short {
		return key + "/short"
	}
	return key
}

func (l *Ledger) Get(key string, side Side) (*Position, bool) {
	p, ok := l.positions[slot(key, side)]
	return p, ok
}

// Add opens or increases a position, folding the new lot into the
// weighted-average entry price:
//
//	newAvg = (oldQty*oldAvg + qty*price) / (oldQty + qty)
func (l *Ledger) Add(k market.Key, side Side, qty int64, price decimal.Decimal) *Position {
	s := slot(k.String(), side)
	p, ok := l.positions[s]
	if !ok {
		p = &Position{
			Key:        k.String(),
			Ticker:     k.Ticker,
			Class:      k.Class,
			Option:     k.Option,
			Side:       side,
			Qty:        qty,
			AvgPrice:   price.Round(4),
			Multiplier: k.Multiplier(),
		}
		l.positions[s] = p
		return p
	}

	oldQty := decimal.NewFromInt(p.Qty)
	addQty := decimal.NewFromInt(qty)
	newQty := oldQty.Add(addQty)
	p.AvgPrice = oldQty.Mul(p.AvgPrice).Add(addQty.Mul(price)).Div(newQty).Round(4)
	p.Qty += qty
	return p
}

// Reduce decrements a position and deletes it when quantity reaches zero.
// The caller must have verified qty <= held quantity.
func (l *Ledger) Reduce(key string, side Side, qty int64) {
	s := slot(key, side)
	p, ok := l.positions[s]
	if !ok {
		return
	}
	p.Qty -= qty
	if p.Qty <= 0 {
		delete(l.positions, s)
	}
}

// Restore replaces the ledger contents, used when loading a saved session.
func (l *Ledger) Restore(positions []*Position) {
	l.positions = make(map[string]*Position, len(positions))
	for _, p := range positions {
		cp := *p
		l.positions[slot(p.Key, p.Side)] = &cp
	}
}

// Positions returns a copy of all open positions, ordered by key then side.
func (l *Ledger) Positions() []*Position {
	out := make([]*Position, 0, len(l.positions))
	for _, p := range l.positions {
		cp := *p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key != out[j].Key {
			return out[i].Key < out[j].Key
		}
		return out[i].Side < out[j].Side
	})
	return out
}

func (l *Ledger) Len() int { return len(l.positions) }

// CostValue sums qty * avg price * multiplier across all positions. This is
// the approximation used for equity snapshots: short proceeds are already in
// cash, so shorts count at cost here too.
func (l *Ledger) CostValue() decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.positions {
		total = total.Add(p.CostBasis())
	}
	return total
}

// TotalValue marks each position to the supplied live price, falling back to
// average cost when no price is available. Shorts contribute negative
// exposure.
func (l *Ledger) TotalValue(src market.PriceSource) decimal.Decimal {
	total := decimal.Zero
	for _, p := range l.positions {
		price := p.AvgPrice
		if src != nil {
			if live, ok := src.LastPrice(p.Key); ok {
				price = live
			}
		}
		v := p.MarketValue(price)
		if p.Side == Short {
			v = v.Neg()
		}
		total = total.Add(v)
	}
	return total
}

// MarginReport summarizes capital reserved against short positions.
type MarginReport struct {
	ShortValue decimal.Decimal
	MarginUsed decimal.Decimal
	Positions  int
	MarginPct  float64
}

// MarginUsage computes margin reserved by shorts at the configured ratio.
// MarginPct is relative to the supplied equity reference (typically cash).
func (l *Ledger) MarginUsage(marginRatio, equityRef decimal.Decimal) MarginReport {
	r := MarginReport{ShortValue: decimal.Zero, MarginUsed: decimal.Zero}
	for _, p := range l.positions {
		if p.Side != Short {
			continue
		}
		r.ShortValue = r.ShortValue.Add(p.CostBasis())
		r.Positions++
	}
	r.MarginUsed = r.ShortValue.Mul(marginRatio)
	if equityRef.IsPositive() {
		r.MarginPct, _ = r.MarginUsed.Div(equityRef).Mul(decimal.NewFromInt(100)).Float64()
	}
	return r
}
