// Package pricing computes simulated fill prices. A fill is the reference
// price shifted by half the configured bid-ask spread plus a random slippage
// draw, both applied against the trader: buys fill higher, sells fill lower.
package pricing

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

type Side int

const (
	BuySide Side = iota
	SellSide
)

func (s Side) String() string {
	if s == SellSide {
		return "sell"
	}
	return "buy"
}

var two = decimal.NewFromInt(2)

// Model holds the friction fractions and the slippage random source.
// Slippage magnitude is drawn uniformly from [0, ref*SlippagePct), so every
// fill satisfies |fill - ref| <= ref * (SpreadPct/2 + SlippagePct).
type Model struct {
	SpreadPct   decimal.Decimal
	SlippagePct decimal.Decimal
	rng         *rand.Rand
}

// New builds a Model with a seeded random source so executions are
// reproducible under test.
func New(spreadPct, slippagePct decimal.Decimal, seed int64) *Model {
	return &Model{
		SpreadPct:   spreadPct,
		SlippagePct: slippagePct,
		rng:         rand.New(rand.NewSource(seed)),
	}
}

// Fill returns the simulated execution price for one unit, rounded to four
// decimal places.
func (m *Model) Fill(ref decimal.Decimal, side Side) decimal.Decimal {
	p := applySpread(ref, side, m.SpreadPct)
	p = m.applySlippage(p, ref, side)
	return p.Round(4)
}

func applySpread(p decimal.Decimal, side Side, spreadPct decimal.Decimal) decimal.Decimal {
	half := p.Mul(spreadPct).Div(two)
	if side == BuySide {
		return p.Add(half)
	}
	return p.Sub(half)
}

func (m *Model) applySlippage(p, ref decimal.Decimal, side Side) decimal.Decimal {
	if m.SlippagePct.IsZero() {
		return p
	}
	draw := decimal.NewFromFloat(m.rng.Float64())
	slip := ref.Mul(m.SlippagePct).Mul(draw)
	if side == BuySide {
		return p.Add(slip)
	}
	return p.Sub(slip)
}
