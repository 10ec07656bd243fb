package portfolio

import (
	"github.com/shopspring/decimal"

	"tradelab/market"
)

type Side string

const (
	Long  Side = "long"
	Short Side = "short"
)

// Position is one open holding. Quantity is always positive; direction is
// carried by Side. A position never exists at zero quantity.
type Position struct {
	Key        string             `json:"key"`
	Ticker     string             `json:"ticker"`
	Class      market.AssetClass  `json:"class"`
	Option     *market.OptionSpec `json:"option,omitempty"`
	Side       Side               `json:"side"`
	Qty        int64              `json:"qty"`
	AvgPrice   decimal.Decimal    `json:"avg_price"`
	Multiplier int64              `json:"multiplier"`
}

// CostBasis is qty * avg price * multiplier.
func (p *Position) CostBasis() decimal.Decimal {
	return p.AvgPrice.Mul(decimal.NewFromInt(p.Qty * p.Multiplier))
}

// MarketValue values the position at the given unit price.
func (p *Position) MarketValue(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(p.Qty * p.Multiplier))
}
