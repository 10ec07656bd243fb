package orders

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tradelab/market"
)

// Type is the conditional order kind.
type Type int

const (
	LimitBuy Type = iota
	LimitSell
	StopLoss
	TakeProfit
	TrailingStop
)

var typeNames = [...]string{"Limit Buy", "Limit Sell", "Stop-Loss", "Take-Profit", "Trailing-Stop"}

func (t Type) String() string {
	if t < LimitBuy || t > TrailingStop {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeNames[t]
}

func ParseType(s string) (Type, error) {
	for i, name := range typeNames {
		if name == s {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown order type %q", s)
}

func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *Type) UnmarshalText(text []byte) error {
	parsed, err := ParseType(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

type Status string

const (
	Active    Status = "active"
	Filled    Status = "filled"
	Cancelled Status = "cancelled"
)

// Order is a pending conditional instruction. Active orders transition to
// exactly one terminal status: filled when their trigger fires and the
// execution succeeds, cancelled on user request or when an OCO sibling fires.
type Order struct {
	ID      string          `json:"id"`
	Key     market.Key      `json:"key"`
	Type    Type            `json:"type"`
	Target  decimal.Decimal `json:"target"`
	Qty     int64           `json:"qty"`
	Created time.Time       `json:"created"`
	Status  Status          `json:"status"`

	// Trailing stops only: one of TrailPct/TrailAmount set, HighWater
	// ratchets upward with price.
	TrailPct    *decimal.Decimal `json:"trail_pct,omitempty"`
	TrailAmount *decimal.Decimal `json:"trail_amount,omitempty"`
	HighWater   *decimal.Decimal `json:"high_water,omitempty"`

	// OCOPairID links sibling orders: when one fires, the rest cancel.
	OCOPairID string `json:"oco_pair_id,omitempty"`
}
