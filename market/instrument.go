package market

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type AssetClass string

const (
	Stock  AssetClass = "stock"
	Option AssetClass = "option"
)

type OptionType string

const (
	Call OptionType = "C"
	Put  OptionType = "P"
)

// OptionSpec carries the contract terms for an option instrument.
type OptionSpec struct {
	Strike decimal.Decimal `json:"strike"`
	Expiry time.Time       `json:"expiry"`
	Type   OptionType      `json:"type"`
}

// Key identifies a tradable instrument. Stocks are keyed by ticker alone;
// options use ticker plus contract terms so that different strikes and
// expirations are independent positions.
type Key struct {
	Ticker string
	Class  AssetClass
	Option *OptionSpec
}

const expiryLayout = "2006-01-02"

func Equity(ticker string) Key {
	return Key{Ticker: strings.ToUpper(ticker), Class: Stock}
}

func OptionContract(ticker string, typ OptionType, strike decimal.Decimal, expiry time.Time) Key {
	return Key{
		Ticker: strings.ToUpper(ticker),
		Class:  Option,
		Option: &OptionSpec{Strike: strike, Expiry: expiry, Type: typ},
	}
}

// String renders the canonical form used as a ledger key:
// "AAPL" for stocks, "AAPL|2026-01-16|C|150" for options.
func (k Key) String() string {
	if k.Class != Option || k.Option == nil {
		return k.Ticker
	}
	return fmt.Sprintf("%s|%s|%s|%s",
		k.Ticker,
		k.Option.Expiry.Format(expiryLayout),
		k.Option.Type,
		k.Option.Strike.String(),
	)
}

// Multiplier is the contract size: 1 share for stocks, 100 for options.
func (k Key) Multiplier() int64 {
	if k.Class == Option {
		return 100
	}
	return 1
}

// MarshalText encodes the canonical form, so keys serialize as plain
// strings in JSON documents.
func (k Key) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKey is the inverse of String.
func ParseKey(s string) (Key, error) {
	parts := strings.Split(s, "|")
	switch len(parts) {
	case 1:
		if parts[0] == "" {
			return Key{}, fmt.Errorf("parse key: empty")
		}
		return Equity(parts[0]), nil
	case 4:
		expiry, err := time.Parse(expiryLayout, parts[1])
		if err != nil {
			return Key{}, fmt.Errorf("parse key %q: bad expiry: %w", s, err)
		}
		typ := OptionType(parts[2])
		if typ != Call && typ != Put {
			return Key{}, fmt.Errorf("parse key %q: bad option type %q", s, parts[2])
		}
		strike, err := decimal.NewFromString(parts[3])
		if err != nil {
			return Key{}, fmt.Errorf("parse key %q: bad strike: %w", s, err)
		}
		return OptionContract(parts[0], typ, strike, expiry), nil
	default:
		return Key{}, fmt.Errorf("parse key %q: want 1 or 4 fields, got %d", s, len(parts))
	}
}
