package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFillNoFrictionsReturnsReference(t *testing.T) {
	t.Parallel()

	m := New(decimal.Zero, decimal.Zero, 1)
	ref := decimal.NewFromFloat(123.4567)

	assert.True(t, m.Fill(ref, BuySide).Equal(ref.Round(4)))
	assert.True(t, m.Fill(ref, SellSide).Equal(ref.Round(4)))
}

func TestFillAlwaysUnfavorable(t *testing.T) {
	t.Parallel()

	m := New(decimal.NewFromFloat(0.0002), decimal.NewFromFloat(0.0005), 42)
	ref := decimal.NewFromInt(100)

	for i := 0; i < 200; i++ {
		buy := m.Fill(ref, BuySide)
		sell := m.Fill(ref, SellSide)

		assert.True(t, buy.GreaterThanOrEqual(ref), "buy fill %s below reference", buy)
		assert.True(t, sell.LessThanOrEqual(ref), "sell fill %s above reference", sell)
	}
}

func TestFillWithinBound(t *testing.T) {
	t.Parallel()

	// |fill - ref| <= ref * (spread/2 + slippage) = 100 * 0.0006 = 0.06
	m := New(decimal.NewFromFloat(0.0002), decimal.NewFromFloat(0.0005), 7)
	ref := decimal.NewFromInt(100)
	bound := decimal.NewFromFloat(0.06)

	for i := 0; i < 500; i++ {
		for _, side := range []Side{BuySide, SellSide} {
			fill := m.Fill(ref, side)
			dev := fill.Sub(ref).Abs()
			assert.True(t, dev.LessThanOrEqual(bound), "deviation %s exceeds bound", dev)
		}
	}
}

func TestFillSeedReproducible(t *testing.T) {
	t.Parallel()

	ref := decimal.NewFromFloat(250.25)
	a := New(decimal.NewFromFloat(0.0002), decimal.NewFromFloat(0.0005), 99)
	b := New(decimal.NewFromFloat(0.0002), decimal.NewFromFloat(0.0005), 99)

	for i := 0; i < 50; i++ {
		assert.True(t, a.Fill(ref, BuySide).Equal(b.Fill(ref, BuySide)))
	}
}

func TestSpreadOnlyIsHalfSpread(t *testing.T) {
	t.Parallel()

	m := New(decimal.NewFromFloat(0.001), decimal.Zero, 1)
	ref := decimal.NewFromInt(200)

	// half spread = 200 * 0.001 / 2 = 0.10
	assert.True(t, m.Fill(ref, BuySide).Equal(decimal.NewFromFloat(200.10)))
	assert.True(t, m.Fill(ref, SellSide).Equal(decimal.NewFromFloat(199.90)))
}
