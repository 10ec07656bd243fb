package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"tradelab/market"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestAddComputesWeightedAverage(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	key := market.Equity("AAPL")

	l.Add(key, Long, 10, d("100"))
	l.Add(key, Long, 30, d("120"))

	pos, ok := l.Get("AAPL", Long)
	assert.True(t, ok)
	assert.Equal(t, int64(40), pos.Qty)
	// (10*100 + 30*120) / 40 = 115
	assert.True(t, pos.AvgPrice.Equal(d("115")), "avg %s", pos.AvgPrice)
}

func TestReduceDeletesAtZero(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	key := market.Equity("MSFT")
	l.Add(key, Long, 5, d("300"))

	l.Reduce("MSFT", Long, 3)
	pos, ok := l.Get("MSFT", Long)
	assert.True(t, ok)
	assert.Equal(t, int64(2), pos.Qty)

	l.Reduce("MSFT", Long, 2)
	_, ok = l.Get("MSFT", Long)
	assert.False(t, ok, "fully closed position must be deleted")
	assert.Equal(t, 0, l.Len())
}

func TestLongAndShortAreIndependent(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	key := market.Equity("TSLA")
	l.Add(key, Long, 10, d("200"))
	l.Add(key, Short, 4, d("210"))

	long, ok := l.Get("TSLA", Long)
	assert.True(t, ok)
	assert.Equal(t, int64(10), long.Qty)

	short, ok := l.Get("TSLA", Short)
	assert.True(t, ok)
	assert.Equal(t, int64(4), short.Qty)
	assert.Equal(t, Short, short.Side)
}

func TestTotalValueFallsBackToAvgCost(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	l.Add(market.Equity("AAPL"), Long, 10, d("150"))
	l.Add(market.Equity("MSFT"), Long, 2, d("300"))

	// Live price only for AAPL; MSFT values at cost.
	src := market.StaticPrices{"AAPL": d("160")}
	total := l.TotalValue(src)
	assert.True(t, total.Equal(d("2200")), "total %s", total) // 1600 + 600

	// No source at all: everything at cost.
	total = l.TotalValue(nil)
	assert.True(t, total.Equal(d("2100")), "total %s", total)
}

func TestTotalValueShortsAreNegativeExposure(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	l.Add(market.Equity("NVDA"), Short, 5, d("100"))

	total := l.TotalValue(nil)
	assert.True(t, total.Equal(d("-500")), "total %s", total)
}

func TestOptionPositionUsesMultiplier(t *testing.T) {
	t.Parallel()

	expiry := time.Date(2026, 1, 16, 0, 0, 0, 0, time.UTC)
	key := market.OptionContract("AAPL", market.Call, d("150"), expiry)

	l := NewLedger()
	pos := l.Add(key, Long, 2, d("3.50"))

	assert.Equal(t, int64(100), pos.Multiplier)
	assert.Equal(t, market.Option, pos.Class)
	// 2 contracts * 3.50 * 100
	assert.True(t, pos.CostBasis().Equal(d("700")), "basis %s", pos.CostBasis())
}

func TestMarginUsage(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	l.Add(market.Equity("AAPL"), Short, 10, d("100"))
	l.Add(market.Equity("MSFT"), Long, 5, d("300"))

	r := l.MarginUsage(d("1.5"), d("10000"))
	assert.True(t, r.ShortValue.Equal(d("1000")), "short value %s", r.ShortValue)
	assert.True(t, r.MarginUsed.Equal(d("1500")), "margin used %s", r.MarginUsed)
	assert.Equal(t, 1, r.Positions)
	assert.InDelta(t, 15.0, r.MarginPct, 1e-9)
}

func TestPositionsSnapshotIsACopy(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	l.Add(market.Equity("AAPL"), Long, 10, d("150"))

	snap := l.Positions()
	snap[0].Qty = 999

	pos, _ := l.Get("AAPL", Long)
	assert.Equal(t, int64(10), pos.Qty, "mutating a snapshot must not touch the ledger")
}

func TestRestoreRoundTrip(t *testing.T) {
	t.Parallel()

	l := NewLedger()
	l.Add(market.Equity("AAPL"), Long, 10, d("150"))
	l.Add(market.Equity("TSLA"), Short, 3, d("220"))

	snap := l.Positions()

	l2 := NewLedger()
	l2.Restore(snap)
	assert.Equal(t, 2, l2.Len())

	pos, ok := l2.Get("TSLA", Short)
	assert.True(t, ok)
	assert.True(t, pos.AvgPrice.Equal(d("220")))
}
