package orders

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tradelab/market"
)

func TestParseTypeRoundTrip(t *testing.T) {
	t.Parallel()

	for _, typ := range []Type{LimitBuy, LimitSell, StopLoss, TakeProfit, TrailingStop} {
		got, err := ParseType(typ.String())
		assert.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := ParseType("Market")
	assert.Error(t, err)
}

func TestOrderJSONRoundTrip(t *testing.T) {
	t.Parallel()

	pct := d("5")
	hw := d("110")
	o := Order{
		ID:        "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		Key:       market.Equity("AAPL"),
		Type:      TrailingStop,
		Target:    d("104.5"),
		Qty:       10,
		Created:   time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
		Status:    Active,
		TrailPct:  &pct,
		HighWater: &hw,
	}

	data, err := json.Marshal(o)
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"type":"Trailing-Stop"`)
	assert.Contains(t, string(data), `"key":"AAPL"`)

	var back Order
	assert.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, o.ID, back.ID)
	assert.Equal(t, o.Type, back.Type)
	assert.Equal(t, "AAPL", back.Key.String())
	assert.True(t, back.Target.Equal(o.Target))
	assert.NotNil(t, back.TrailPct)
	assert.True(t, back.TrailPct.Equal(pct))
	assert.True(t, back.HighWater.Equal(hw))
	assert.Nil(t, back.TrailAmount)
}
