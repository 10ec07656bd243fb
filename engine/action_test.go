package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseActionRoundTrip(t *testing.T) {
	t.Parallel()

	for _, a := range []Action{Buy, Sell, Short, Cover} {
		got, err := ParseAction(a.String())
		assert.NoError(t, err)
		assert.Equal(t, a, got)
	}

	_, err := ParseAction("Hold")
	assert.Error(t, err)
}

func TestActionOpening(t *testing.T) {
	t.Parallel()

	assert.True(t, Buy.Opening())
	assert.True(t, Short.Opening())
	assert.False(t, Sell.Opening())
	assert.False(t, Cover.Opening())
}
