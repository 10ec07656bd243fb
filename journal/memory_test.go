package journal

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryReturnsCopies(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	assert.NoError(t, m.RecordTrade(sampleTrade("T1", time.Now())))

	trades := m.Trades()
	trades[0].Note = "mutated"

	assert.Equal(t, "closing out", m.Trades()[0].Note)
}

func TestMemoryRestoreReplaces(t *testing.T) {
	t.Parallel()

	m := NewMemory()
	assert.NoError(t, m.RecordTrade(sampleTrade("old", time.Now())))
	assert.NoError(t, m.RecordEquity(EquitySnapshot{Time: time.Now(), Value: d("1")}))

	m.Restore(
		[]TradeRecord{sampleTrade("new", time.Now())},
		[]EquitySnapshot{{Time: time.Now(), Value: d("2")}},
	)

	trades := m.Trades()
	assert.Len(t, trades, 1)
	assert.Equal(t, "new", trades[0].ID)
	curve := m.Equity()
	assert.Len(t, curve, 1)
	assert.True(t, curve[0].Value.Equal(d("2")))
}

type failingJournal struct{ err error }

func (f failingJournal) RecordTrade(TradeRecord) error    { return f.err }
func (f failingJournal) RecordEquity(EquitySnapshot) error { return f.err }
func (f failingJournal) Close() error                      { return f.err }

func TestTeeFansOut(t *testing.T) {
	t.Parallel()

	a, b := NewMemory(), NewMemory()
	tee := Tee{a, b}

	assert.NoError(t, tee.RecordTrade(sampleTrade("T1", time.Now())))
	assert.Len(t, a.Trades(), 1)
	assert.Len(t, b.Trades(), 1)
}

func TestTeeStopsOnFirstError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	after := NewMemory()
	tee := Tee{failingJournal{err: boom}, after}

	assert.ErrorIs(t, tee.RecordTrade(sampleTrade("T1", time.Now())), boom)
	assert.Empty(t, after.Trades())
}

func TestCSVJournalWritesRows(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tradesPath := filepath.Join(dir, "trades.csv")
	equityPath := filepath.Join(dir, "equity.csv")

	j, err := NewCSV(tradesPath, equityPath)
	assert.NoError(t, err)

	ts := time.Date(2026, 3, 2, 10, 30, 0, 0, time.UTC)
	assert.NoError(t, j.RecordTrade(sampleTrade("T1", ts)))
	assert.NoError(t, j.RecordEquity(EquitySnapshot{Time: ts, Value: d("100000")}))
	assert.NoError(t, j.Close())

	tf, err := os.Open(tradesPath)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = tf.Close() })

	rows, err := csv.NewReader(tf).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2, "header plus one trade")
	assert.Equal(t, "trade_id", rows[0][0])
	assert.Equal(t, "T1", rows[1][0])
	assert.Equal(t, "AAPL", rows[1][2])
	assert.Equal(t, "160", rows[1][5])
	assert.Equal(t, "98.4", rows[1][10])
	assert.Equal(t, "swing|tech", rows[1][13])

	ef, err := os.Open(equityPath)
	assert.NoError(t, err)
	t.Cleanup(func() { _ = ef.Close() })

	rows, err = csv.NewReader(ef).ReadAll()
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "100000", rows[1][1])
}
