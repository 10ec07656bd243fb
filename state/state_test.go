package state

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"tradelab/config"
	"tradelab/engine"
	"tradelab/market"
	"tradelab/orders"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func quietLogger() *log.Logger {
	l := log.New()
	l.SetOutput(io.Discard)
	return l
}

// buildSession executes a few trades and leaves pending orders so the
// captured document exercises every field.
func buildSession(t *testing.T) (*engine.Engine, *orders.Book, *config.Config) {
	t.Helper()

	cfg := config.Default()
	cfg.Frictions.CommissionRate = 0
	cfg.Frictions.SlippagePct = 0
	cfg.Frictions.SpreadPct = 0

	ec := cfg.EngineConfig()
	ec.Logger = quietLogger()
	e := engine.New(ec)
	book := orders.NewBook(e, quietLogger())

	aapl := market.Equity("AAPL")
	_, err := e.Execute(engine.Order{Key: aapl, Action: engine.Buy, Qty: 10, Price: d("150"),
		Time: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), Note: "entry", Tags: []string{"tech"}})
	assert.NoError(t, err)

	expiry := time.Date(2026, 6, 19, 0, 0, 0, 0, time.UTC)
	call := market.OptionContract("SPY", market.Call, d("500"), expiry)
	_, err = e.Execute(engine.Order{Key: call, Action: engine.Buy, Qty: 1, Price: d("3.25"),
		Time: time.Date(2026, 3, 2, 10, 5, 0, 0, time.UTC)})
	assert.NoError(t, err)

	_, _, err = book.PlaceOCOBracket(aapl, 10, d("140"), d("165"))
	assert.NoError(t, err)
	pct := d("5")
	_, err = book.PlaceTrailingStop(aapl, 10, d("150"), &pct, nil)
	assert.NoError(t, err)

	return e, book, cfg
}

func TestCaptureBuildRoundTrip(t *testing.T) {
	t.Parallel()

	e, book, cfg := buildSession(t)
	doc := Capture(e, book, cfg)

	out, err := doc.Export()
	assert.NoError(t, err)

	parsed, err := Import(out)
	assert.NoError(t, err)

	e2, book2 := parsed.Build(nil, quietLogger())

	assert.True(t, e2.Cash().Equal(e.Cash()), "cash %s vs %s", e2.Cash(), e.Cash())
	assert.True(t, e2.InitialCash().Equal(e.InitialCash()))

	want, got := e.Positions(), e2.Positions()
	assert.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Key, got[i].Key)
		assert.Equal(t, want[i].Side, got[i].Side)
		assert.Equal(t, want[i].Qty, got[i].Qty)
		assert.True(t, got[i].AvgPrice.Equal(want[i].AvgPrice))
		assert.Equal(t, want[i].Multiplier, got[i].Multiplier)
	}

	wantHist, gotHist := e.History(), e2.History()
	assert.Len(t, gotHist, len(wantHist))
	for i := range wantHist {
		assert.Equal(t, wantHist[i].ID, gotHist[i].ID)
		assert.True(t, gotHist[i].FillPrice.Equal(wantHist[i].FillPrice))
		assert.Equal(t, wantHist[i].Tags, gotHist[i].Tags)
	}
	assert.Len(t, e2.EquityCurve(), len(e.EquityCurve()))

	wantOrders, gotOrders := book.Active(), book2.Active()
	assert.Len(t, gotOrders, len(wantOrders))
	for i := range wantOrders {
		assert.Equal(t, wantOrders[i].ID, gotOrders[i].ID)
		assert.Equal(t, wantOrders[i].Type, gotOrders[i].Type)
		assert.True(t, gotOrders[i].Target.Equal(wantOrders[i].Target))
		assert.Equal(t, wantOrders[i].OCOPairID, gotOrders[i].OCOPairID)
	}
}

func TestExportMoneyAsStrings(t *testing.T) {
	t.Parallel()

	e, book, cfg := buildSession(t)
	out, err := Capture(e, book, cfg).Export()
	assert.NoError(t, err)

	// Money is encoded as JSON strings so no precision is lost in transit.
	assert.Contains(t, out, `"cash": "`)
	assert.Contains(t, out, `"initial_cash": "100000"`)
	assert.Contains(t, out, `"_version": "`+Version+`"`)
	// Option keys serialize in their canonical pipe form.
	assert.Contains(t, out, `"SPY|2026-06-19|C|500"`)
}

func TestImportRejectsUnversioned(t *testing.T) {
	t.Parallel()

	_, err := Import(`{"cash": "100"}`)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "_version")

	_, err = Import(`not json`)
	assert.Error(t, err)
}

func TestSaveLoadFile(t *testing.T) {
	t.Parallel()

	e, book, cfg := buildSession(t)
	doc := Capture(e, book, cfg)

	path := filepath.Join(t.TempDir(), "nested", "session.json")
	assert.NoError(t, Save(doc, path))

	loaded, err := Load(path)
	assert.NoError(t, err)
	assert.Equal(t, Version, loaded.Version)
	assert.True(t, loaded.Cash.Equal(e.Cash()))

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRestoredBookStillFires(t *testing.T) {
	t.Parallel()

	e, book, cfg := buildSession(t)
	doc := Capture(e, book, cfg)

	e2, book2 := doc.Build(nil, quietLogger())

	// The restored take-profit leg fires against the restored engine.
	results := book2.Tick(market.Quote{Key: "AAPL", Price: d("165"), Time: time.Now()})
	assert.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
	assert.NotNil(t, results[0].Fill.PnL)
	assert.True(t, results[0].Fill.PnL.Equal(d("150")), "pnl %s", results[0].Fill.PnL)
	// AAPL is closed; the option position remains.
	positions := e2.Positions()
	assert.Len(t, positions, 1)
	assert.Equal(t, "SPY|2026-06-19|C|500", positions[0].Key)
}

func TestBackupListing(t *testing.T) {
	t.Parallel()

	e, book, cfg := buildSession(t)
	doc := Capture(e, book, cfg)
	dir := t.TempDir()

	p1, err := Backup(doc, dir)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(p1), "backup_"))

	// Unrelated files are not listed.
	assert.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	list, err := ListBackups(dir)
	assert.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, p1, list[0])

	list, err = ListBackups(filepath.Join(dir, "does-not-exist"))
	assert.NoError(t, err)
	assert.Empty(t, list)
}
