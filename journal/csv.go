// journal/csv.go
package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"
	"time"
)

type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	if err := tw.Write([]string{"trade_id", "time", "instrument", "action", "qty", "fill_price", "raw_price", "amount", "commission", "slippage", "pnl", "class", "note", "tags"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"time", "value"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{tw, ew, tf, ef}, nil
}

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	pnl := ""
	if t.PnL != nil {
		pnl = t.PnL.String()
	}
	err := j.trades.Write([]string{
		t.ID,
		t.Time.Format(time.RFC3339),
		t.Key,
		t.Action,
		strconv.FormatInt(t.Qty, 10),
		t.FillPrice.String(),
		t.RawPrice.String(),
		t.Amount.String(),
		t.Commission.String(),
		t.Slippage.String(),
		pnl,
		t.Class,
		t.Note,
		strings.Join(t.Tags, "|"),
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(e EquitySnapshot) error {
	err := j.equity.Write([]string{
		e.Time.Format(time.RFC3339),
		e.Value.String(),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}
