package journal

import (
	"database/sql"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	var pnl any
	if t.PnL != nil {
		pnl = t.PnL.String()
	}
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, time, instrument, action, qty, fill_price, raw_price, amount, commission, slippage, pnl, class, note, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Time, t.Key, t.Action, t.Qty,
		t.FillPrice.String(), t.RawPrice.String(), t.Amount.String(),
		t.Commission.String(), t.Slippage.String(), pnl,
		t.Class, t.Note, strings.Join(t.Tags, ","),
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (time, value) VALUES (?, ?)`,
		e.Time, e.Value.String(),
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

func scanTrade(scan func(dest ...any) error) (TradeRecord, error) {
	var (
		rec  TradeRecord
		fill, raw, amount, commission, slippage string
		pnl  sql.NullString
		tags string
	)
	err := scan(
		&rec.ID, &rec.Time, &rec.Key, &rec.Action, &rec.Qty,
		&fill, &raw, &amount, &commission, &slippage, &pnl,
		&rec.Class, &rec.Note, &tags,
	)
	if err != nil {
		return TradeRecord{}, err
	}

	if rec.FillPrice, err = decimal.NewFromString(fill); err != nil {
		return TradeRecord{}, err
	}
	if rec.RawPrice, err = decimal.NewFromString(raw); err != nil {
		return TradeRecord{}, err
	}
	if rec.Amount, err = decimal.NewFromString(amount); err != nil {
		return TradeRecord{}, err
	}
	if rec.Commission, err = decimal.NewFromString(commission); err != nil {
		return TradeRecord{}, err
	}
	if rec.Slippage, err = decimal.NewFromString(slippage); err != nil {
		return TradeRecord{}, err
	}
	if pnl.Valid {
		d, err := decimal.NewFromString(pnl.String)
		if err != nil {
			return TradeRecord{}, err
		}
		rec.PnL = &d
	}
	if tags != "" {
		rec.Tags = strings.Split(tags, ",")
	}
	return rec, nil
}
