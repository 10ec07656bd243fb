// Package engine turns order requests into fills against a single simulated
// account: it prices the fill, applies commission, moves cash, updates the
// position ledger, and journals the trade and the resulting equity snapshot.
//
// All operations on one account are serialized behind a mutex. A failed
// execution leaves cash, positions, and history untouched.
package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"tradelab/internal/id"
	"tradelab/journal"
	"tradelab/market"
	"tradelab/portfolio"
	"tradelab/pricing"
	"tradelab/risk"
)

// Config carries the account parameters and friction fractions.
type Config struct {
	InitialCash      decimal.Decimal
	CommissionRate   decimal.Decimal
	SlippagePct      decimal.Decimal
	SpreadPct        decimal.Decimal
	ShortMarginRatio decimal.Decimal
	Seed             int64
	Goals            risk.Goals
	Sink             journal.Journal // optional persistent journal backend
	Logger           *log.Logger
}

// Order is a request to execute immediately at the given reference price.
type Order struct {
	Key    market.Key
	Action Action
	Qty    int64
	Price  decimal.Decimal // reference (pre-friction) price
	Time   time.Time       // zero means now
	Note   string
	Tags   []string
}

// Fill reports a successful execution.
type Fill struct {
	TradeID    string
	Price      decimal.Decimal
	Amount     decimal.Decimal
	Commission decimal.Decimal
	Slippage   decimal.Decimal
	PnL        *decimal.Decimal // closing actions only
	Warnings   []string         // advisory discipline-goal breaches
}

// Engine owns one account's state. Multiple accounts are multiple engines.
type Engine struct {
	mu sync.Mutex

	cash        decimal.Decimal
	initialCash decimal.Decimal
	ledger      *portfolio.Ledger
	model       *pricing.Model

	commissionRate decimal.Decimal
	marginRatio    decimal.Decimal

	hist  *journal.Memory
	sink  journal.Journal
	goals risk.Goals
	log   *log.Entry
}

func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Engine{
		cash:           cfg.InitialCash,
		initialCash:    cfg.InitialCash,
		ledger:         portfolio.NewLedger(),
		model:          pricing.New(cfg.SpreadPct, cfg.SlippagePct, cfg.Seed),
		commissionRate: cfg.CommissionRate,
		marginRatio:    cfg.ShortMarginRatio,
		hist:           journal.NewMemory(),
		sink:           cfg.Sink,
		goals:          cfg.Goals,
		log:            logger.WithField("component", "engine"),
	}
}

// Execute validates and executes one order. On any error the account is
// unchanged; on success the trade and a fresh equity snapshot are journaled.
func (e *Engine) Execute(req Order) (Fill, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if req.Qty <= 0 {
		return Fill{}, fmt.Errorf("%w: qty %d", ErrInvalidQuantity, req.Qty)
	}
	if !req.Price.IsPositive() {
		return Fill{}, fmt.Errorf("%w: price %s", ErrInvalidPrice, req.Price)
	}
	if req.Key.Class == market.Option && (req.Action == Short || req.Action == Cover) {
		return Fill{}, fmt.Errorf("%w: cannot %s options", ErrUnsupported, req.Action)
	}

	side := pricing.SellSide
	if req.Action == Buy || req.Action == Cover {
		side = pricing.BuySide
	}

	fillPrice := e.model.Fill(req.Price, side)
	mult := req.Key.Multiplier()
	units := decimal.NewFromInt(req.Qty * mult)
	gross := fillPrice.Mul(units)
	commission := gross.Mul(e.commissionRate)

	var pnl *decimal.Decimal

	switch req.Action {
	case Buy:
		total := gross.Add(commission)
		if e.cash.LessThan(total) {
			return Fill{}, fmt.Errorf("%w: need %s, available %s",
				ErrInsufficientFunds, total.StringFixed(2), e.cash.StringFixed(2))
		}
		e.cash = e.cash.Sub(total)
		e.ledger.Add(req.Key, portfolio.Long, req.Qty, fillPrice)

	case Sell:
		pos, ok := e.ledger.Get(req.Key.String(), portfolio.Long)
		if !ok {
			return Fill{}, fmt.Errorf("%w: no long position in %s", ErrNoPosition, req.Key)
		}
		if pos.Qty < req.Qty {
			return Fill{}, fmt.Errorf("%w: have %d, want to sell %d",
				ErrInsufficientShares, pos.Qty, req.Qty)
		}
		revenue := gross.Sub(commission)
		p := fillPrice.Sub(pos.AvgPrice).Mul(units).Sub(commission)
		pnl = &p
		e.cash = e.cash.Add(revenue)
		e.ledger.Reduce(req.Key.String(), portfolio.Long, req.Qty)

	case Short:
		required := gross.Mul(e.marginRatio)
		if e.cash.LessThan(required) {
			return Fill{}, fmt.Errorf("%w: need %s, available %s",
				ErrInsufficientMargin, required.StringFixed(2), e.cash.StringFixed(2))
		}
		e.cash = e.cash.Add(gross.Sub(commission))
		e.ledger.Add(req.Key, portfolio.Short, req.Qty, fillPrice)

	case Cover:
		pos, ok := e.ledger.Get(req.Key.String(), portfolio.Short)
		if !ok {
			return Fill{}, fmt.Errorf("%w: no short position in %s", ErrNoPosition, req.Key)
		}
		if pos.Qty < req.Qty {
			return Fill{}, fmt.Errorf("%w: short %d, want to cover %d",
				ErrInsufficientShares, pos.Qty, req.Qty)
		}
		total := gross.Add(commission)
		p := pos.AvgPrice.Sub(fillPrice).Mul(units).Sub(commission)
		pnl = &p
		e.cash = e.cash.Sub(total)
		e.ledger.Reduce(req.Key.String(), portfolio.Short, req.Qty)

	default:
		return Fill{}, fmt.Errorf("%w: action %s", ErrUnsupported, req.Action)
	}

	when := req.Time
	if when.IsZero() {
		when = time.Now()
	}

	slippage := fillPrice.Sub(req.Price).Abs().Mul(decimal.NewFromInt(req.Qty))

	rec := journal.TradeRecord{
		ID:         id.New(),
		Time:       when,
		Key:        req.Key.String(),
		Action:     req.Action.String(),
		Qty:        req.Qty,
		FillPrice:  fillPrice,
		RawPrice:   req.Price,
		Amount:     gross,
		Commission: commission,
		Slippage:   slippage,
		PnL:        pnl,
		Class:      string(req.Key.Class),
		Note:       req.Note,
		Tags:       req.Tags,
	}
	e.record(rec)

	snap := journal.EquitySnapshot{
		Time:  when,
		Value: e.cash.Add(e.ledger.CostValue()),
	}
	e.recordEquity(snap)

	warnings := e.goals.Check(e.hist.Trades(), when)
	warnings = append(warnings, e.goals.CheckDrawdown(e.hist.Equity())...)
	for _, w := range warnings {
		e.log.WithField("trade_id", rec.ID).Warn(w)
	}

	e.log.WithFields(log.Fields{
		"action":     rec.Action,
		"key":        rec.Key,
		"qty":        rec.Qty,
		"fill":       fillPrice.StringFixed(4),
		"commission": commission.StringFixed(2),
	}).Info("executed")

	return Fill{
		TradeID:    rec.ID,
		Price:      fillPrice,
		Amount:     gross,
		Commission: commission,
		Slippage:   slippage,
		PnL:        pnl,
		Warnings:   warnings,
	}, nil
}

// record appends to the in-memory history and, best-effort, to the sink.
// Memory appends cannot fail; sink failures are logged, not propagated, so a
// flaky backend cannot desync journal and account state.
func (e *Engine) record(rec journal.TradeRecord) {
	_ = e.hist.RecordTrade(rec)
	if e.sink != nil {
		if err := e.sink.RecordTrade(rec); err != nil {
			e.log.WithError(err).Warn("journal sink: record trade failed")
		}
	}
}

func (e *Engine) recordEquity(snap journal.EquitySnapshot) {
	_ = e.hist.RecordEquity(snap)
	if e.sink != nil {
		if err := e.sink.RecordEquity(snap); err != nil {
			e.log.WithError(err).Warn("journal sink: record equity failed")
		}
	}
}
