// Package orders is the conditional order book: pending limit, stop,
// trailing-stop, and OCO-linked orders that fire against the execution
// engine when a price tick crosses their trigger.
package orders

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"

	"tradelab/engine"
	"tradelab/internal/id"
	"tradelab/market"
)

// Executor is satisfied by *engine.Engine.
type Executor interface {
	Execute(engine.Order) (engine.Fill, error)
}

// Result reports one order that fired on a tick. Err is set when the
// execution failed; the order then stays active for the next tick.
type Result struct {
	Order *Order
	Fill  engine.Fill
	Err   error
}

var (
	ErrOrderNotFound  = fmt.Errorf("order not found")
	ErrOrderNotActive = fmt.Errorf("order not active")
)

var oneHundred = decimal.NewFromInt(100)

type Book struct {
	mu     sync.Mutex
	exec   Executor
	orders []*Order
	log    *log.Entry
}

func NewBook(exec Executor, logger *log.Logger) *Book {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Book{
		exec: exec,
		log:  logger.WithField("component", "orders"),
	}
}

// Place registers a pending order.
func (b *Book) Place(key market.Key, typ Type, target decimal.Decimal, qty int64) (*Order, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("%w: qty %d", engine.ErrInvalidQuantity, qty)
	}
	if !target.IsPositive() {
		return nil, fmt.Errorf("%w: target %s", engine.ErrInvalidPrice, target)
	}

	o := &Order{
		ID:      id.New(),
		Key:     key,
		Type:    typ,
		Target:  target,
		Qty:     qty,
		Created: time.Now(),
		Status:  Active,
	}

	b.mu.Lock()
	b.orders = append(b.orders, o)
	b.mu.Unlock()
	return o, nil
}

// PlaceOCOBracket links a stop-loss and a take-profit so that whichever
// fires first cancels the other.
func (b *Book) PlaceOCOBracket(key market.Key, qty int64, stopPrice, targetPrice decimal.Decimal) (stop, target *Order, err error) {
	pairID := uuid.NewString()

	stop, err = b.Place(key, StopLoss, stopPrice, qty)
	if err != nil {
		return nil, nil, err
	}
	target, err = b.Place(key, TakeProfit, targetPrice, qty)
	if err != nil {
		b.mu.Lock()
		stop.Status = Cancelled
		b.mu.Unlock()
		return nil, nil, err
	}

	b.mu.Lock()
	stop.OCOPairID = pairID
	target.OCOPairID = pairID
	b.mu.Unlock()
	return stop, target, nil
}

// PlaceTrailingStop registers a trailing stop seeded at the current price.
// trailPct is in percent (5 means 5%); pass nil to use trailAmount instead.
// With neither set the trail defaults to 5%.
func (b *Book) PlaceTrailingStop(key market.Key, qty int64, current decimal.Decimal, trailPct, trailAmount *decimal.Decimal) (*Order, error) {
	var target decimal.Decimal
	switch {
	case trailPct != nil:
		target = current.Mul(decimal.NewFromInt(1).Sub(trailPct.Div(oneHundred)))
	case trailAmount != nil:
		target = current.Sub(*trailAmount)
	default:
		pct := decimal.NewFromInt(5)
		trailPct = &pct
		target = current.Mul(decimal.NewFromFloat(0.95))
	}

	o, err := b.Place(key, TrailingStop, target.Round(2), qty)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	o.TrailPct = trailPct
	o.TrailAmount = trailAmount
	hw := current
	o.HighWater = &hw
	b.mu.Unlock()
	return o, nil
}

// Cancel removes an active order without executing it. An order in an OCO
// pair takes its siblings with it.
func (b *Book) Cancel(orderID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var found *Order
	for _, o := range b.orders {
		if o.ID == orderID {
			found = o
			break
		}
	}
	if found == nil {
		return fmt.Errorf("%w: %q", ErrOrderNotFound, orderID)
	}
	if found.Status != Active {
		return fmt.Errorf("%w: %q is %s", ErrOrderNotActive, orderID, found.Status)
	}

	found.Status = Cancelled
	if found.OCOPairID != "" {
		b.cancelPairLocked(found.OCOPairID)
	}
	return nil
}

func (b *Book) cancelPairLocked(pairID string) {
	for _, o := range b.orders {
		if o.Status == Active && o.OCOPairID == pairID {
			o.Status = Cancelled
		}
	}
}

// Active returns the active orders, optionally filtered to one instrument.
func (b *Book) Active(key ...string) []*Order {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []*Order
	for _, o := range b.orders {
		if o.Status != Active {
			continue
		}
		if len(key) > 0 && o.Key.String() != key[0] {
			continue
		}
		cp := *o
		out = append(out, &cp)
	}
	return out
}

// Restore replaces the book contents, used when loading a saved session.
func (b *Book) Restore(orders []*Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.orders = make([]*Order, 0, len(orders))
	for _, o := range orders {
		cp := *o
		b.orders = append(b.orders, &cp)
	}
}

// Tick evaluates every active order for the quoted instrument. At most one
// order per OCO pair can ever fire; its siblings cancel without executing,
// even when their own trigger condition also holds on this tick.
func (b *Book) Tick(q market.Quote) []Result {
	b.mu.Lock()
	defer b.mu.Unlock()

	var results []Result
	firedPairs := make(map[string]bool)

	for _, o := range b.orders {
		if o.Status != Active || o.Key.String() != q.Key {
			continue
		}
		if o.OCOPairID != "" && firedPairs[o.OCOPairID] {
			continue // sibling fired this tick; cancelPairLocked already ran
		}

		if o.Type == TrailingStop {
			b.ratchetLocked(o, q.Price)
		}
		if !triggered(o, q.Price) {
			continue
		}

		action := engine.Sell
		if o.Type == LimitBuy {
			action = engine.Buy
		}

		fill, err := b.exec.Execute(engine.Order{
			Key:    o.Key,
			Action: action,
			Qty:    o.Qty,
			Price:  q.Price,
			Time:   q.Time,
			Note:   fmt.Sprintf("%s triggered @ %s", o.Type, q.Price.StringFixed(2)),
		})
		if err != nil {
			// Leave the order active; the condition may be satisfiable
			// on a later tick (e.g. after funds free up).
			b.log.WithError(err).WithFields(log.Fields{
				"order_id": o.ID,
				"type":     o.Type.String(),
				"key":      q.Key,
			}).Warn("trigger execution failed")
			results = append(results, Result{Order: o, Err: err})
			continue
		}

		o.Status = Filled
		if o.OCOPairID != "" {
			firedPairs[o.OCOPairID] = true
			b.cancelPairLocked(o.OCOPairID)
		}

		b.log.WithFields(log.Fields{
			"order_id": o.ID,
			"type":     o.Type.String(),
			"key":      q.Key,
			"price":    q.Price.StringFixed(2),
		}).Info("order triggered")
		results = append(results, Result{Order: o, Fill: fill})
	}

	return results
}

// ratchetLocked raises the high-water mark and recomputes the stop level.
// The stop only ever tightens; price dips never lower it.
func (b *Book) ratchetLocked(o *Order, price decimal.Decimal) {
	if o.HighWater != nil && price.LessThanOrEqual(*o.HighWater) {
		return
	}
	hw := price
	o.HighWater = &hw

	switch {
	case o.TrailPct != nil:
		o.Target = price.Mul(decimal.NewFromInt(1).Sub(o.TrailPct.Div(oneHundred))).Round(2)
	case o.TrailAmount != nil:
		o.Target = price.Sub(*o.TrailAmount).Round(2)
	}
}

func triggered(o *Order, price decimal.Decimal) bool {
	switch o.Type {
	case LimitBuy, StopLoss, TrailingStop:
		return price.LessThanOrEqual(o.Target)
	case LimitSell, TakeProfit:
		return price.GreaterThanOrEqual(o.Target)
	default:
		return false
	}
}
