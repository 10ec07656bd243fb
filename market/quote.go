package market

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the last observed price for an instrument.
type Quote struct {
	Key   string
	Price decimal.Decimal
	Time  time.Time
}

// PriceSource supplies best-effort live prices. A false return means the
// price is unavailable; callers fall back to last-known cost, never fail.
type PriceSource interface {
	LastPrice(key string) (decimal.Decimal, bool)
}

// TickStore is an in-memory PriceSource fed by incoming ticks.
type TickStore struct {
	mu     sync.RWMutex
	quotes map[string]Quote
}

func NewTickStore() *TickStore {
	return &TickStore{quotes: make(map[string]Quote)}
}

func (s *TickStore) Set(q Quote) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quotes[q.Key] = q
}

func (s *TickStore) Get(key string) (Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[key]
	return q, ok
}

func (s *TickStore) LastPrice(key string) (decimal.Decimal, bool) {
	q, ok := s.Get(key)
	if !ok {
		return decimal.Decimal{}, false
	}
	return q.Price, true
}

// StaticPrices adapts a fixed price map to PriceSource, mainly for tests
// and one-shot valuation calls.
type StaticPrices map[string]decimal.Decimal

func (p StaticPrices) LastPrice(key string) (decimal.Decimal, bool) {
	v, ok := p[key]
	return v, ok
}
