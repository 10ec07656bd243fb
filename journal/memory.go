package journal

import "sync"

// Memory keeps the full history in process and serves the read-only views
// consumed by analytics and the UI. Insertion order is chronological.
type Memory struct {
	mu     sync.RWMutex
	trades []TradeRecord
	equity []EquitySnapshot
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) RecordTrade(t TradeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append(m.trades, t)
	return nil
}

func (m *Memory) RecordEquity(e EquitySnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.equity = append(m.equity, e)
	return nil
}

func (m *Memory) Close() error { return nil }

// Trades returns a copy of the trade history in insertion order.
func (m *Memory) Trades() []TradeRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]TradeRecord, len(m.trades))
	copy(out, m.trades)
	return out
}

// Equity returns a copy of the equity curve in insertion order.
func (m *Memory) Equity() []EquitySnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]EquitySnapshot, len(m.equity))
	copy(out, m.equity)
	return out
}

// Restore replaces the journal contents, used when loading a saved session.
func (m *Memory) Restore(trades []TradeRecord, equity []EquitySnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trades = append([]TradeRecord(nil), trades...)
	m.equity = append([]EquitySnapshot(nil), equity...)
}

// Tee writes every record to all journals, failing on the first error.
// The in-memory history and a persistent backend are the usual pair.
type Tee []Journal

func (t Tee) RecordTrade(rec TradeRecord) error {
	for _, j := range t {
		if err := j.RecordTrade(rec); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) RecordEquity(rec EquitySnapshot) error {
	for _, j := range t {
		if err := j.RecordEquity(rec); err != nil {
			return err
		}
	}
	return nil
}

func (t Tee) Close() error {
	var first error
	for _, j := range t {
		if err := j.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
