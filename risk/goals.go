// Package risk holds the trading-discipline goals and the advisory checks
// run after every fill. Breaches surface as warnings only; they never block
// an execution.
package risk

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"tradelab/journal"
)

type Goals struct {
	DailyMaxTrades   int
	DailyMaxLoss     decimal.Decimal
	MonthlyTargetPnL decimal.Decimal
	MaxDrawdownPct   float64
}

func DefaultGoals() Goals {
	return Goals{
		DailyMaxTrades:   20,
		DailyMaxLoss:     decimal.NewFromInt(5000),
		MonthlyTargetPnL: decimal.NewFromInt(10000),
		MaxDrawdownPct:   15.0,
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// Check evaluates today's activity against the goals and returns a warning
// per breached limit.
func (g Goals) Check(trades []journal.TradeRecord, now time.Time) []string {
	var warnings []string

	todayCount := 0
	todayLoss := decimal.Zero
	for _, t := range trades {
		if !sameDay(t.Time, now) {
			continue
		}
		todayCount++
		if t.PnL != nil && t.PnL.IsNegative() {
			todayLoss = todayLoss.Add(t.PnL.Neg())
		}
	}

	if g.DailyMaxTrades > 0 && todayCount >= g.DailyMaxTrades {
		warnings = append(warnings,
			fmt.Sprintf("daily trade limit reached: %d trades (max %d)", todayCount, g.DailyMaxTrades))
	}
	if g.DailyMaxLoss.IsPositive() && todayLoss.GreaterThanOrEqual(g.DailyMaxLoss) {
		warnings = append(warnings,
			fmt.Sprintf("daily loss limit breached: %s >= %s", todayLoss.StringFixed(2), g.DailyMaxLoss.StringFixed(2)))
	}

	return warnings
}

// MonthlyProgress sums the month's realized P&L and reports it against the
// monthly target as a percentage. A zero target yields zero progress.
func (g Goals) MonthlyProgress(trades []journal.TradeRecord, now time.Time) (decimal.Decimal, float64) {
	pnl := decimal.Zero
	ny, nm, _ := now.Date()
	for _, t := range trades {
		ty, tm, _ := t.Time.Date()
		if ty != ny || tm != nm || t.PnL == nil {
			continue
		}
		pnl = pnl.Add(*t.PnL)
	}
	if !g.MonthlyTargetPnL.IsPositive() {
		return pnl, 0
	}
	pct, _ := pnl.Div(g.MonthlyTargetPnL).Mul(decimal.NewFromInt(100)).Float64()
	return pnl, pct
}

// CheckDrawdown compares the current drawdown against the max-drawdown goal.
func (g Goals) CheckDrawdown(equity []journal.EquitySnapshot) []string {
	if g.MaxDrawdownPct <= 0 || len(equity) == 0 {
		return nil
	}

	peak := equity[0].Value
	for _, e := range equity {
		if e.Value.GreaterThan(peak) {
			peak = e.Value
		}
	}
	last := equity[len(equity)-1].Value
	if !peak.IsPositive() {
		return nil
	}
	dd, _ := peak.Sub(last).Div(peak).Mul(decimal.NewFromInt(100)).Float64()
	if dd >= g.MaxDrawdownPct {
		return []string{fmt.Sprintf("drawdown %.2f%% exceeds goal %.2f%%", dd, g.MaxDrawdownPct)}
	}
	return nil
}
