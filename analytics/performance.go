// Package analytics derives performance statistics from the trade history
// and equity curve. It only reads journal views; nothing here mutates
// account state. Statistics are float64; exact arithmetic stays in the
// accounting layers.
package analytics

import (
	"math"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"tradelab/journal"
)

// tradingDaysPerYear annualizes per-trade return ratios.
const tradingDaysPerYear = 252

type Stats struct {
	TotalTrades      int
	ClosedTrades     int
	TotalCommissions float64
	TotalSlippage    float64

	WinRate      float64 // percent
	TotalPnL     float64
	AvgWin       float64
	AvgLoss      float64
	AvgTradePnL  float64
	BestTrade    float64
	WorstTrade   float64
	ProfitFactor float64
	Expectancy   float64
	KellyPct     float64

	ConsecutiveWins   int
	ConsecutiveLosses int
	LongPnL           float64
	ShortPnL          float64

	MaxDrawdown float64 // percent
	Sharpe      float64
	Sortino     float64
	Calmar      float64
}

// Compute builds the full statistics set. initial is the starting account
// balance used to normalize per-trade returns.
func Compute(trades []journal.TradeRecord, equity []journal.EquitySnapshot, initial decimal.Decimal) Stats {
	var s Stats
	s.TotalTrades = len(trades)

	var closed []float64
	for _, t := range trades {
		s.TotalCommissions += f(t.Commission)
		s.TotalSlippage += f(t.Slippage)
		if t.PnL == nil {
			continue
		}
		pnl := f(*t.PnL)
		closed = append(closed, pnl)
		switch t.Action {
		case "Sell":
			s.LongPnL += pnl
		case "Cover":
			s.ShortPnL += pnl
		}
	}
	s.ClosedTrades = len(closed)
	s.MaxDrawdown = MaxDrawdown(equity)
	if len(closed) == 0 {
		return s
	}

	var wins, losses []float64
	var sumWins, sumLosses float64
	for _, p := range closed {
		s.TotalPnL += p
		if p > 0 {
			wins = append(wins, p)
			sumWins += p
		} else if p < 0 {
			losses = append(losses, p)
			sumLosses += p
		}
	}

	s.WinRate = float64(len(wins)) / float64(len(closed)) * 100
	s.AvgTradePnL, _ = stats.Mean(closed)
	s.BestTrade, _ = stats.Max(closed)
	s.WorstTrade, _ = stats.Min(closed)
	if len(wins) > 0 {
		s.AvgWin, _ = stats.Mean(wins)
	}
	if len(losses) > 0 {
		s.AvgLoss, _ = stats.Mean(losses)
	}

	if sumLosses != 0 {
		s.ProfitFactor = math.Abs(sumWins / sumLosses)
	} else if sumWins > 0 {
		s.ProfitFactor = math.Inf(1)
	}

	winProb := float64(len(wins)) / float64(len(closed))
	lossProb := 1 - winProb
	absAvgLoss := math.Abs(s.AvgLoss)
	s.Expectancy = winProb*s.AvgWin - lossProb*absAvgLoss

	// Kelly: W - (1-W)/R with R the win/loss ratio, floored at zero.
	if absAvgLoss > 0 && winProb > 0 {
		r := s.AvgWin / absAvgLoss
		s.KellyPct = math.Max(0, (winProb*r-lossProb)/r*100)
	}

	s.ConsecutiveWins = maxStreak(closed, true)
	s.ConsecutiveLosses = maxStreak(closed, false)

	s.ratios(closed, initial)
	return s
}

// ratios fills Sharpe, Sortino, and Calmar from per-trade returns
// normalized by the initial balance.
func (s *Stats) ratios(closed []float64, initial decimal.Decimal) {
	base := f(initial)
	if len(closed) < 2 || base <= 0 {
		return
	}

	returns := make([]float64, len(closed))
	var downside []float64
	for i, p := range closed {
		returns[i] = p / base
		if returns[i] < 0 {
			downside = append(downside, returns[i])
		}
	}

	mean, _ := stats.Mean(returns)
	sd, _ := stats.StandardDeviation(returns)
	if sd > 0 {
		s.Sharpe = mean / sd * math.Sqrt(tradingDaysPerYear)
	}

	if len(downside) > 0 {
		dsd, _ := stats.StandardDeviation(downside)
		if dsd > 0 {
			s.Sortino = mean / dsd * math.Sqrt(tradingDaysPerYear)
		}
	}

	if s.MaxDrawdown > 0 {
		s.Calmar = (s.TotalPnL / base * 100) / s.MaxDrawdown
	}
}

// MaxDrawdown is the largest peak-to-trough decline of the equity curve,
// in percent.
func MaxDrawdown(equity []journal.EquitySnapshot) float64 {
	if len(equity) == 0 {
		return 0
	}
	peak := f(equity[0].Value)
	maxDD := 0.0
	for _, e := range equity {
		v := f(e.Value)
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak * 100; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// CurrentDrawdown is the decline from the all-time equity peak to the latest
// snapshot, in percent.
func CurrentDrawdown(equity []journal.EquitySnapshot) float64 {
	if len(equity) == 0 {
		return 0
	}
	peak := f(equity[0].Value)
	for _, e := range equity {
		if v := f(e.Value); v > peak {
			peak = v
		}
	}
	if peak <= 0 {
		return 0
	}
	current := f(equity[len(equity)-1].Value)
	return (peak - current) / peak * 100
}

func maxStreak(pnls []float64, positive bool) int {
	maxS, cur := 0, 0
	for _, p := range pnls {
		hit := p > 0
		if !positive {
			hit = p < 0
		}
		if hit {
			cur++
			if cur > maxS {
				maxS = cur
			}
		} else {
			cur = 0
		}
	}
	return maxS
}

func f(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
