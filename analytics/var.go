package analytics

import (
	"math"

	"github.com/montanaflynn/stats"

	"tradelab/journal"
)

// VaRReport holds value-at-risk figures in account currency, as positive
// magnitudes.
type VaRReport struct {
	Historical float64
	Parametric float64
	CVaR       float64
}

// VaR estimates value at risk from equity-curve returns at the given
// confidence level (e.g. 0.95). Historical uses the empirical percentile,
// parametric assumes normal returns, and CVaR is the mean loss beyond the
// historical threshold. Too little history yields a zero report.
func VaR(equity []journal.EquitySnapshot, confidence float64) VaRReport {
	if len(equity) < 3 {
		return VaRReport{}
	}

	values := make([]float64, len(equity))
	for i, e := range equity {
		values[i] = f(e.Value)
	}

	var returns []float64
	for i := 1; i < len(values); i++ {
		if values[i-1] != 0 {
			returns = append(returns, values[i]/values[i-1]-1)
		}
	}
	if len(returns) < 2 {
		return VaRReport{}
	}

	portfolioValue := values[len(values)-1]
	tailPct := (1 - confidence) * 100

	threshold, _ := stats.Percentile(returns, tailPct)
	hist := threshold * portfolioValue

	mean, _ := stats.Mean(returns)
	sd, _ := stats.StandardDeviation(returns)
	z := stats.NormPpf(1-confidence, 0, 1)
	param := (mean + z*sd) * portfolioValue

	var tail []float64
	for _, r := range returns {
		if r <= threshold {
			tail = append(tail, r)
		}
	}
	cvar := hist
	if len(tail) > 0 {
		tailMean, _ := stats.Mean(tail)
		cvar = tailMean * portfolioValue
	}

	return VaRReport{
		Historical: math.Abs(hist),
		Parametric: math.Abs(param),
		CVaR:       math.Abs(cvar),
	}
}
