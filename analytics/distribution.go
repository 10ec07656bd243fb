package analytics

import (
	"math"

	"github.com/montanaflynn/stats"

	"tradelab/journal"
)

// Distribution summarizes the shape of the closed-trade P&L distribution.
type DistReport struct {
	Mean     float64
	Median   float64
	StdDev   float64
	Skew     float64
	Kurtosis float64 // excess kurtosis; 0 for a normal distribution
}

func Distribution(trades []journal.TradeRecord) DistReport {
	var pnls []float64
	for _, t := range trades {
		if t.PnL != nil {
			pnls = append(pnls, f(*t.PnL))
		}
	}
	if len(pnls) == 0 {
		return DistReport{}
	}

	var r DistReport
	r.Mean, _ = stats.Mean(pnls)
	r.Median, _ = stats.Median(pnls)
	r.StdDev, _ = stats.StandardDeviationSample(pnls)

	if len(pnls) > 2 && r.StdDev > 0 {
		r.Skew = moment(pnls, r.Mean, 3) / math.Pow(moment(pnls, r.Mean, 2), 1.5)
		r.Kurtosis = moment(pnls, r.Mean, 4)/math.Pow(moment(pnls, r.Mean, 2), 2) - 3
	}
	return r
}

func moment(xs []float64, mean float64, k int) float64 {
	var sum float64
	for _, x := range xs {
		sum += math.Pow(x-mean, float64(k))
	}
	return sum / float64(len(xs))
}
