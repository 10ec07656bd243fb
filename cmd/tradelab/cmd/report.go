package cmd

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"tradelab/analytics"
	"tradelab/risk"
	"tradelab/state"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print performance analytics from a saved session state",
	Long: `Load a session state file and print trade history statistics,
risk ratios, and value-at-risk figures.

Example:
  tradelab report --state out/session.json`,
	RunE: runReport,
}

var (
	reportStatePath  string
	reportConfidence float64
)

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportStatePath, "state", "s", "", "path to session state JSON (required)")
	reportCmd.Flags().Float64Var(&reportConfidence, "confidence", 0.95, "VaR confidence level")
	reportCmd.MarkFlagRequired("state")
}

func runReport(cmd *cobra.Command, args []string) error {
	doc, err := state.Load(reportStatePath)
	if err != nil {
		return err
	}

	s := analytics.Compute(doc.History, doc.EquityCurve, doc.InitialCash)
	v := analytics.VaR(doc.EquityCurve, reportConfidence)
	d := analytics.Distribution(doc.History)

	goals := risk.Goals{MonthlyTargetPnL: decimal.NewFromFloat(doc.Goals.MonthlyTargetPnL)}
	monthPnL, monthPct := goals.MonthlyProgress(doc.History, time.Now())

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})

	rows := [][]string{
		{"Total trades", strconv.Itoa(s.TotalTrades)},
		{"Closed trades", strconv.Itoa(s.ClosedTrades)},
		{"Win rate", pct(s.WinRate)},
		{"Total P&L", usd(s.TotalPnL)},
		{"Avg win / loss", usd(s.AvgWin) + " / " + usd(s.AvgLoss)},
		{"Best / worst", usd(s.BestTrade) + " / " + usd(s.WorstTrade)},
		{"Profit factor", num(s.ProfitFactor)},
		{"Expectancy", usd(s.Expectancy)},
		{"Kelly", pct(s.KellyPct)},
		{"Max consecutive wins", strconv.Itoa(s.ConsecutiveWins)},
		{"Max consecutive losses", strconv.Itoa(s.ConsecutiveLosses)},
		{"Long / short P&L", usd(s.LongPnL) + " / " + usd(s.ShortPnL)},
		{"Max drawdown", pct(s.MaxDrawdown)},
		{"Sharpe", num(s.Sharpe)},
		{"Sortino", num(s.Sortino)},
		{"Calmar", num(s.Calmar)},
		{"Commissions paid", usd(s.TotalCommissions)},
		{"Slippage paid", usd(s.TotalSlippage)},
		{fmt.Sprintf("VaR %d%% (hist)", int(reportConfidence*100)), usd(v.Historical)},
		{fmt.Sprintf("VaR %d%% (param)", int(reportConfidence*100)), usd(v.Parametric)},
		{"CVaR", usd(v.CVaR)},
		{"P&L mean / median", usd(d.Mean) + " / " + usd(d.Median)},
		{"P&L std dev", usd(d.StdDev)},
		{"P&L skew / kurtosis", num(d.Skew) + " / " + num(d.Kurtosis)},
		{"Month P&L vs target", fmt.Sprintf("%s (%s)", usd(f(monthPnL)), pct(monthPct))},
	}
	for _, r := range rows {
		table.Append(r)
	}
	table.Render()
	return nil
}

func usd(v float64) string { return fmt.Sprintf("$%.2f", v) }
func pct(v float64) string { return fmt.Sprintf("%.2f%%", v) }
func num(v float64) string { return fmt.Sprintf("%.2f", v) }

func f(d decimal.Decimal) float64 {
	v, _ := d.Float64()
	return v
}
