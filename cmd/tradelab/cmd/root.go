package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradelab",
	Short: "A paper-trading simulator for stocks and options",
	Long: `Tradelab is a paper-trading simulator written in Go.

It provides tools for:
  - Executing simulated trades with realistic frictions (commission, slippage, spread)
  - Long, short, and option positions with weighted-average cost accounting
  - Conditional orders: limit, stop-loss, take-profit, trailing stop, OCO brackets
  - Trade journaling and equity curves (in-memory, CSV, or SQLite)
  - Performance and risk analytics (win rate, Sharpe, drawdown, VaR, Kelly)
  - Session persistence to versioned JSON state files`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
