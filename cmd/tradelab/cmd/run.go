package cmd

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"tradelab/config"
	"tradelab/engine"
	"tradelab/journal"
	"tradelab/market"
	"tradelab/orders"
	"tradelab/state"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scripted session from a config file",
	Long: `Run a scripted paper-trading session using settings from a configuration file.

The config file specifies the account, friction fractions, discipline goals,
journal backend, and an ordered list of session steps (trades, pending
orders, price ticks).

Example:
  tradelab run --config session.yaml --state out/session.json`,
	RunE: runRun,
}

var (
	runConfigPath string
	runStatePath  string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().StringVarP(&runStatePath, "state", "s", "", "write final session state to this JSON file")
	runCmd.MarkFlagRequired("config")
}

func openSink(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return nil, nil
	}
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fmt.Printf("Running session with config: %s\n", runConfigPath)
	fmt.Printf("  Account: %s (Cash: $%.2f)\n", cfg.Account.ID, cfg.Account.InitialCash)
	fmt.Printf("  Frictions: commission %.3f%%, slippage %.3f%%, spread %.3f%%\n\n",
		cfg.Frictions.CommissionRate*100, cfg.Frictions.SlippagePct*100, cfg.Frictions.SpreadPct*100)

	sink, err := openSink(cfg)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	if sink != nil {
		defer sink.Close()
	}

	ecfg := cfg.EngineConfig()
	ecfg.Sink = sink
	eng := engine.New(ecfg)
	book := orders.NewBook(eng, log.StandardLogger())
	ticks := market.NewTickStore()

	for i, step := range cfg.Session.Steps {
		if err := runStep(eng, book, ticks, step); err != nil {
			return fmt.Errorf("session step %d: %w", i, err)
		}
	}

	fmt.Printf("\nFinal cash: $%s\n", eng.Cash().StringFixed(2))
	fmt.Printf("Account value: $%s\n", eng.AccountValue(ticks).StringFixed(2))
	for _, p := range eng.Positions() {
		fmt.Printf("  %-24s %-5s qty %-6d avg $%s\n", p.Key, p.Side, p.Qty, p.AvgPrice.StringFixed(2))
	}

	if runStatePath != "" {
		doc := state.Capture(eng, book, cfg)
		if err := state.Save(doc, runStatePath); err != nil {
			return err
		}
		fmt.Printf("State written to %s\n", runStatePath)
	}
	return nil
}

func runStep(eng *engine.Engine, book *orders.Book, ticks *market.TickStore, step config.Step) error {
	switch {
	case step.Trade != nil:
		return runTradeStep(eng, step.Trade)
	case step.Order != nil:
		return runOrderStep(book, ticks, step.Order)
	case step.Tick != nil:
		q := market.Quote{
			Key:   step.Tick.Key,
			Price: decimal.NewFromFloat(step.Tick.Price),
			Time:  time.Now(),
		}
		ticks.Set(q)
		for _, res := range book.Tick(q) {
			if res.Err != nil {
				fmt.Printf("  order %s failed: %v\n", res.Order.ID, res.Err)
				continue
			}
			fmt.Printf("  %s fired: %d @ $%s\n", res.Order.Type, res.Order.Qty, res.Fill.Price.StringFixed(2))
		}
		return nil
	}
	return nil
}

func runTradeStep(eng *engine.Engine, t *config.TradeStep) error {
	key, err := market.ParseKey(t.Key)
	if err != nil {
		return err
	}
	action, err := engine.ParseAction(t.Action)
	if err != nil {
		return err
	}

	fill, err := eng.Execute(engine.Order{
		Key:    key,
		Action: action,
		Qty:    t.Qty,
		Price:  decimal.NewFromFloat(t.Price),
		Note:   t.Note,
		Tags:   t.Tags,
	})
	if err != nil {
		return err
	}

	pnl := ""
	if fill.PnL != nil {
		pnl = fmt.Sprintf(" | P&L $%s", fill.PnL.StringFixed(2))
	}
	fmt.Printf("%s %d x %s @ $%s | commission $%s%s\n",
		t.Action, t.Qty, t.Key, fill.Price.StringFixed(2), fill.Commission.StringFixed(2), pnl)
	return nil
}

func runOrderStep(book *orders.Book, ticks *market.TickStore, o *config.OrderStep) error {
	key, err := market.ParseKey(o.Key)
	if err != nil {
		return err
	}
	typ, err := orders.ParseType(o.Type)
	if err != nil {
		return err
	}

	if typ == orders.TrailingStop {
		current := decimal.NewFromFloat(o.Target)
		if last, ok := ticks.LastPrice(o.Key); ok {
			current = last
		}
		var pct, amt *decimal.Decimal
		if o.TrailPct != nil {
			d := decimal.NewFromFloat(*o.TrailPct)
			pct = &d
		}
		if o.TrailAmount != nil {
			d := decimal.NewFromFloat(*o.TrailAmount)
			amt = &d
		}
		ord, err := book.PlaceTrailingStop(key, o.Qty, current, pct, amt)
		if err != nil {
			return err
		}
		fmt.Printf("placed %s %d x %s, stop $%s\n", ord.Type, ord.Qty, o.Key, ord.Target.StringFixed(2))
		return nil
	}

	ord, err := book.Place(key, typ, decimal.NewFromFloat(o.Target), o.Qty)
	if err != nil {
		return err
	}
	fmt.Printf("placed %s %d x %s @ $%s\n", ord.Type, ord.Qty, o.Key, ord.Target.StringFixed(2))
	return nil
}
