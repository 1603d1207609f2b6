package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tracker/config"
	"github.com/rustyeddy/tracker/feed"
	"github.com/rustyeddy/tracker/journal"
	"github.com/rustyeddy/tracker/market"
	"github.com/rustyeddy/tracker/position"
	"github.com/rustyeddy/tracker/safety"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded tick feed through the tracking and safety engine",
	Long: `Replay drives the full engine from recorded data: a JSON position
snapshot and a tick CSV (time,instrument,bid,ask, optionally .xz
compressed). Every tick revalues the tracked positions, feeds the safety
controller and journals the equity curve.

Example:
  tracker replay -f tracker.yaml`,
	RunE: runReplay,
}

var replayConfigPath string

func init() {
	rootCmd.AddCommand(replayCmd)

	replayCmd.Flags().StringVarP(&replayConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	replayCmd.MarkFlagRequired("config")
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(replayConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	var j journal.Journal
	if cfg.Journal.Type == "csv" {
		j, err = journal.NewCSV(cfg.Journal.AlertsFile, cfg.Journal.EquityFile)
	} else {
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	}
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	settings, err := cfg.Safety.Settings()
	if err != nil {
		return err
	}
	ctrl, err := safety.NewController(settings, j, nil)
	if err != nil {
		return err
	}

	tracker := position.NewTracker(market.NewQuoteStore(), cfg.Account.Leverage)
	tracker.Subscribe(ctrl)

	if cfg.Feed.Snapshot != "" {
		raws, err := feed.LoadSnapshot(cfg.Feed.Snapshot)
		if err != nil {
			return err
		}
		tracker.ApplySnapshot(raws)
		fmt.Printf("Loaded %d open positions from %s\n", len(raws), cfg.Feed.Snapshot)
	}

	ticks, err := feed.OpenTicks(cfg.Feed.Ticks)
	if err != nil {
		return err
	}
	defer ticks.Close()

	var count int
	for {
		q, ok, err := ticks.Next()
		if err != nil {
			return fmt.Errorf("tick %d: %w", count+1, err)
		}
		if !ok {
			break
		}
		count++

		tracker.ApplyQuotes([]market.Quote{q})

		agg := tracker.Aggregate()
		equity := cfg.Account.Equity + agg.TotalNetPL

		ctrl.UpdateAccount(safety.AccountState{
			Equity:           equity,
			OpenPositions:    agg.OpenCount,
			ExposureNotional: tracker.NotionalExposure(),
		})
		ctrl.UpdateDailyPnL(agg.TotalNetPL)
		ctrl.UpdateDrawdown(equity)

		ts := q.Time
		if ts.IsZero() {
			ts = time.Now()
		}
		if err := j.RecordEquity(journal.EquitySnapshot{
			Time:        ts,
			Equity:      equity,
			TotalNetPL:  agg.TotalNetPL,
			TotalVolume: agg.TotalVolume,
			MarginUsed:  agg.TotalMargin,
			OpenCount:   agg.OpenCount,
		}); err != nil {
			return fmt.Errorf("record equity: %w", err)
		}
	}

	agg := tracker.Aggregate()
	fmt.Printf("\nReplayed %d ticks\n", count)
	fmt.Printf("  Open positions: %d\n", agg.OpenCount)
	fmt.Printf("  Total net P/L:  %.2f %s\n", agg.TotalNetPL, cfg.Account.Currency)
	fmt.Printf("  Margin used:    %.2f\n", agg.TotalMargin)
	fmt.Printf("  Win rate:       %.0f%%\n", agg.WinRate*100)
	if agg.ProfitFactor > 0 {
		fmt.Printf("  Profit factor:  %.2f\n", agg.ProfitFactor)
	}
	fmt.Printf("  Session state:  %s\n", ctrl.State())
	fmt.Printf("  Safety score:   %.0f/100\n", ctrl.SafetyScore())

	if alerts := ctrl.Alerts(); len(alerts) > 0 {
		fmt.Printf("\nAlerts:\n")
		for _, a := range alerts {
			fmt.Printf("  [%s] %s: %s\n", a.Severity, a.Type, a.Message)
		}
	}

	return nil
}
