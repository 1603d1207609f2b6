package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tracker/feed"
	"github.com/rustyeddy/tracker/market"
	"github.com/rustyeddy/tracker/position"
	"github.com/rustyeddy/tracker/riskscore"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute a composite risk score for a trading profile",
	Long: `Score reads a trading profile from JSON and prints its composite
risk score (1-10) with the full factor breakdown. A position snapshot
refines the leverage and concentration metrics with live data.

Example:
  tracker score --profile trader.json --snapshot positions.json`,
	RunE: runScore,
}

var (
	scoreProfilePath  string
	scoreSnapshotPath string
	scoreLeverage     float64
)

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreProfilePath, "profile", "", "path to profile JSON (required)")
	scoreCmd.Flags().StringVar(&scoreSnapshotPath, "snapshot", "", "optional position snapshot JSON")
	scoreCmd.Flags().Float64Var(&scoreLeverage, "leverage", 100, "account leverage for position valuation")
	scoreCmd.MarkFlagRequired("profile")
}

func runScore(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(scoreProfilePath)
	if err != nil {
		return fmt.Errorf("read profile: %w", err)
	}
	var profile riskscore.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return fmt.Errorf("parse profile: %w", err)
	}

	var positions []position.Position
	if scoreSnapshotPath != "" {
		raws, err := feed.LoadSnapshot(scoreSnapshotPath)
		if err != nil {
			return err
		}
		tracker := position.NewTracker(market.NewQuoteStore(), scoreLeverage)
		tracker.ApplySnapshot(raws)
		positions = tracker.All()
	}

	a := riskscore.Analyze(profile, positions)

	fmt.Printf("Risk score: %d/10\n\n", a.Score)
	fmt.Printf("%s\n\n", a.Summary)
	fmt.Printf("Factors:\n")
	fmt.Printf("  Drawdown:      %4.1f\n", a.Factors.Drawdown)
	fmt.Printf("  Volatility:    %4.1f\n", a.Factors.Volatility)
	fmt.Printf("  Concentration: %4.1f\n", a.Factors.Concentration)
	fmt.Printf("  Leverage:      %4.1f\n", a.Factors.Leverage)
	fmt.Printf("  Frequency:     %4.1f\n", a.Factors.Frequency)
	fmt.Printf("  Consistency:   %4.1f\n", a.Factors.Consistency)

	printList := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Printf("\n%s:\n", title)
		for _, s := range items {
			fmt.Printf("  - %s\n", s)
		}
	}
	printList("Strengths", a.Strengths)
	printList("Weaknesses", a.Weaknesses)
	printList("Recommendations", a.Recommendations)

	return nil
}
