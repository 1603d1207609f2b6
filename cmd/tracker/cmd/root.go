package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Real-time FX position tracking, P&L aggregation and safety control",
	Long: `Tracker is a position tracking and risk engine written in Go.

It provides tools for:
  - Tracking open positions against a live or recorded price feed
  - Portfolio P&L aggregation (win rate, profit factor, margin used)
  - Composite risk scoring of trading profiles
  - Safety-control validation with loss limits, leverage caps and
    emergency stop
  - Audit journaling of alerts, approvals and equity curves`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}
