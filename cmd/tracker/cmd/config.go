package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tracker/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate a config file or write the default configuration",
	RunE:  runConfig,
}

var (
	configPath string
	configInit string
)

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().StringVarP(&configPath, "file", "f", "", "config file to validate")
	configCmd.Flags().StringVar(&configInit, "init", "", "write the default config to this path")
}

func runConfig(cmd *cobra.Command, args []string) error {
	switch {
	case configInit != "":
		if err := config.Default().SaveToFile(configInit); err != nil {
			return err
		}
		fmt.Printf("Wrote default config to %s\n", configInit)
		return nil

	case configPath != "":
		cfg, err := config.LoadFromFile(configPath)
		if err != nil {
			return err
		}
		fmt.Printf("Config %s is valid\n", configPath)
		fmt.Printf("  Account:  %s (%.2f %s, leverage %.0f)\n",
			cfg.Account.ID, cfg.Account.Equity, cfg.Account.Currency, cfg.Account.Leverage)
		fmt.Printf("  Journal:  %s\n", cfg.Journal.Type)
		fmt.Printf("  Safety:   max positions %d, max leverage %.0f\n",
			cfg.Safety.MaxOpenPositions, cfg.Safety.MaxLeverage)
		return nil

	default:
		return fmt.Errorf("either --file or --init is required")
	}
}
