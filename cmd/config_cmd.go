package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vocalog/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Data directory: %s\n", config.DataDir(cfg))
	if cfg.General.DefaultUser != "" {
		fmt.Printf("    Default user:   %s\n", cfg.General.DefaultUser)
	} else {
		fmt.Println("    Default user:   not set")
	}
	fmt.Println()

	fmt.Println("  [Reports]")
	fmt.Printf("    Default window:    %d months\n", cfg.Reports.DefaultMonths)
	fmt.Printf("    UTC offset:        %d minutes\n", cfg.Reports.UTCOffsetMinutes)
	fmt.Printf("    Weekly summaries:  %v\n", cfg.Reports.PreferCached)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Printf("    Index: %s\n", config.IndexPath(cfg))
	fmt.Println()

	fmt.Println("  Run `vocalog setup` to reconfigure.")
	return nil
}
