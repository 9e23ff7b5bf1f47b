package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"vocalog/internal/cli"
	"vocalog/internal/config"
	"vocalog/internal/source"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)

	// Load existing config or defaults
	cfg, _ := config.Load()
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}

	// Count session logs already in place
	files, _ := source.ScanDir(config.DataDir(cfg))
	userCount := source.CountUsers(files)

	fmt.Println()
	fmt.Println("  Welcome to vocalog!")
	fmt.Println()
	if len(files) > 0 {
		fmt.Printf("  Found %s session logs in %s (%d users)\n\n",
			cli.FormatNumber(int64(len(files))), config.DataDir(cfg), userCount)
	}

	// 1. Data directory
	fmt.Println("  1. Data directory")
	fmt.Println("     Where session logs live and the index is kept.")
	fmt.Printf("     Current: %s\n", config.DataDir(cfg))
	fmt.Print("     > ")
	dataDir, _ := reader.ReadString('\n')
	dataDir = strings.TrimSpace(dataDir)
	if dataDir != "" {
		cfg.General.DataDir = dataDir
	}
	fmt.Println()

	// 2. Default user
	fmt.Println("  2. Default user")
	fmt.Println("     Reports run against this user when --user is not given.")
	if cfg.General.DefaultUser != "" {
		fmt.Printf("     Current: %s\n", cfg.General.DefaultUser)
	}
	fmt.Print("     > ")
	user, _ := reader.ReadString('\n')
	user = strings.TrimSpace(user)
	if user != "" {
		cfg.General.DefaultUser = user
	}
	fmt.Println()

	// 3. Default report window
	fmt.Println("  3. Default report window")
	fmt.Println("     (1) 1 month")
	fmt.Println("     (2) 2 months [default]")
	fmt.Println("     (3) 6 months")
	fmt.Print("     > ")
	choice, _ := reader.ReadString('\n')
	choice = strings.TrimSpace(choice)
	switch choice {
	case "1":
		cfg.Reports.DefaultMonths = 1
	case "3":
		cfg.Reports.DefaultMonths = 6
	default:
		cfg.Reports.DefaultMonths = 2
	}
	fmt.Println()

	// 4. Theme
	fmt.Println("  4. Color theme")
	fmt.Println("     (1) Flexoki Dark [default]")
	fmt.Println("     (2) Catppuccin Mocha")
	fmt.Println("     (3) Tokyo Night")
	fmt.Println("     (4) Terminal (16 colors)")
	fmt.Print("     > ")
	choice, _ = reader.ReadString('\n')
	choice = strings.TrimSpace(choice)
	switch choice {
	case "2":
		cfg.Appearance.Theme = "catppuccin-mocha"
	case "3":
		cfg.Appearance.Theme = "tokyo-night"
	case "4":
		cfg.Appearance.Theme = "terminal"
	default:
		cfg.Appearance.Theme = "flexoki-dark"
	}
	fmt.Println()

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `vocalog` for a report or `vocalog tui` for the dashboard.")
	fmt.Println()
	return nil
}
