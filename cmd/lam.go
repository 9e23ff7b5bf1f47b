package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vocalog/internal/stats"
)

var flagLAMOut string

var lamCmd = &cobra.Command{
	Use:   "lam",
	Short: "Export sessions in the legacy LAM format",
	Long: "Render the window's sessions as Language Activity Monitoring (LAM) lines\n" +
		"for import into external analysis tools.",
	RunE: runLAM,
}

func init() {
	lamCmd.Flags().StringVarP(&flagLAMOut, "out", "o", "", "Write to file instead of stdout")
	rootCmd.AddCommand(lamCmd)
}

func runLAM(_ *cobra.Command, _ []string) error {
	cfg, st, err := loadData()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	userID, err := resolveUser(cfg)
	if err != nil {
		return err
	}
	opts, err := reportOptions(cfg)
	if err != nil {
		return err
	}

	sessions, _, err := assembler(cfg, st).WindowSessions(context.Background(), userID, opts)
	if err != nil {
		return err
	}

	out := stats.LAM(sessions)
	if flagLAMOut == "" {
		fmt.Print(out)
		return nil
	}
	if err := os.WriteFile(flagLAMOut, []byte(out), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", flagLAMOut, err)
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  wrote %d sessions to %s\n", len(sessions), flagLAMOut)
	}
	return nil
}
