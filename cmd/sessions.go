package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vocalog/internal/cli"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions in the window",
	RunE:  runSessions,
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(_ *cobra.Command, _ []string) error {
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

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SESSIONS  %s", userID)))
	fmt.Println()
	if len(sessions) == 0 {
		fmt.Println("  No sessions in window.")
		return nil
	}

	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		device := ""
		if s.Device != nil {
			device = s.Device.Name
			if device == "" {
				device = s.Device.ID
			}
		}
		var secs int64
		words := 0
		if s.Counts != nil {
			secs = int64(s.Counts.SessionSeconds)
			for _, n := range s.Counts.WordCounts {
				words += n
			}
		}
		rows = append(rows, []string{
			s.ID,
			s.StartedAt.UTC().Format("2006-01-02 15:04"),
			cli.FormatDuration(secs),
			cli.FormatNumber(int64(words)),
			device,
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Session", "Started", "Time", "Words", "Device"},
		Rows:    rows,
	}))

	return nil
}
