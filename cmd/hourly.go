package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vocalog/internal/cli"
)

var hourlyCmd = &cobra.Command{
	Use:   "hourly",
	Short: "Time-of-day usage report",
	RunE:  runHourly,
}

func init() {
	rootCmd.AddCommand(hourlyCmd)
}

func runHourly(_ *cobra.Command, _ []string) error {
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

	r, err := assembler(cfg, st).HourlyUse(context.Background(), userID, opts)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("HOURLY USAGE  %s", windowLabel(r.StartAt, r.EndAt))))
	fmt.Println()

	maxWords := 0
	peak := 0
	for h := 0; h < 24; h++ {
		if w := r.Hours[h].TotalWords; w > maxWords {
			maxWords = w
			peak = h
		}
	}

	for h := 0; h < 24; h++ {
		fmt.Println(cli.RenderHorizontalBar(
			cli.FormatHour(h), float64(r.Hours[h].TotalWords), float64(maxWords), 40))
	}

	if maxWords > 0 {
		fmt.Printf("\n  Peak: %s (%s words)\n\n",
			cli.FormatHour(peak), cli.FormatNumber(int64(maxWords)))
	}

	return nil
}
