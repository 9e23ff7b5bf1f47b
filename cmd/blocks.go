package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"vocalog/internal/cli"
	"vocalog/internal/stats"
)

var flagBlocksOffset int

var blocksCmd = &cobra.Command{
	Use:   "blocks",
	Short: "Weekly activity grid (15-minute blocks)",
	RunE:  runBlocks,
}

func init() {
	blocksCmd.Flags().IntVar(&flagBlocksOffset, "utc-offset", 0,
		"Display offset from UTC in minutes (overrides config)")
	rootCmd.AddCommand(blocksCmd)
}

func runBlocks(cmd *cobra.Command, _ []string) error {
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

	r, err := assembler(cfg, st).CachedDailyUse(context.Background(), userID, opts)
	if err != nil {
		return err
	}

	offset := cfg.Reports.UTCOffsetMinutes
	if cmd.Flags().Changed("utc-offset") {
		offset = flagBlocksOffset
	}

	blocks := r.TimeBlockCounts
	if offset != 0 {
		blocks = stats.OffsetBlocks(offset, blocks)
	}
	grid, maxCount := stats.WeekGrid(blocks)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("ACTIVITY  %s", windowLabel(r.StartAt, r.EndAt))))
	fmt.Println()
	if maxCount == 0 {
		fmt.Println("  No activity in window.")
		return nil
	}
	fmt.Print(cli.RenderWeekGrid(grid, maxCount))
	fmt.Println()
	fmt.Printf("  busiest block: %s events\n", cli.FormatNumber(int64(maxCount)))
	if offset != 0 {
		fmt.Printf("  shown at UTC%+dmin\n", offset)
	}

	return nil
}
