package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"vocalog/internal/cli"
	"vocalog/internal/model"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Daily usage report",
	RunE:  runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)
}

func runReport(_ *cobra.Command, _ []string) error {
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

	fmt.Println()
	title := fmt.Sprintf("USAGE  %s", windowLabel(r.StartAt, r.EndAt))
	if r.Cached {
		title += "  (cached)"
	}
	fmt.Println(cli.RenderTitle(title))
	fmt.Println()

	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Totals",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Sessions", cli.FormatNumber(int64(r.SessionCount))},
			{"Total time", cli.FormatDuration(int64(r.SessionSecondsTotal))},
			{"Utterances", cli.FormatNumber(int64(r.UtteranceCount))},
			{"Words", cli.FormatNumber(int64(r.TotalWords))},
			{"Unique words", cli.FormatNumber(int64(r.UniqueWords))},
			{"Buttons", cli.FormatNumber(int64(r.TotalButtons))},
			{"Unique buttons", cli.FormatNumber(int64(r.UniqueButtons))},
			{"---"},
			{"Words/utterance", cli.FormatRate(r.WordsPerUtterance)},
			{"Words/minute", cli.FormatRate(r.WordsPerMinute)},
			{"Buttons/minute", cli.FormatRate(r.ButtonsPerMinute)},
			{"Utterances/minute", cli.FormatRate(r.UtterancesPerMinute)},
		},
	}))
	fmt.Println()

	days := sortedDayKeys(r.Days)
	if len(days) == 0 {
		fmt.Println("  No days in window.")
		return nil
	}

	rows := make([][]string, 0, len(days))
	for _, key := range days {
		d := r.Days[key]
		rows = append(rows, []string{
			key,
			weekdayOf(key),
			cli.FormatNumber(int64(d.SessionCount)),
			cli.FormatNumber(int64(d.TotalWords)),
			cli.FormatNumber(int64(d.TotalButtons)),
			cli.FormatDuration(int64(d.SessionSecondsTotal)),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "By day",
		Headers: []string{"Date", "Day", "Sessions", "Words", "Buttons", "Time"},
		Rows:    rows,
	}))

	return nil
}

func sortedDayKeys(days map[string]*model.Rollup) []string {
	keys := make([]string, 0, len(days))
	for k := range days {
		keys = append(keys, k)
	}
	// date keys sort lexicographically
	sort.Strings(keys)
	return keys
}

func weekdayOf(dateKey string) string {
	t, err := time.Parse("2006-01-02", dateKey)
	if err != nil {
		return "???"
	}
	return cli.FormatDayOfWeek(int(t.Weekday()))
}
