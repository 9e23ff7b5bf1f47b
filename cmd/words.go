package cmd

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"vocalog/internal/cli"
)

var flagWordsLimit int

var wordsCmd = &cobra.Command{
	Use:   "words",
	Short: "Word and button frequency rankings",
	RunE:  runWords,
}

func init() {
	wordsCmd.Flags().IntVarP(&flagWordsLimit, "limit", "n", 25, "Rows per ranking")
	rootCmd.AddCommand(wordsCmd)
}

func runWords(_ *cobra.Command, _ []string) error {
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
	fmt.Println(cli.RenderTitle(fmt.Sprintf("VOCABULARY  %s", windowLabel(r.StartAt, r.EndAt))))
	fmt.Println()

	wordRows := make([][]string, 0, flagWordsLimit)
	for i, w := range r.WordsByFrequency {
		if i >= flagWordsLimit {
			break
		}
		wordRows = append(wordRows, []string{
			fmt.Sprintf("%d", i+1),
			w.Text,
			cli.FormatNumber(int64(w.Count)),
		})
	}
	if len(wordRows) == 0 {
		fmt.Println("  No words in window.")
		return nil
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Words",
		Headers: []string{"#", "Word", "Count"},
		Rows:    wordRows,
	}))
	fmt.Println()

	buttonRows := make([][]string, 0, flagWordsLimit)
	for i, b := range r.ButtonsByFrequency {
		if i >= flagWordsLimit {
			break
		}
		buttonRows = append(buttonRows, []string{
			fmt.Sprintf("%d", i+1),
			b.Label,
			b.BoardID,
			cli.FormatNumber(int64(b.Count)),
		})
	}
	if len(buttonRows) > 0 {
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Buttons",
			Headers: []string{"#", "Button", "Board", "Count"},
			Rows:    buttonRows,
		}))
	}

	if len(r.PosCounts) > 0 {
		fmt.Println()
		posRows := make([][]string, 0, len(r.PosCounts))
		for _, tag := range sortedCountKeys(r.PosCounts) {
			posRows = append(posRows, []string{tag, cli.FormatNumber(int64(r.PosCounts[tag]))})
		}
		fmt.Print(cli.RenderTable(cli.Table{
			Title:   "Parts of speech",
			Headers: []string{"Type", "Count"},
			Rows:    posRows,
		}))
	}

	return nil
}

// sortedCountKeys orders map keys by count descending, then key.
func sortedCountKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
