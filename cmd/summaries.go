package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vocalog/internal/cli"
	"vocalog/internal/pipeline"
)

var summariesCmd = &cobra.Command{
	Use:   "summaries",
	Short: "Manage precomputed weekly summaries",
}

var summariesBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build weekly summaries from indexed sessions",
	Long: "Precompute per-week, per-day statistics so reports can be served\n" +
		"without re-reading session logs. Pass --user to rebuild one user.",
	RunE: runSummariesBuild,
}

func init() {
	summariesCmd.AddCommand(summariesBuildCmd)
	rootCmd.AddCommand(summariesCmd)
}

func runSummariesBuild(_ *cobra.Command, _ []string) error {
	_, st, err := loadData()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Building weekly summaries...\n")
	}
	res, err := pipeline.Summarize(context.Background(), st, flagUser)
	if err != nil {
		return err
	}

	fmt.Printf("  Built %s weeks for %s users.\n",
		cli.FormatNumber(int64(res.Weeks)), cli.FormatNumber(int64(res.Users)))
	return nil
}
