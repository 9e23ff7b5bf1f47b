package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"vocalog/internal/cli"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Index new and changed session logs",
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(_ *cobra.Command, _ []string) error {
	_, st, err := loadData()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	n, err := st.SessionCount()
	if err != nil {
		return err
	}
	fmt.Printf("  Index holds %s sessions.\n", cli.FormatNumber(int64(n)))
	return nil
}
