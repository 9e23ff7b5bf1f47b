// Package cmd implements the vocalog command line interface.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"vocalog/internal/cli"
	"vocalog/internal/config"
	"vocalog/internal/pipeline"
	"vocalog/internal/stats"
	"vocalog/internal/store"
)

var (
	flagUser     string
	flagStart    string
	flagEnd      string
	flagDevice   string
	flagLocation string
	flagBoard    string
	flagDataDir  string
	flagNoCache  bool
	flagQuiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "vocalog",
	Short: "AAC usage statistics CLI",
	Long:  "Analyze communication session logs: words, buttons, activity patterns, and more.",
	RunE:  runReport,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "", "User to report on")
	rootCmd.PersistentFlags().StringVar(&flagStart, "start", "", "Window start (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagEnd, "end", "", "Window end (YYYY-MM-DD)")
	rootCmd.PersistentFlags().StringVar(&flagDevice, "device", "", "Filter to one device id")
	rootCmd.PersistentFlags().StringVar(&flagLocation, "location", "", "Filter to one location cluster id")
	rootCmd.PersistentFlags().StringVar(&flagBoard, "board", "", "Filter to sessions touching one board id")
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (logs + index)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip weekly summaries, recompute live")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
}

// loadConfig resolves configuration with the --data-dir flag applied.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return cfg, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}
	return cfg, nil
}

// loadData is the shared data path used by all reporting commands: open
// the index, ingest any new or changed session logs, and return the
// ready store. The caller closes it.
func loadData() (config.Config, *store.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return cfg, nil, err
	}

	st, err := store.Open(config.IndexPath(cfg))
	if err != nil {
		return cfg, nil, err
	}

	progressFn := func(current, total int) {
		if flagQuiet {
			return
		}
		if current%100 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  Parsing [%d/%d]", current, total)
		}
	}

	res, err := pipeline.Sync(config.DataDir(cfg), st, progressFn)
	if err != nil {
		_ = st.Close()
		return cfg, nil, err
	}
	if !flagQuiet && res.TotalFiles > 0 {
		if res.Parsed == 0 {
			fmt.Fprintf(os.Stderr, "  %s sessions indexed (%d users)\n",
				cli.FormatNumber(int64(res.TotalFiles)), res.UserCount)
		} else {
			fmt.Fprintf(os.Stderr, "\r  %s unchanged + %d parsed (%d users)    \n",
				cli.FormatNumber(int64(res.Unchanged)), res.Parsed, res.UserCount)
		}
	}

	return cfg, st, nil
}

// resolveUser picks the report subject: the --user flag, then the
// configured default.
func resolveUser(cfg config.Config) (string, error) {
	if flagUser != "" {
		return flagUser, nil
	}
	if cfg.General.DefaultUser != "" {
		return cfg.General.DefaultUser, nil
	}
	return "", fmt.Errorf("no user given: pass --user or set default_user in %s", config.ConfigPath())
}

// reportOptions builds engine options from the window and filter flags.
// The configured default window applies when --start is absent.
func reportOptions(cfg config.Config) (stats.Options, error) {
	opts := stats.Options{
		DefaultMonths: cfg.Reports.DefaultMonths,
		DeviceID:      flagDevice,
		LocationID:    flagLocation,
		BoardID:       flagBoard,
	}
	if flagStart != "" {
		t, err := time.Parse("2006-01-02", flagStart)
		if err != nil {
			return opts, fmt.Errorf("bad --start %q: %w", flagStart, err)
		}
		opts.Start = t
	}
	if flagEnd != "" {
		t, err := time.Parse("2006-01-02", flagEnd)
		if err != nil {
			return opts, fmt.Errorf("bad --end %q: %w", flagEnd, err)
		}
		opts.End = t
	}
	return opts, nil
}

// assembler wires the report engine to the store. Weekly summaries are
// used unless --no-cache or configuration disables them.
func assembler(cfg config.Config, st *store.Store) *stats.Assembler {
	a := &stats.Assembler{Sessions: st, Clusters: st}
	if !flagNoCache && cfg.Reports.PreferCached {
		a.Summaries = st
	}
	return a
}

// windowLabel renders a rollup's resolved window for titles, date part only.
func windowLabel(startAt, endAt string) string {
	return dateOf(startAt) + " to " + dateOf(endAt)
}

func dateOf(stamp string) string {
	if len(stamp) >= 10 {
		return stamp[:10]
	}
	return stamp
}
