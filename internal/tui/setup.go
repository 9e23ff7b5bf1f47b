package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"vocalog/internal/config"
	"vocalog/internal/tui/theme"
)

// setupValues holds the first-run wizard answers until the form completes.
type setupValues struct {
	DataDir     string
	DefaultUser string
	Months      int
	Theme       string
}

// newSetupForm builds the first-run setup form. sessionCount and dataDir
// are shown so the user can confirm their logs were found.
func newSetupForm(sessionCount int, dataDir string, vals *setupValues) *huh.Form {
	vals.DataDir = dataDir
	vals.Months = 2
	vals.Theme = theme.Active.Name

	found := "No session logs found yet."
	if sessionCount > 0 {
		found = fmt.Sprintf("Found %d sessions in %s.", sessionCount, dataDir)
	}

	themeOpts := make([]huh.Option[string], len(theme.All))
	for i, t := range theme.All {
		themeOpts[i] = huh.NewOption(t.Name, t.Name)
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to vocalog!").
				Description(found+"\nLet's set up a few things."),

			huh.NewInput().
				Title("Data directory").
				Description("Where session logs live and the index is kept.").
				Placeholder(dataDir).
				Value(&vals.DataDir),

			huh.NewInput().
				Title("Default user").
				Description("Reports run against this user when none is given.").
				Value(&vals.DefaultUser),

			huh.NewSelect[int]().
				Title("Default report window").
				Options(
					huh.NewOption("1 month", 1),
					huh.NewOption("2 months", 2),
					huh.NewOption("6 months", 6),
				).
				Value(&vals.Months),

			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&vals.Theme),
		),
	)
}

// saveSetupConfig applies the completed wizard answers to the config
// file and the running app.
func (a *App) saveSetupConfig() error {
	cfg, _ := config.Load()

	if dir := strings.TrimSpace(a.setupVals.DataDir); dir != "" {
		cfg.General.DataDir = dir
	}
	if user := strings.TrimSpace(a.setupVals.DefaultUser); user != "" {
		cfg.General.DefaultUser = user
		if a.userID == "" {
			a.userID = user
		}
	}
	if a.setupVals.Months > 0 {
		cfg.Reports.DefaultMonths = a.setupVals.Months
		a.opts.DefaultMonths = a.setupVals.Months
	}
	if a.setupVals.Theme != "" {
		cfg.Appearance.Theme = a.setupVals.Theme
		theme.SetActive(a.setupVals.Theme)
	}

	a.cfg = cfg
	return config.Save(cfg)
}
