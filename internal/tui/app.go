// Package tui provides the interactive Bubble Tea dashboard for vocalog.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"vocalog/internal/config"
	"vocalog/internal/model"
	"vocalog/internal/pipeline"
	"vocalog/internal/stats"
	"vocalog/internal/store"
	"vocalog/internal/tui/theme"
)

// dataLoadedMsg is sent when the sync and report pipeline finishes.
type dataLoadedMsg struct {
	daily   *model.Rollup
	hourly  *model.Rollup
	grid    [7][96]int
	gridMax int
	devices []model.Device
	logs    int
	loadErr error

	loadTime time.Duration
}

// progressMsg reports log parsing progress.
type progressMsg struct {
	current int
	total   int
}

// App is the root Bubble Tea model.
type App struct {
	cfg      config.Config
	userID   string
	opts     stats.Options
	useCache bool

	// Report data for the current window
	daily   *model.Rollup
	hourly  *model.Rollup
	grid    [7][96]int
	gridMax int
	devices []model.Device
	logs    int
	loadErr error

	loaded   bool
	loadTime time.Duration

	refreshing bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals setupValues
	needSetup bool

	// Loading — channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg // progress + completion messages from loader goroutine
}

const (
	minTerminalWidth = 70
	maxContentWidth  = 160
	minContentHeight = 5
)

// NewApp creates a new TUI app model.
func NewApp(cfg config.Config, userID string, opts stats.Options, useCache bool) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		cfg:       cfg,
		userID:    userID,
		opts:      opts,
		useCache:  useCache,
		needSetup: !config.Exists(),
		spinner:   sp,
		loadSub:   make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.cfg, a.userID, a.opts, a.useCache, a.loadSub),
		a.spinner.Tick,
	)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Forward to setup form if active
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		if msg.Button == tea.MouseButtonLeft && msg.Y <= 1 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return a, tea.Quit
		}

		if !a.loaded {
			return a, nil
		}

		// First-run setup wizard intercepts all keys
		if a.needSetup && a.setupForm != nil {
			return a.updateSetupForm(msg)
		}

		if key == "?" {
			a.showHelp = !a.showHelp
			return a, nil
		}
		if a.showHelp {
			a.showHelp = false
			return a, nil
		}

		if key == "q" {
			return a, tea.Quit
		}

		// Manual refresh
		if key == "r" && !a.refreshing {
			a.refreshing = true
			a.progress = 0
			a.progressMax = 0
			return a, loadDataCmd(a.cfg, a.userID, a.opts, a.useCache, a.loadSub)
		}

		// Tab navigation
		switch key {
		case "o":
			a.activeTab = 0
		case "d":
			a.activeTab = 1
		case "h":
			a.activeTab = 2
		case "w":
			a.activeTab = 3
		case "p":
			a.activeTab = 4
		case "left":
			a.activeTab = (a.activeTab - 1 + len(tabs)) % len(tabs)
		case "right":
			a.activeTab = (a.activeTab + 1) % len(tabs)
		}
		return a, nil

	case dataLoadedMsg:
		a.daily = msg.daily
		a.hourly = msg.hourly
		a.grid = msg.grid
		a.gridMax = msg.gridMax
		a.devices = msg.devices
		a.logs = msg.logs
		a.loadErr = msg.loadErr
		a.loadTime = msg.loadTime
		a.loaded = true
		a.refreshing = false

		// Activate first-run setup after data loads
		if a.needSetup {
			a.setupForm = newSetupForm(a.logs, config.DataDir(a.cfg), &a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case progressMsg:
		a.progress = msg.current
		a.progressMax = msg.total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded || a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	if a.setupForm.State == huh.StateCompleted {
		_ = a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		// Reload against the (possibly new) user and data dir
		a.loaded = false
		return a, loadDataCmd(a.cfg, a.userID, a.opts, a.useCache, a.loadSub)
	}

	if a.setupForm.State == huh.StateAborted {
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

// loadDataCmd runs the full data path in a background goroutine: sync
// new logs into the index, then assemble the window reports. It streams
// progressMsg updates and a final dataLoadedMsg through sub.
func loadDataCmd(cfg config.Config, userID string, opts stats.Options, useCache bool, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			done := func(m dataLoadedMsg) {
				m.loadTime = time.Since(start)
				sub <- m
			}

			st, err := store.Open(config.IndexPath(cfg))
			if err != nil {
				done(dataLoadedMsg{loadErr: err})
				return
			}
			defer func() { _ = st.Close() }()

			// Non-blocking send so parse workers aren't stalled. A
			// dropped update is caught up by the next one.
			progressFn := func(current, total int) {
				select {
				case sub <- progressMsg{current: current, total: total}:
				default:
				}
			}

			res, err := pipeline.Sync(config.DataDir(cfg), st, progressFn)
			if err != nil {
				done(dataLoadedMsg{loadErr: err})
				return
			}

			if userID == "" {
				// No subject yet; the setup wizard takes it from here.
				done(dataLoadedMsg{logs: res.TotalFiles})
				return
			}

			ctx := context.Background()
			asm := &stats.Assembler{Sessions: st, Clusters: st}
			if useCache && cfg.Reports.PreferCached {
				asm.Summaries = st
			}

			daily, err := asm.CachedDailyUse(ctx, userID, opts)
			if err != nil {
				done(dataLoadedMsg{logs: res.TotalFiles, loadErr: err})
				return
			}
			hourly, err := asm.HourlyUse(ctx, userID, opts)
			if err != nil {
				done(dataLoadedMsg{logs: res.TotalFiles, loadErr: err})
				return
			}

			blocks := stats.OffsetBlocks(cfg.Reports.UTCOffsetMinutes, daily.TimeBlockCounts)
			grid, gridMax := stats.WeekGrid(blocks)

			devices, _ := st.ListDevices(ctx, userID)

			done(dataLoadedMsg{
				daily:   daily,
				hourly:  hourly,
				grid:    grid,
				gridMax: gridMax,
				devices: devices,
				logs:    res.TotalFiles,
			})
		}()

		// Block until the first message (either progressMsg or dataLoadedMsg)
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}
