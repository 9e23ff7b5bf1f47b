package tui

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"vocalog/internal/cli"
	"vocalog/internal/model"
	"vocalog/internal/stats"
	"vocalog/internal/tui/theme"
)

// tabs defines the dashboard tabs and their jump keys.
var tabs = []struct {
	name string
	key  string
}{
	{"Overview", "o"},
	{"Days", "d"},
	{"Hours", "h"},
	{"Words", "w"},
	{"Places", "p"},
}

func (a App) contentWidth() int {
	cw := a.width
	if cw > maxContentWidth {
		cw = maxContentWidth
	}
	return cw
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	// First-run setup wizard
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := a.height
	if h < 5 {
		h = 5
	}
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  vocalog needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)

	logoStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	subtitleStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	countStyle := lipgloss.NewStyle().
		Foreground(t.TextPrimary).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ vocalog"))
	b.WriteString(subtitleStyle.Render(" · AAC Usage Statistics"))
	b.WriteString("\n\n")

	b.WriteString(a.spinner.View())
	if a.progressMax > 0 {
		b.WriteString(subtitleStyle.Render(" Parsing session logs  "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(subtitleStyle.Render(" Discovering session logs..."))
	}

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)

	titleStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.Surface).
		Bold(true)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Cyan).
		Background(t.Surface).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface)

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")

	bindings := []struct{ key, desc string }{
		{"o d h w p", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"r", "Refresh data"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(descStyle.Render("Press any key to close"))

	card := cardStyle.Render(b.String())
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := a.renderTabBar()
	statusBar := a.renderStatusBar()

	headerH := lipgloss.Height(header)
	statusH := lipgloss.Height(statusBar)
	contentH := h - headerH - statusH
	if contentH < minContentHeight {
		contentH = minContentHeight
	}

	var content string
	switch {
	case a.loadErr != nil:
		content = a.renderError()
	case a.daily == nil:
		content = "\n  No data."
	default:
		switch a.activeTab {
		case 0:
			content = a.renderOverviewTab()
		case 1:
			content = a.renderDaysTab(cw)
		case 2:
			content = a.renderHoursTab(cw)
		case 3:
			content = a.renderWordsTab(contentH)
		case 4:
			content = a.renderPlacesTab()
		}
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderError() string {
	t := theme.Active
	errStyle := lipgloss.NewStyle().Foreground(t.Red)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted)

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(errStyle.Render(fmt.Sprintf("  %s", a.loadErr)))
	b.WriteString("\n\n")
	switch {
	case errors.Is(a.loadErr, stats.ErrUserNotFound):
		b.WriteString(hintStyle.Render("  No sessions indexed for this user. Check --user and the data directory."))
	case errors.Is(a.loadErr, stats.ErrWindowTooLarge):
		b.WriteString(hintStyle.Render("  Narrow the window: reports cover at most 180 days."))
	}
	return b.String()
}

// ─── Header and status bar ──────────────────────────────────────

func (a App) renderTabBar() string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	parts := make([]string, len(tabs))
	for i, tab := range tabs {
		if i == a.activeTab {
			parts[i] = activeStyle.Render(tab.name)
			continue
		}
		// Highlight the jump key, which is always the first letter
		parts[i] = dimStyle.Render("[") + keyStyle.Render(tab.name[:1]) + dimStyle.Render("]") +
			inactiveStyle.Render(tab.name[1:])
	}

	bar := " " + strings.Join(parts, "  ")

	subject := inactiveStyle.Render(" user ") + activeStyle.Render(a.userID)
	if a.daily != nil && a.daily.Cached {
		subject += dimStyle.Render("  cached")
	}

	return bar + "\n" + subject
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow renderTabBar's layout: one leading space, tabs joined
// by two spaces, inactive tabs two cells wider for the key brackets.
func (a App) tabAtX(x int) int {
	pos := 1
	for i, tab := range tabs {
		tabW := len(tab.name)
		if i != a.activeTab {
			tabW += 2
		}
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + 2
	}
	return -1
}

func (a App) renderStatusBar() string {
	t := theme.Active
	style := lipgloss.NewStyle().Foreground(t.TextMuted).Width(a.width)

	left := " [?]help  [r]efresh  [q]uit"
	right := fmt.Sprintf("%s logs · %.1fs ", cli.FormatNumber(int64(a.logs)), a.loadTime.Seconds())

	padding := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 0 {
		padding = 0
	}
	return style.Render(left + strings.Repeat(" ", padding) + right)
}

// ─── Tabs ───────────────────────────────────────────────────────

func (a App) renderOverviewTab() string {
	t := theme.Active
	r := a.daily

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent)

	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s\n",
			labelStyle.Render(fmt.Sprintf("%-22s", label)),
			valueStyle.Render(value))
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(accentStyle.Render(fmt.Sprintf("  %s to %s", dateOnly(r.StartAt), dateOnly(r.EndAt))))
	b.WriteString("\n\n")

	b.WriteString(row("Sessions", cli.FormatNumber(int64(r.SessionCount))))
	b.WriteString(row("Time in app", cli.FormatDuration(int64(r.SessionSecondsTotal))))
	b.WriteString(row("Utterances", cli.FormatNumber(int64(r.UtteranceCount))))
	b.WriteString(row("Words spoken", cli.FormatNumber(int64(r.TotalWords))))
	b.WriteString(row("Unique words", cli.FormatNumber(int64(r.UniqueWords))))
	b.WriteString(row("Buttons pressed", cli.FormatNumber(int64(r.TotalButtons))))
	b.WriteString("\n")
	b.WriteString(row("Words / utterance", cli.FormatRate(r.WordsPerUtterance)))
	b.WriteString(row("Buttons / utterance", cli.FormatRate(r.ButtonsPerUtterance)))
	b.WriteString(row("Words / minute", cli.FormatRate(r.WordsPerMinute)))
	b.WriteString(row("Utterances / minute", cli.FormatRate(r.UtterancesPerMinute)))

	if len(r.WordsByFrequency) > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("  Top words: "))
		top := r.WordsByFrequency
		if len(top) > 8 {
			top = top[:8]
		}
		words := make([]string, len(top))
		for i, wc := range top {
			words[i] = fmt.Sprintf("%s (%d)", wc.Text, wc.Count)
		}
		b.WriteString(valueStyle.Render(strings.Join(words, ", ")))
		b.WriteString("\n")
	}

	return b.String()
}

func (a App) renderDaysTab(cw int) string {
	t := theme.Active
	r := a.daily

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	keys := make([]string, 0, len(r.Days))
	maxWords := 0
	for k, day := range r.Days {
		keys = append(keys, k)
		if day.TotalWords > maxWords {
			maxWords = day.TotalWords
		}
	}
	sort.Strings(keys)

	barW := cw - 30
	if barW > 60 {
		barW = 60
	}
	if barW < 10 {
		barW = 10
	}

	var b strings.Builder
	b.WriteString("\n")
	for _, k := range keys {
		day := r.Days[k]
		label := k
		if dt, err := time.Parse("2006-01-02", k); err == nil {
			label = dt.Format("Jan 02 Mon")
		}

		barLen := 0
		if maxWords > 0 {
			barLen = day.TotalWords * barW / maxWords
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			labelStyle.Render(fmt.Sprintf("%-12s", label)),
			barStyle.Render(strings.Repeat("█", barLen)),
			valueStyle.Render(cli.FormatNumber(int64(day.TotalWords))))
	}
	return b.String()
}

func (a App) renderHoursTab(cw int) string {
	t := theme.Active
	r := a.hourly

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	barStyle := lipgloss.NewStyle().Foreground(t.Accent)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	maxWords := 0
	for _, hour := range r.Hours {
		if hour.TotalWords > maxWords {
			maxWords = hour.TotalWords
		}
	}

	barW := cw - 24
	if barW > 50 {
		barW = 50
	}
	if barW < 10 {
		barW = 10
	}

	var b strings.Builder
	b.WriteString("\n")
	for h := 0; h < 24; h++ {
		hour, ok := r.Hours[h]
		if !ok {
			continue
		}
		barLen := 0
		if maxWords > 0 {
			barLen = hour.TotalWords * barW / maxWords
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			labelStyle.Render(fmt.Sprintf("%-5s", cli.FormatHour(h))),
			barStyle.Render(strings.Repeat("█", barLen)),
			valueStyle.Render(cli.FormatNumber(int64(hour.TotalWords))))
	}

	if a.gridMax > 0 {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("  Weekly activity (15-minute blocks)"))
		b.WriteString("\n\n")
		b.WriteString(cli.RenderWeekGrid(a.grid, a.gridMax))
	}
	return b.String()
}

func (a App) renderWordsTab(contentH int) string {
	t := theme.Active
	r := a.daily

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	limit := contentH/2 - 3
	if limit < 5 {
		limit = 5
	}

	var left strings.Builder
	left.WriteString(headerStyle.Render("  Words"))
	left.WriteString("\n\n")
	for i, wc := range r.WordsByFrequency {
		if i >= limit {
			break
		}
		fmt.Fprintf(&left, "  %s %s\n",
			valueStyle.Render(fmt.Sprintf("%-20s", truncStr(wc.Text, 20))),
			labelStyle.Render(cli.FormatNumber(int64(wc.Count))))
	}

	var right strings.Builder
	right.WriteString(headerStyle.Render("  Buttons"))
	right.WriteString("\n\n")
	for i, bc := range r.ButtonsByFrequency {
		if i >= limit {
			break
		}
		fmt.Fprintf(&right, "  %s %s\n",
			valueStyle.Render(fmt.Sprintf("%-20s", truncStr(bc.Label, 20))),
			labelStyle.Render(cli.FormatNumber(int64(bc.Count))))
	}

	return "\n" + lipgloss.JoinHorizontal(lipgloss.Top, left.String(), right.String())
}

func (a App) renderPlacesTab() string {
	t := theme.Active
	r := a.daily

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary)

	deviceNames := make(map[string]string, len(a.devices))
	for _, d := range a.devices {
		deviceNames[d.ID] = d.Name
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(headerStyle.Render("  Devices"))
	b.WriteString("\n\n")
	for _, du := range sortedDevices(r) {
		name := du.Name
		if n, ok := deviceNames[du.ID]; ok && n != "" {
			name = n
		}
		if name == "" {
			name = du.ID
		}
		fmt.Fprintf(&b, "  %s %s\n",
			valueStyle.Render(fmt.Sprintf("%-28s", truncStr(name, 28))),
			labelStyle.Render(fmt.Sprintf("%s sessions", cli.FormatNumber(int64(du.SessionCount)))))
	}

	b.WriteString("\n")
	b.WriteString(headerStyle.Render("  Places"))
	b.WriteString("\n\n")
	for _, lu := range sortedLocations(r) {
		where := lu.ID
		switch {
		case lu.Geo != nil:
			where = fmt.Sprintf("%.4f, %.4f", lu.Geo.Latitude, lu.Geo.Longitude)
		case lu.ReadableIP != "":
			where = lu.ReadableIP
		case lu.IPAddress != "":
			where = lu.IPAddress
		}
		fmt.Fprintf(&b, "  %s %s %s\n",
			valueStyle.Render(fmt.Sprintf("%-28s", truncStr(where, 28))),
			labelStyle.Render(fmt.Sprintf("%-12s", lu.Type)),
			labelStyle.Render(fmt.Sprintf("%s sessions", cli.FormatNumber(int64(lu.SessionCount)))))
	}
	return b.String()
}

// ─── Helpers ────────────────────────────────────────────────────

func sortedDevices(r *model.Rollup) []model.DeviceUsage {
	out := make([]model.DeviceUsage, 0, len(r.Devices))
	for _, du := range r.Devices {
		out = append(out, du)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SessionCount != out[j].SessionCount {
			return out[i].SessionCount > out[j].SessionCount
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func sortedLocations(r *model.Rollup) []model.LocationUsage {
	out := make([]model.LocationUsage, 0, len(r.Locations))
	for _, lu := range r.Locations {
		out = append(out, lu)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SessionCount != out[j].SessionCount {
			return out[i].SessionCount > out[j].SessionCount
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func dateOnly(stamp string) string {
	if len(stamp) >= 10 {
		return stamp[:10]
	}
	return stamp
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}
