package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"vocalog/internal/model"
)

// LAM renders sessions, in the order given, into the legacy LAM line
// format: a fixed header block, a CTL control line whenever the calendar
// date changes, and one WPR/SPE/SMP line per speech-producing event.
// Timestamps are UTC wall clock at one-second precision. The format is
// kept bug compatible with existing LAM consumers; do not tidy it.
func LAM(sessions []*model.Session) string {
	var b strings.Builder
	b.WriteString(lamHeader())
	for _, s := range sessions {
		b.WriteString(lamEntries(s))
	}
	return b.String()
}

func lamHeader() string {
	lines := []string{
		"### CAUTION ###",
		"The following data represents an individual's communication",
		"and should be treated accordingly.",
		"",
		"LAM Content generated by Vocalog AAC system",
		"LAM Version 2.00 07/26/01",
		"",
		"",
	}
	return strings.Join(lines, "\n")
}

func lamEntries(s *model.Session) string {
	// collaborators cannot guarantee pre-sorted input; line order must
	// follow true event time
	events := make([]model.Event, len(s.Events))
	copy(events, s.Events)
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp < events[j].Timestamp
	})

	var lines []string
	lastDate := ""
	for i := range events {
		ev := &events[i]
		t := time.Unix(ev.Timestamp, 0).UTC()
		stamp := t.Format("15:04:05")
		date := t.Format("06-01-02")
		if date != lastDate {
			lastDate = date
			lines = append(lines, fmt.Sprintf("%s CTL *[YY-MM-DD=%s]*", stamp, date))
		}

		btn := ev.Button
		if btn == nil {
			continue
		}
		switch {
		case btn.Completion != "":
			// word completion / prediction
			lines = append(lines, fmt.Sprintf("%s WPR \"%s\"", stamp, btn.Completion))
		case strings.HasPrefix(btn.Vocalization, "+"):
			// letter-by-letter spelling
			lines = append(lines, fmt.Sprintf("%s SPE \"%s\"", stamp, btn.Vocalization[1:]))
		case btn.Label != "" && !strings.HasPrefix(btn.Vocalization, ":"):
			// single-meaning picture selection; modifier-only buttons
			// (":plural" etc.) produce no line
			lines = append(lines, fmt.Sprintf("%s SMP \"%s\"", stamp, btn.Label))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
