package stats

import "vocalog/internal/model"

// SequenceTracker accumulates part-of-speech 2-gram and 3-gram transition
// counts across sessions. A 2-gram that gets extended into a 3-gram is
// decremented so short windows already absorbed by longer ones are not
// double counted.
type SequenceTracker struct {
	sequences map[string]int

	// window state, reset at every discourse boundary and session start
	last       string
	secondLast string
}

// NewSequenceTracker returns an empty tracker.
func NewSequenceTracker() *SequenceTracker {
	return &SequenceTracker{sequences: make(map[string]int)}
}

// TrackSession walks one session's ordered event list. The window starts
// empty for every session; counts accumulate across calls.
func (t *SequenceTracker) TrackSession(events []model.Event) {
	t.last, t.secondLast = "", ""
	for i := range events {
		ev := &events[i]
		switch ev.Kind() {
		case model.EventBoundary:
			t.last, t.secondLast = "", ""
		case model.EventModified:
			// invisible: neither resets nor shifts the window
		case model.EventTagged:
			cur := ev.PartsOfSpeech.Primary()
			if t.last != "" && t.secondLast != "" {
				t.sequences[t.secondLast+","+t.last+","+cur]++
				// the 2-gram is now subsumed by the 3-gram
				pair := t.secondLast + "," + t.last
				if n, ok := t.sequences[pair]; ok {
					if n <= 1 {
						delete(t.sequences, pair)
					} else {
						t.sequences[pair] = n - 1
					}
				}
				t.sequences[t.last+","+cur]++
			} else if t.last != "" {
				t.sequences[t.last+","+cur]++
			}
			t.secondLast, t.last = t.last, cur
		default:
			// untagged step: shifts the window with an empty tag
			t.secondLast, t.last = t.last, ""
		}
	}
}

// Sequences returns the accumulated sequence counts.
func (t *SequenceTracker) Sequences() map[string]int {
	return t.sequences
}
