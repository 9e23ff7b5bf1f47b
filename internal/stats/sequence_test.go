package stats

import (
	"reflect"
	"testing"

	"vocalog/internal/model"
)

func tagged(ts int64, label, tag string) model.Event {
	return model.Event{
		Type:          "button",
		Timestamp:     ts,
		Button:        &model.ButtonEvent{Label: label},
		PartsOfSpeech: &model.PartsOfSpeech{Word: label, Types: []string{tag}},
	}
}

func clearAction(ts int64) model.Event {
	return model.Event{Type: "action", Timestamp: ts, Action: "clear"}
}

func utterance(ts int64, text string) model.Event {
	return model.Event{Type: "utterance", Timestamp: ts, Utterance: &model.UtteranceEvent{Text: text}}
}

func spelling(ts int64, letter string) model.Event {
	return model.Event{
		Type:           "button",
		Timestamp:      ts,
		ModifiedByNext: true,
		Button:         &model.ButtonEvent{Label: letter, Vocalization: "+" + letter},
	}
}

func trackOne(events ...model.Event) map[string]int {
	tr := NewSequenceTracker()
	tr.TrackSession(events)
	return tr.Sequences()
}

func TestSequenceTracker_AbsorbsPairIntoTriple(t *testing.T) {
	got := trackOne(
		tagged(1, "boy", "noun"),
		tagged(2, "girl", "noun"),
		tagged(3, "run", "verb"),
	)
	// the initial noun,noun pair is fully absorbed by the 3-gram
	want := map[string]int{"noun,verb": 1, "noun,noun,verb": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sequences = %v, want %v", got, want)
	}
}

func TestSequenceTracker_ClearResetsWindow(t *testing.T) {
	got := trackOne(
		tagged(1, "boy", "noun"),
		clearAction(2),
		tagged(3, "run", "verb"),
		tagged(4, "girl", "noun"),
	)
	want := map[string]int{"verb,noun": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sequences = %v, want %v", got, want)
	}
}

func TestSequenceTracker_UtteranceResetsWindow(t *testing.T) {
	got := trackOne(
		tagged(1, "run", "verb"),
		tagged(2, "cat", "noun"),
		utterance(3, "ok cool"),
		tagged(4, "funny", "adjective"),
	)
	want := map[string]int{"verb,noun": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sequences = %v, want %v", got, want)
	}
}

func TestSequenceTracker_ConsecutiveTriples(t *testing.T) {
	got := trackOne(
		tagged(1, "run", "verb"),
		tagged(2, "cat", "noun"),
		tagged(3, "funny", "adjective"),
		tagged(4, "ugly", "adjective"),
	)
	want := map[string]int{
		"verb,noun,adjective":      1,
		"noun,adjective,adjective": 1,
		"adjective,adjective":      1,
		"verb,noun":                1,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sequences = %v, want %v", got, want)
	}
}

func TestSequenceTracker_ModifiedEventsInvisible(t *testing.T) {
	// spelled letters are modified-by-next; the completion carries the tag
	completion := model.Event{
		Type:          "button",
		Timestamp:     8,
		Button:        &model.ButtonEvent{Label: " ", Vocalization: ":space", Completion: "funny"},
		PartsOfSpeech: &model.PartsOfSpeech{Word: "funny", Types: []string{"adjective"}},
	}
	got := trackOne(
		tagged(1, "run", "verb"),
		spelling(2, "f"),
		spelling(3, "u"),
		spelling(4, "n"),
		spelling(5, "n"),
		spelling(6, "y"),
		completion,
		tagged(9, "cat", "noun"),
	)
	want := map[string]int{
		"adjective,noun":      1,
		"verb,adjective,noun": 1,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sequences = %v, want %v", got, want)
	}
}

func TestSequenceTracker_UntaggedShiftsWindow(t *testing.T) {
	// an untagged non-boundary event blocks sequences through it
	untagged := model.Event{Type: "button", Timestamp: 2, Button: &model.ButtonEvent{Label: "???"}}
	got := trackOne(
		tagged(1, "boy", "noun"),
		untagged,
		tagged(3, "run", "verb"),
		tagged(4, "girl", "noun"),
	)
	want := map[string]int{"verb,noun": 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("sequences = %v, want %v", got, want)
	}
}

func TestSequenceTracker_AccumulatesAcrossSessions(t *testing.T) {
	tr := NewSequenceTracker()
	tr.TrackSession([]model.Event{tagged(1, "boy", "noun"), tagged(2, "girl", "noun")})
	tr.TrackSession([]model.Event{tagged(1, "cat", "noun"), tagged(2, "dog", "noun")})
	// each session starts with an empty window; counts add
	want := map[string]int{"noun,noun": 2}
	if !reflect.DeepEqual(tr.Sequences(), want) {
		t.Errorf("sequences = %v, want %v", tr.Sequences(), want)
	}
}
