package stats

import (
	"reflect"
	"testing"

	"vocalog/internal/model"
)

func TestRankWords_OrderAndTruncation(t *testing.T) {
	counts := map[string]int{"go": 3, "want": 5, "more": 3, "I": 5, "stop": 1}

	got := RankWords(counts, 4)
	want := []model.WordCount{
		{Text: "I", Count: 5},
		{Text: "want", Count: 5},
		{Text: "go", Count: 3},
		{Text: "more", Count: 3},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RankWords = %v, want %v", got, want)
	}
}

func TestRankWords_Deterministic(t *testing.T) {
	counts := map[string]int{}
	for _, w := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		counts[w] = 2
	}
	// map iteration order varies run to run; ranking must not
	first := RankWords(counts, 100)
	for i := 0; i < 20; i++ {
		if !reflect.DeepEqual(RankWords(counts, 100), first) {
			t.Fatal("RankWords output depends on map iteration order")
		}
	}
}

func TestRankButtons(t *testing.T) {
	counts := map[string]model.ButtonCount{
		"b1:1": {ButtonID: "1", BoardID: "b1", Label: "more", Count: 4},
		"b1:2": {ButtonID: "2", BoardID: "b1", Label: "go", Count: 4},
		"b2:1": {ButtonID: "1", BoardID: "b2", Label: "go", Count: 4},
		"b1:3": {ButtonID: "3", BoardID: "b1", Label: "stop", Count: 9},
	}

	got := RankButtons(counts, 3)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Label != "stop" {
		t.Errorf("got[0] = %v, want stop", got[0])
	}
	// count tie: label ascending, then key ascending
	if got[1].Label != "go" || got[1].BoardID != "b1" {
		t.Errorf("got[1] = %v, want go on b1", got[1])
	}
	if got[2].Label != "go" || got[2].BoardID != "b2" {
		t.Errorf("got[2] = %v, want go on b2", got[2])
	}
}
