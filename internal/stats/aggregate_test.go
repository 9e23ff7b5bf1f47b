package stats

import (
	"reflect"
	"testing"
	"time"

	"vocalog/internal/model"
)

func sampleSnapshot(seed int) *model.Snapshot {
	s := model.NewSnapshot()
	s.SessionCount = 1
	s.UtteranceCount = float64(seed)
	s.UtteranceWordTotal = float64(seed * 2)
	s.SessionSecondsTotal = float64(seed * 10)
	s.WordCounts["hat"] = seed
	s.WordCounts["cat"] = seed + 1
	s.ButtonCounts["b1:1"] = model.ButtonCount{ButtonID: "1", BoardID: "b1", Label: "hat", Count: seed}
	s.TouchCounts["1,2"] = seed
	s.TimeBlockCounts[seed] = 1
	s.PosCounts["noun"] = seed
	s.PosSequences["noun,verb"] = seed
	start := time.Date(2015, 1, seed+1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	s.StartedAt = &start
	s.EndedAt = &end
	s.Devices["d1"] = model.DeviceUsage{ID: "d1", Name: "tablet", SessionCount: 1, StartedAt: &start, EndedAt: &end}
	s.Locations["g1"] = model.LocationUsage{ID: "g1", Type: model.ClusterGeo, SessionCount: 1, StartedAt: &start, EndedAt: &end}
	return s
}

func TestMerge_Identity(t *testing.T) {
	a := sampleSnapshot(1)
	got := Merge(a, model.NewSnapshot(), nil)
	if !reflect.DeepEqual(got, Merge(a)) {
		t.Errorf("merging with zero snapshot changed the result")
	}
}

func TestMerge_Commutative(t *testing.T) {
	a, b := sampleSnapshot(1), sampleSnapshot(3)
	ab := Merge(a, b)
	ba := Merge(b, a)
	if !reflect.DeepEqual(ab, ba) {
		t.Errorf("Merge(a,b) != Merge(b,a)")
	}
}

func TestMerge_Associative(t *testing.T) {
	a, b, c := sampleSnapshot(1), sampleSnapshot(3), sampleSnapshot(5)
	left := Merge(Merge(a, b), c)
	right := Merge(a, Merge(b, c))
	if !reflect.DeepEqual(left, right) {
		t.Errorf("Merge is not associative")
	}
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	a := sampleSnapshot(1)
	before := Merge(a) // deep copy via identity merge
	Merge(a, sampleSnapshot(3))
	if !reflect.DeepEqual(Merge(a), before) {
		t.Errorf("Merge mutated an input snapshot")
	}
}

func TestMerge_Sums(t *testing.T) {
	got := Merge(sampleSnapshot(1), sampleSnapshot(3))
	if got.SessionCount != 2 {
		t.Errorf("SessionCount = %d, want 2", got.SessionCount)
	}
	if got.UtteranceCount != 4 {
		t.Errorf("UtteranceCount = %v, want 4", got.UtteranceCount)
	}
	if got.WordCounts["cat"] != 6 {
		t.Errorf("WordCounts[cat] = %d, want 6", got.WordCounts["cat"])
	}
	if got.ButtonCounts["b1:1"].Count != 4 {
		t.Errorf("ButtonCounts[b1:1].Count = %d, want 4", got.ButtonCounts["b1:1"].Count)
	}
	if got.PosSequences["noun,verb"] != 4 {
		t.Errorf("PosSequences[noun,verb] = %d, want 4", got.PosSequences["noun,verb"])
	}
	if got.Devices["d1"].SessionCount != 2 {
		t.Errorf("Devices[d1].SessionCount = %d, want 2", got.Devices["d1"].SessionCount)
	}
	if got.Locations["g1"].SessionCount != 2 {
		t.Errorf("Locations[g1].SessionCount = %d, want 2", got.Locations["g1"].SessionCount)
	}
	// overall window spans the earliest start to the latest end
	wantStart := time.Date(2015, 1, 2, 0, 0, 0, 0, time.UTC)
	wantEnd := time.Date(2015, 1, 4, 1, 0, 0, 0, time.UTC)
	if got.StartedAt == nil || !got.StartedAt.Equal(wantStart) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, wantStart)
	}
	if got.EndedAt == nil || !got.EndedAt.Equal(wantEnd) {
		t.Errorf("EndedAt = %v, want %v", got.EndedAt, wantEnd)
	}
}

func TestMerge_KeepsFirstButtonLabel(t *testing.T) {
	a := model.NewSnapshot()
	a.ButtonCounts["b1:1"] = model.ButtonCount{ButtonID: "1", BoardID: "b1", Label: "hat", Count: 2}
	b := model.NewSnapshot()
	b.ButtonCounts["b1:1"] = model.ButtonCount{ButtonID: "1", BoardID: "b1", Label: "renamed", Count: 3}
	got := Merge(a, b)
	if bc := got.ButtonCounts["b1:1"]; bc.Label != "hat" || bc.Count != 5 {
		t.Errorf("merged button = %+v, want label hat count 5", bc)
	}
}

func TestFinalize_Rates(t *testing.T) {
	s := model.NewSnapshot()
	s.UtteranceCount = 2
	s.UtteranceWordTotal = 4
	s.UtteranceButtonTotal = 6
	s.SessionSecondsTotal = 10
	s.WordCounts["hat"] = 3
	s.WordCounts["cat"] = 1
	s.ButtonCounts["b1:1"] = model.ButtonCount{ButtonID: "1", BoardID: "b1", Label: "hat", Count: 5}
	r := Finalize(s)
	if r.TotalWords != 4 || r.UniqueWords != 2 {
		t.Errorf("words = %d/%d, want 4/2", r.TotalWords, r.UniqueWords)
	}
	if r.TotalButtons != 5 || r.UniqueButtons != 1 {
		t.Errorf("buttons = %d/%d, want 5/1", r.TotalButtons, r.UniqueButtons)
	}
	if r.WordsPerUtterance != 2.0 {
		t.Errorf("WordsPerUtterance = %v, want 2.0", r.WordsPerUtterance)
	}
	if r.ButtonsPerUtterance != 3.0 {
		t.Errorf("ButtonsPerUtterance = %v, want 3.0", r.ButtonsPerUtterance)
	}
	if r.WordsPerMinute != 24.0 {
		t.Errorf("WordsPerMinute = %v, want 24.0", r.WordsPerMinute)
	}
	if r.ButtonsPerMinute != 30.0 {
		t.Errorf("ButtonsPerMinute = %v, want 30.0", r.ButtonsPerMinute)
	}
	if r.UtterancesPerMinute != 12.0 {
		t.Errorf("UtterancesPerMinute = %v, want 12.0", r.UtterancesPerMinute)
	}
}

func TestFinalize_ZeroDenominators(t *testing.T) {
	r := Finalize(model.NewSnapshot())
	if r.WordsPerUtterance != 0 || r.WordsPerMinute != 0 || r.UtterancesPerMinute != 0 {
		t.Errorf("zero snapshot produced nonzero rates: %+v", r)
	}
	if r.MaxTouches != 0 || r.MaxTimeBlock != 0 {
		t.Errorf("zero snapshot produced nonzero maxima")
	}
	if len(r.WordsByFrequency) != 0 || len(r.ButtonsByFrequency) != 0 {
		t.Errorf("zero snapshot produced rankings")
	}
}

func TestFinalize_Maxima(t *testing.T) {
	s := model.NewSnapshot()
	s.TouchCounts["0,0"] = 2
	s.TouchCounts["3,4"] = 9
	s.TimeBlockCounts[10] = 7
	s.TimeBlockCounts[20] = 3
	r := Finalize(s)
	if r.MaxTouches != 9 {
		t.Errorf("MaxTouches = %d, want 9", r.MaxTouches)
	}
	if r.MaxTimeBlock != 7 {
		t.Errorf("MaxTimeBlock = %d, want 7", r.MaxTimeBlock)
	}
}
