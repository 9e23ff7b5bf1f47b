package pipeline

import (
	"context"
	"testing"
	"time"

	"vocalog/internal/stats"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}

func deviceLine(id, userID, deviceID, startedAt string, words string) string {
	return `{"type":"session","id":"` + id + `","user_id":"` + userID +
		`","device":{"id":"` + deviceID + `","name":"dev ` + deviceID + `"},` +
		`"started_at":"` + startedAt + `","ended_at":"` + startedAt +
		`","stats":{"session_seconds":60,"all_word_counts":` + words + `}}` + "\n"
}

func TestSummarize_BuildsWeeks(t *testing.T) {
	dataDir := t.TempDir()
	st := openTestStore(t)
	ctx := context.Background()

	// two sessions in ISO week 10, one in week 11
	writeLog(t, dataDir, "u1", "s1", deviceLine("s1", "u1", "d1", "2015-03-02T09:00:00Z", `{"hat":2}`))
	writeLog(t, dataDir, "u1", "s2", deviceLine("s2", "u1", "d2", "2015-03-02T11:00:00Z", `{"cat":3}`))
	writeLog(t, dataDir, "u1", "s3", deviceLine("s3", "u1", "d1", "2015-03-09T09:00:00Z", `{"dog":1}`))
	if _, err := Sync(dataDir, st, nil); err != nil {
		t.Fatal(err)
	}

	res, err := Summarize(ctx, st, "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Users != 1 || res.Weeks != 2 {
		t.Errorf("result = %+v, want 1 user / 2 weeks", res)
	}

	summary, err := st.Summary(ctx, "u1", 201510)
	if err != nil {
		t.Fatal(err)
	}
	if summary == nil {
		t.Fatal("week 201510 not built")
	}
	day := summary.Days["2015-03-02"]
	if day == nil {
		t.Fatalf("day missing: %v", summary.Days)
	}
	if day.Total.SessionCount != 2 || day.Total.WordCounts["hat"] != 2 || day.Total.WordCounts["cat"] != 3 {
		t.Errorf("day total = %+v", day.Total)
	}
	if len(day.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2", len(day.Groups))
	}
	byDevice := map[string]int{}
	for _, g := range day.Groups {
		byDevice[g.DeviceID] = g.SessionCount
	}
	if byDevice["d1"] != 1 || byDevice["d2"] != 1 {
		t.Errorf("group splits = %v", byDevice)
	}
}

func TestSummarize_FeedsCachedReports(t *testing.T) {
	dataDir := t.TempDir()
	st := openTestStore(t)
	ctx := context.Background()

	writeLog(t, dataDir, "u1", "s1", deviceLine("s1", "u1", "d1", "2015-03-02T09:00:00Z", `{"hat":2}`))
	writeLog(t, dataDir, "u1", "s2", deviceLine("s2", "u1", "d2", "2015-03-03T09:00:00Z", `{"cat":3}`))
	if _, err := Sync(dataDir, st, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := Summarize(ctx, st, "u1"); err != nil {
		t.Fatal(err)
	}

	a := &stats.Assembler{Sessions: st, Clusters: st, Summaries: st}
	r, err := a.CachedDailyUse(ctx, "u1", stats.Options{
		Start: mustTime(t, "2015-03-01T00:00:00Z"),
		End:   mustTime(t, "2015-03-05T00:00:00Z"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if !r.Cached {
		t.Errorf("report not served from summaries")
	}
	if r.SessionCount != 2 || r.TotalWords != 5 {
		t.Errorf("totals = %d sessions / %d words, want 2 / 5", r.SessionCount, r.TotalWords)
	}
	if d := r.Days["2015-03-03"]; d.WordCounts["cat"] != 3 {
		t.Errorf("day rollup = %+v", d.WordCounts)
	}

	// filtered cached report only sees the matching device group
	r, err = a.CachedDailyUse(ctx, "u1", stats.Options{
		Start:    mustTime(t, "2015-03-01T00:00:00Z"),
		End:      mustTime(t, "2015-03-05T00:00:00Z"),
		DeviceID: "d2",
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.TotalWords != 3 || r.WordCounts["hat"] != 0 {
		t.Errorf("filtered cached report leaked: %+v", r.WordCounts)
	}
}

func TestSummarize_RebuildKeepsID(t *testing.T) {
	dataDir := t.TempDir()
	st := openTestStore(t)
	ctx := context.Background()

	writeLog(t, dataDir, "u1", "s1", deviceLine("s1", "u1", "d1", "2015-03-02T09:00:00Z", `{"hat":2}`))
	if _, err := Sync(dataDir, st, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := Summarize(ctx, st, "u1"); err != nil {
		t.Fatal(err)
	}
	first, err := st.Summary(ctx, "u1", 201510)
	if err != nil {
		t.Fatal(err)
	}

	writeLog(t, dataDir, "u1", "s2", deviceLine("s2", "u1", "d1", "2015-03-02T12:00:00Z", `{"cat":1}`))
	if _, err := Sync(dataDir, st, nil); err != nil {
		t.Fatal(err)
	}
	if _, err := Summarize(ctx, st, "u1"); err != nil {
		t.Fatal(err)
	}

	second, err := st.Summary(ctx, "u1", 201510)
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID {
		t.Errorf("rebuild changed summary id: %s -> %s", first.ID, second.ID)
	}
	if second.Days["2015-03-02"].Total.SessionCount != 2 {
		t.Errorf("rebuild did not pick up the new session")
	}
}
