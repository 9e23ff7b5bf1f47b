package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"vocalog/internal/stats"
	"vocalog/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func writeLog(t *testing.T, dataDir, userID, sessionID, content string) string {
	t.Helper()
	dir := filepath.Join(dataDir, "logs", userID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, sessionID+".jsonl")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func sessionLine(id, userID, startedAt string) string {
	return `{"type":"session","id":"` + id + `","user_id":"` + userID +
		`","started_at":"` + startedAt + `","ended_at":"` + startedAt +
		`","stats":{"session_seconds":60,"utterances":1,"utterance_words":2,"all_word_counts":{"hat":2}}}` + "\n"
}

func TestSync_InitialAndIncremental(t *testing.T) {
	dataDir := t.TempDir()
	st := openTestStore(t)

	writeLog(t, dataDir, "u1", "s1", sessionLine("s1", "u1", "2015-03-02T09:00:00Z"))
	writeLog(t, dataDir, "u1", "s2", sessionLine("s2", "u1", "2015-03-03T09:00:00Z"))
	writeLog(t, dataDir, "u2", "s3", sessionLine("s3", "u2", "2015-03-02T10:00:00Z"))

	var calls int
	res, err := Sync(dataDir, st, func(current, total int) { calls++ })
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalFiles != 3 || res.Parsed != 3 || res.Unchanged != 0 {
		t.Errorf("initial sync = %+v", res)
	}
	if res.UserCount != 2 {
		t.Errorf("UserCount = %d, want 2", res.UserCount)
	}
	if calls != 3 {
		t.Errorf("progress calls = %d, want 3", calls)
	}
	if n, _ := st.SessionCount(); n != 3 {
		t.Errorf("indexed %d sessions, want 3", n)
	}

	// nothing changed: everything is an index hit
	res, err = Sync(dataDir, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Unchanged != 3 || res.Parsed != 0 {
		t.Errorf("second sync = %+v", res)
	}
}

func TestSync_ReparsesChangedFiles(t *testing.T) {
	dataDir := t.TempDir()
	st := openTestStore(t)

	path := writeLog(t, dataDir, "u1", "s1", sessionLine("s1", "u1", "2015-03-02T09:00:00Z"))
	if _, err := Sync(dataDir, st, nil); err != nil {
		t.Fatal(err)
	}

	// grow the file and backdate nothing; size alone forces a reparse
	longer := sessionLine("s1", "u1", "2015-03-02T09:00:00Z") +
		`{"type":"button","timestamp":1425286800,"button":{"id":"1","label":"hat"}}` + "\n"
	if err := os.WriteFile(path, []byte(longer), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := Sync(dataDir, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Parsed != 1 || res.Unchanged != 0 {
		t.Errorf("changed sync = %+v", res)
	}

	sessions, err := st.FindSessions(context.Background(), "u1", stats.Query{})
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 || len(sessions[0].Events) != 1 {
		t.Errorf("reparsed session missing events")
	}
}

func TestSync_PrunesVanishedFiles(t *testing.T) {
	dataDir := t.TempDir()
	st := openTestStore(t)

	path := writeLog(t, dataDir, "u1", "s1", sessionLine("s1", "u1", "2015-03-02T09:00:00Z"))
	writeLog(t, dataDir, "u1", "s2", sessionLine("s2", "u1", "2015-03-03T09:00:00Z"))
	if _, err := Sync(dataDir, st, nil); err != nil {
		t.Fatal(err)
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	res, err := Sync(dataDir, st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.Removed != 1 {
		t.Errorf("Removed = %d, want 1", res.Removed)
	}
	if n, _ := st.SessionCount(); n != 1 {
		t.Errorf("indexed %d sessions after prune, want 1", n)
	}
}

func TestSync_EmptyDataDir(t *testing.T) {
	st := openTestStore(t)
	res, err := Sync(t.TempDir(), st, nil)
	if err != nil {
		t.Fatal(err)
	}
	if res.TotalFiles != 0 || res.Parsed != 0 {
		t.Errorf("empty sync = %+v", res)
	}
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		in   time.Time
		want time.Time
	}{
		// Wednesday to Monday
		{time.Date(2015, 3, 4, 17, 30, 0, 0, time.UTC), time.Date(2015, 3, 2, 0, 0, 0, 0, time.UTC)},
		// Monday stays put
		{time.Date(2015, 3, 2, 0, 0, 0, 0, time.UTC), time.Date(2015, 3, 2, 0, 0, 0, 0, time.UTC)},
		// Sunday belongs to the week that began the previous Monday
		{time.Date(2015, 3, 8, 9, 0, 0, 0, time.UTC), time.Date(2015, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		if got := WeekStart(tt.in); !got.Equal(tt.want) {
			t.Errorf("WeekStart(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
