package source

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeLog(t *testing.T, dir, userID, sessionID string, lines ...string) DiscoveredFile {
	t.Helper()
	userDir := filepath.Join(dir, "logs", userID)
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(userDir, sessionID+".jsonl")
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return DiscoveredFile{Path: path, UserID: userID, SessionID: sessionID}
}

func TestParseFile_FullSession(t *testing.T) {
	df := writeLog(t, t.TempDir(), "u1", "s1",
		`{"type":"session","id":"s1","user_id":"u1","device":{"id":"d1","name":"tablet"},"geo_cluster_id":"g1","started_at":"2015-03-10T14:00:00Z","ended_at":"2015-03-10T14:05:00Z","stats":{"session_seconds":300,"utterances":2,"utterance_words":5,"utterance_buttons":4,"all_word_counts":{"hat":3},"all_button_counts":{"b1:1":{"button_id":"1","board_id":"b1","text":"hat","count":3}}}}`,
		`{"type":"button","timestamp":1426000000,"button":{"id":"1","label":"hat","board_id":"b1"},"parts_of_speech":{"word":"hat","types":["noun"]}}`,
		`{"type":"button","timestamp":1426000010,"button":{"id":"2","label":"cat","board_id":"b2"}}`,
		`{"type":"action","timestamp":1426000020,"action":"clear"}`,
		`{"type":"utterance","timestamp":1426000030,"utterance":{"text":"hat cat"}}`,
	)
	res := ParseFile(df)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.ParseErrors != 0 {
		t.Errorf("ParseErrors = %d, want 0", res.ParseErrors)
	}
	s := res.Session
	if s.ID != "s1" || s.UserID != "u1" {
		t.Errorf("identity = %s/%s", s.ID, s.UserID)
	}
	if s.Device == nil || s.Device.Name != "tablet" {
		t.Errorf("device = %+v", s.Device)
	}
	if s.GeoClusterID != "g1" {
		t.Errorf("GeoClusterID = %q", s.GeoClusterID)
	}
	want := time.Date(2015, 3, 10, 14, 0, 0, 0, time.UTC)
	if !s.StartedAt.Equal(want) {
		t.Errorf("StartedAt = %v, want %v", s.StartedAt, want)
	}
	if s.Counts == nil || s.Counts.SessionSeconds != 300 {
		t.Errorf("Counts = %+v", s.Counts)
	}
	if s.Counts.ButtonCounts["b1:1"].Label != "hat" {
		t.Errorf("ButtonCounts = %+v", s.Counts.ButtonCounts)
	}
	if len(s.Events) != 4 {
		t.Fatalf("len(Events) = %d, want 4", len(s.Events))
	}
	if s.Events[0].PartsOfSpeech.Primary() != "noun" {
		t.Errorf("event 0 tag = %q", s.Events[0].PartsOfSpeech.Primary())
	}
	if s.Events[2].Action != "clear" {
		t.Errorf("event 2 = %+v", s.Events[2])
	}
	if len(s.BoardIDs) != 2 || s.BoardIDs[0] != "b1" || s.BoardIDs[1] != "b2" {
		t.Errorf("BoardIDs = %v", s.BoardIDs)
	}
}

func TestParseFile_NoMetaLine(t *testing.T) {
	df := writeLog(t, t.TempDir(), "u1", "orphan",
		`{"type":"button","timestamp":1426000000,"button":{"id":"1","label":"hat"}}`,
		`{"type":"button","timestamp":1426000060,"button":{"id":"2","label":"cat"}}`,
	)
	res := ParseFile(df)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	s := res.Session
	if s.ID != "orphan" || s.UserID != "u1" {
		t.Errorf("identity = %s/%s, want orphan/u1", s.ID, s.UserID)
	}
	if got := s.StartedAt.Unix(); got != 1426000000 {
		t.Errorf("StartedAt = %d, want 1426000000", got)
	}
	if got := s.EndedAt.Unix(); got != 1426000060 {
		t.Errorf("EndedAt = %d, want 1426000060", got)
	}
}

func TestParseFile_SkipsMalformedLines(t *testing.T) {
	df := writeLog(t, t.TempDir(), "u1", "s1",
		`{"type":"session","id":"s1","user_id":"u1"}`,
		`{"type":"button","timestamp":`,
		`not json at all`,
		`{"type":"button","timestamp":1426000000,"button":{"id":"1","label":"hat"}}`,
	)
	res := ParseFile(df)
	if res.Err != nil {
		t.Fatal(res.Err)
	}
	if res.ParseErrors != 1 {
		t.Errorf("ParseErrors = %d, want 1", res.ParseErrors)
	}
	if len(res.Session.Events) != 1 {
		t.Errorf("len(Events) = %d, want 1", len(res.Session.Events))
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	res := ParseFile(DiscoveredFile{Path: filepath.Join(t.TempDir(), "nope.jsonl")})
	if res.Err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestExtractTopLevelType(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{`{"type":"session","id":"s1"}`, "session"},
		{`{"type": "button"}`, "button"},
		{`{"timestamp":1,"type":"utterance"}`, "utterance"},
		// nested "type" keys must not win
		{`{"button":{"type":"picture"},"type":"action"}`, "action"},
		// "type" as a string value is not a key
		{`{"label":"type","type":"button"}`, "button"},
		{`{"type":"unknown"}`, ""},
		{`{"id":"s1"}`, ""},
		{``, ""},
	}
	for _, tt := range tests {
		if got := extractTopLevelType([]byte(tt.line)); got != tt.want {
			t.Errorf("extractTopLevelType(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, dir, "u1", "s1", `{"type":"session","id":"s1"}`)
	writeLog(t, dir, "u1", "s2", `{"type":"session","id":"s2"}`)
	writeLog(t, dir, "u2", "s3", `{"type":"session","id":"s3"}`)
	// stray file directly under logs/ is ignored
	if err := os.WriteFile(filepath.Join(dir, "logs", "stray.jsonl"), []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("len(files) = %d, want 3", len(files))
	}
	if CountUsers(files) != 2 {
		t.Errorf("CountUsers = %d, want 2", CountUsers(files))
	}
	for _, f := range files {
		if f.Size == 0 || f.ModTime.IsZero() {
			t.Errorf("file %s missing metadata", f.Path)
		}
	}
}

func TestScanDir_MissingDir(t *testing.T) {
	files, err := ScanDir(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatal(err)
	}
	if files != nil {
		t.Errorf("files = %v, want nil", files)
	}
}
