// Package source discovers and parses vocalog JSONL session files.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"time"

	"vocalog/internal/model"
)

// ParseResult holds the output of parsing a single JSONL file.
type ParseResult struct {
	Session     *model.Session
	ParseErrors int
	Err         error
}

// ParseFile reads a JSONL session log and produces the session record.
//
// Line routing by top-level "type" field:
//   - "session"   → session meta line (identity, time range, stats block)
//   - "button", "action", "utterance" → event lines
//   - everything else → skip
//
// A log without a meta line still yields a session keyed by its file
// location, with its time range derived from event timestamps. Malformed
// lines are counted, not fatal.
func ParseFile(df DiscoveredFile) ParseResult {
	f, err := os.Open(df.Path)
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	s := &model.Session{
		ID:       df.SessionID,
		UserID:   df.UserID,
		FilePath: df.Path,
	}

	var (
		parseErrors int
		minTS       int64
		maxTS       int64
		boardSeen   map[string]struct{}
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 256*1024), 2*1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()

		entryType := extractTopLevelType(line)
		if entryType == "" {
			continue
		}

		if entryType == "session" {
			var meta rawSessionMeta
			if err := json.Unmarshal(line, &meta); err != nil {
				parseErrors++
				continue
			}
			applyMeta(s, &meta)
			continue
		}

		var ev model.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			parseErrors++
			continue
		}
		if ts := ev.Timestamp; ts != 0 {
			if minTS == 0 || ts < minTS {
				minTS = ts
			}
			if ts > maxTS {
				maxTS = ts
			}
		}
		if ev.Button != nil && ev.Button.BoardID != "" {
			if boardSeen == nil {
				boardSeen = make(map[string]struct{})
			}
			if _, ok := boardSeen[ev.Button.BoardID]; !ok {
				boardSeen[ev.Button.BoardID] = struct{}{}
				s.BoardIDs = append(s.BoardIDs, ev.Button.BoardID)
			}
		}
		s.Events = append(s.Events, ev)
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{Err: err}
	}

	// fall back to event timestamps when the meta line is absent or bare
	if s.StartedAt.IsZero() && minTS != 0 {
		s.StartedAt = time.Unix(minTS, 0).UTC()
	}
	if s.EndedAt.IsZero() && maxTS != 0 {
		s.EndedAt = time.Unix(maxTS, 0).UTC()
	}

	return ParseResult{
		Session:     s,
		ParseErrors: parseErrors,
	}
}

func applyMeta(s *model.Session, meta *rawSessionMeta) {
	if meta.ID != "" {
		s.ID = meta.ID
	}
	if meta.UserID != "" {
		s.UserID = meta.UserID
	}
	s.Device = meta.Device
	s.GeoClusterID = meta.GeoClusterID
	s.IPClusterID = meta.IPClusterID
	s.Counts = meta.Stats
	if ts, err := time.Parse(time.RFC3339Nano, meta.StartedAt); err == nil {
		s.StartedAt = ts.UTC()
	}
	if ts, err := time.Parse(time.RFC3339Nano, meta.EndedAt); err == nil {
		s.EndedAt = ts.UTC()
	}
}

// typeKey is the byte sequence for a JSON key named "type" (with quotes).
var typeKey = []byte(`"type"`)

// extractTopLevelType finds the top-level "type" field in a JSONL line.
// Tracks brace depth and string boundaries so nested "type" keys (button
// payloads carry one too) are ignored. Early-exits once found, making
// cost O(1) vs line length.
func extractTopLevelType(line []byte) string {
	depth := 0
	for i := 0; i < len(line); {
		switch line[i] {
		case '"':
			if depth == 1 && bytes.HasPrefix(line[i:], typeKey) {
				val, isKey := classifyType(line, i+len(typeKey))
				if isKey {
					return val // found the "type" key — done regardless of value
				}
				// "type" appeared as a value, not a key. Continue scanning.
			}
			i = skipJSONString(line, i)
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
		default:
			i++
		}
	}
	return ""
}

// classifyType checks whether pos follows a JSON key (expects : then value).
// Returns the type value and whether this was a valid key:value pair.
// isKey=false means "type" appeared as a value, not a key — caller should continue.
func classifyType(line []byte, pos int) (val string, isKey bool) {
	i := skipSpaces(line, pos)
	if i >= len(line) || line[i] != ':' {
		return "", false // no colon — this was a value, not a key
	}
	i = skipSpaces(line, i+1)
	if i >= len(line) || line[i] != '"' {
		return "", true // key with non-string value (null, number, etc.)
	}
	i++ // past opening quote

	end := bytes.IndexByte(line[i:], '"')
	if end < 0 || end > 20 {
		return "", true
	}
	v := string(line[i : i+end])
	switch v {
	case "session", "button", "action", "utterance":
		return v, true
	}
	return "", true // valid key but irrelevant type
}

// skipJSONString advances past a JSON string starting at the opening quote.
func skipJSONString(line []byte, i int) int {
	i++ // skip opening quote
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipSpaces(line []byte, i int) int {
	for i < len(line) && line[i] == ' ' {
		i++
	}
	return i
}
