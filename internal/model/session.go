// Package model defines domain types for vocalog sessions and reports.
package model

import "time"

// Cluster types.
const (
	ClusterGeo = "geo"
	ClusterIP  = "ip_address"
)

// EventKind classifies an event for sequence tracking.
type EventKind int

const (
	// EventOther is an event with no part-of-speech tag that is neither a
	// boundary nor a continuation. It shifts the sequence window with an
	// empty tag.
	EventOther EventKind = iota
	// EventBoundary resets sequence tracking (clear action or utterance).
	EventBoundary
	// EventModified is a step modified by the next event (e.g. a spelling
	// keystroke completed later). Invisible to the sequence tracker.
	EventModified
	// EventTagged carries a part-of-speech tag.
	EventTagged
)

// Event is a single entry in a session's communication log.
type Event struct {
	Type           string          `json:"type"` // "button", "action", "utterance"
	Timestamp      int64           `json:"timestamp"`
	Action         string          `json:"action,omitempty"`
	ModifiedByNext bool            `json:"modified_by_next,omitempty"`
	PartsOfSpeech  *PartsOfSpeech  `json:"parts_of_speech,omitempty"`
	Button         *ButtonEvent    `json:"button,omitempty"`
	Utterance      *UtteranceEvent `json:"utterance,omitempty"`
}

// Kind classifies the event for sequence tracking.
func (e *Event) Kind() EventKind {
	switch {
	case e.Type == "action" && e.Action == "clear":
		return EventBoundary
	case e.Type == "utterance":
		return EventBoundary
	case e.ModifiedByNext:
		return EventModified
	case e.PartsOfSpeech.Primary() != "":
		return EventTagged
	default:
		return EventOther
	}
}

// PartsOfSpeech holds the part-of-speech classification of a selection.
// Types is ordered most- to least-likely; only the primary type feeds
// sequence statistics.
type PartsOfSpeech struct {
	Word  string   `json:"word,omitempty"`
	Types []string `json:"types"`
}

// Primary returns the most likely part-of-speech tag, or "" if untagged.
func (p *PartsOfSpeech) Primary() string {
	if p == nil || len(p.Types) == 0 {
		return ""
	}
	return p.Types[0]
}

// ButtonEvent is the payload of a button selection.
type ButtonEvent struct {
	ID           string `json:"id,omitempty"`
	Label        string `json:"label,omitempty"`
	Vocalization string `json:"vocalization,omitempty"`
	Completion   string `json:"completion,omitempty"`
	BoardID      string `json:"board_id,omitempty"`
}

// UtteranceEvent is the payload of a spoken utterance.
type UtteranceEvent struct {
	Text string `json:"text,omitempty"`
}

// SessionCounts is the per-session stats block embedded in the log at
// recording time. All fields are optional; absent maps mean no activity of
// that kind was recorded.
type SessionCounts struct {
	SessionSeconds   float64                `json:"session_seconds"`
	Utterances       float64                `json:"utterances"`
	UtteranceWords   float64                `json:"utterance_words"`
	UtteranceButtons float64                `json:"utterance_buttons"`
	ButtonCounts     map[string]ButtonCount `json:"all_button_counts,omitempty"`
	WordCounts       map[string]int         `json:"all_word_counts,omitempty"`
	PartsOfSpeech    map[string]int         `json:"parts_of_speech,omitempty"`
	// TouchLocations maps board id -> x -> y -> count.
	TouchLocations map[string]map[string]map[string]int `json:"touch_locations,omitempty"`
}

// DeviceRef identifies the device a session was recorded on.
type DeviceRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

// Session is one recorded communication session.
type Session struct {
	ID           string         `json:"id"`
	UserID       string         `json:"user_id"`
	Device       *DeviceRef     `json:"device,omitempty"`
	GeoClusterID string         `json:"geo_cluster_id,omitempty"`
	IPClusterID  string         `json:"ip_cluster_id,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	EndedAt      time.Time      `json:"ended_at"`
	Counts       *SessionCounts `json:"stats,omitempty"`
	Events       []Event        `json:"-"`

	// BoardIDs lists every board referenced by the session's events,
	// extracted at parse time for board-level drill-down filtering.
	BoardIDs []string `json:"-"`

	// FilePath is the log file this session was parsed from.
	FilePath string `json:"-"`
}

// HasBoard reports whether any event in the session referenced the board.
func (s *Session) HasBoard(boardID string) bool {
	for _, id := range s.BoardIDs {
		if id == boardID {
			return true
		}
	}
	return false
}

// Cluster is a geographic or IP-address grouping of sessions.
type Cluster struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Type       string  `json:"type"` // ClusterGeo or ClusterIP
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
	Altitude   float64 `json:"altitude,omitempty"`
	IPAddress  string  `json:"ip_address,omitempty"`
	ReadableIP string  `json:"readable_ip_address,omitempty"`
}

// Device is a registered device record.
type Device struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Name       string    `json:"name"`
	LastUsedAt time.Time `json:"last_used_at"`
}
