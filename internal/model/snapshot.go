package model

import "time"

// WordCount is one entry in a ranked word-frequency list.
type WordCount struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// ButtonCount tracks usage of one button on one board. The map key it is
// stored under ("<board_id>:<button_id>") uniquely identifies the
// button+board pair; Label and BoardID ride along for display.
type ButtonCount struct {
	ButtonID string `json:"button_id,omitempty"`
	BoardID  string `json:"board_id,omitempty"`
	Label    string `json:"text"`
	Count    int    `json:"count"`
}

// DeviceUsage summarizes one device's share of a report window.
type DeviceUsage struct {
	ID           string     `json:"id"`
	Name         string     `json:"name,omitempty"`
	SessionCount int        `json:"session_count"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

// LocationUsage summarizes one cluster's share of a report window.
type LocationUsage struct {
	ID           string     `json:"id"`
	Type         string     `json:"type,omitempty"`
	SessionCount int        `json:"session_count"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
	Geo          *GeoPoint  `json:"geo,omitempty"`
	IPAddress    string     `json:"ip_address,omitempty"`
	ReadableIP   string     `json:"readable_ip_address,omitempty"`
}

// GeoPoint is a latitude/longitude/altitude triple.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Altitude  float64 `json:"altitude"`
}

// Snapshot is the mergeable partial-statistics unit derived from one
// session or one cached period. Merging is commutative and associative
// with the zero Snapshot as identity; see stats.Merge.
type Snapshot struct {
	SessionCount         int     `json:"session_count"`
	UtteranceCount       float64 `json:"utterance_count"`
	UtteranceWordTotal   float64 `json:"utterance_word_total"`
	UtteranceButtonTotal float64 `json:"utterance_button_total"`
	SessionSecondsTotal  float64 `json:"session_seconds_total"`

	ButtonCounts    map[string]ButtonCount `json:"button_counts,omitempty"`
	WordCounts      map[string]int         `json:"word_counts,omitempty"`
	TouchCounts     map[string]int         `json:"touch_counts,omitempty"` // "x,y" -> count
	TimeBlockCounts map[int]int            `json:"time_block_counts,omitempty"`
	PosCounts       map[string]int         `json:"pos_counts,omitempty"`
	PosSequences    map[string]int         `json:"pos_sequences,omitempty"`

	Devices   map[string]DeviceUsage   `json:"devices,omitempty"`
	Locations map[string]LocationUsage `json:"locations,omitempty"`

	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// NewSnapshot returns an empty Snapshot with all maps initialized.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		ButtonCounts:    map[string]ButtonCount{},
		WordCounts:      map[string]int{},
		TouchCounts:     map[string]int{},
		TimeBlockCounts: map[int]int{},
		PosCounts:       map[string]int{},
		PosSequences:    map[string]int{},
		Devices:         map[string]DeviceUsage{},
		Locations:       map[string]LocationUsage{},
	}
}

// Rollup is the finalized, user-facing report unit: a Snapshot plus
// derived rates, ranked frequency lists, and optional per-day or per-hour
// nested rollups.
type Rollup struct {
	Snapshot

	TotalButtons  int `json:"total_buttons"`
	UniqueButtons int `json:"unique_buttons"`
	TotalWords    int `json:"total_words"`
	UniqueWords   int `json:"unique_words"`

	WordsPerUtterance   float64 `json:"words_per_utterance"`
	ButtonsPerUtterance float64 `json:"buttons_per_utterance"`
	WordsPerMinute      float64 `json:"words_per_minute"`
	ButtonsPerMinute    float64 `json:"buttons_per_minute"`
	UtterancesPerMinute float64 `json:"utterances_per_minute"`

	WordsByFrequency   []WordCount   `json:"words_by_frequency"`
	ButtonsByFrequency []ButtonCount `json:"buttons_by_frequency"`

	MaxTouches   int `json:"max_touches,omitempty"`
	MaxTimeBlock int `json:"max_time_block,omitempty"`

	Days  map[string]*Rollup `json:"days,omitempty"`  // keyed "2006-01-02"
	Hours map[int]*Rollup    `json:"hours,omitempty"` // keyed 0-23

	StartAt string `json:"start_at,omitempty"` // ISO 8601, UTC
	EndAt   string `json:"end_at,omitempty"`
	Cached  bool   `json:"cached,omitempty"`
}

// WeeklySummary is one precomputed week of per-day statistics for a user.
// Summaries are written by the precompute pipeline and read-only to the
// report engine.
type WeeklySummary struct {
	ID       string                 `json:"id"`
	UserID   string                 `json:"user_id"`
	WeekYear int                    `json:"weekyear"` // ISO year*100 + ISO week
	Days     map[string]*DaySummary `json:"days"`     // keyed "2006-01-02"
}

// DaySummary holds one day's total Snapshot plus per-group sub-splits so
// cached reports can still filter by device or location.
type DaySummary struct {
	Total  *Snapshot        `json:"total"`
	Groups []*GroupSnapshot `json:"group_counts,omitempty"`
}

// GroupSnapshot is a Snapshot restricted to one (device, geo cluster,
// ip cluster) combination within a day.
type GroupSnapshot struct {
	DeviceID     string `json:"device_id,omitempty"`
	GeoClusterID string `json:"geo_cluster_id,omitempty"`
	IPClusterID  string `json:"ip_cluster_id,omitempty"`
	Snapshot
}
