package source

import (
	"time"

	"vocalog/internal/model"
)

// rawSessionMeta is the first line of a session log: identity, device and
// cluster references, the recorded time range, and the embedded stats
// block. Event lines decode straight into model.Event.
type rawSessionMeta struct {
	Type         string               `json:"type"`
	ID           string               `json:"id"`
	UserID       string               `json:"user_id"`
	Device       *model.DeviceRef     `json:"device,omitempty"`
	GeoClusterID string               `json:"geo_cluster_id,omitempty"`
	IPClusterID  string               `json:"ip_cluster_id,omitempty"`
	StartedAt    string               `json:"started_at,omitempty"`
	EndedAt      string               `json:"ended_at,omitempty"`
	Stats        *model.SessionCounts `json:"stats,omitempty"`
}

// DiscoveredFile is a session log found during directory scanning.
type DiscoveredFile struct {
	Path      string
	UserID    string // owning user, from the directory name
	SessionID string // extracted from filename
	Size      int64
	ModTime   time.Time
}
