package stats

import (
	"time"

	"vocalog/internal/model"
)

// FromSession converts one session into a normalized partial-statistics
// Snapshot. Missing sub-fields default to empty or zero; a session with
// no embedded stats block still contributes its session count and
// timestamps. This function never fails.
func FromSession(s *model.Session) *model.Snapshot {
	snap := model.NewSnapshot()
	snap.SessionCount = 1
	if !s.StartedAt.IsZero() {
		t := s.StartedAt.UTC()
		snap.StartedAt = &t
	}
	if !s.EndedAt.IsZero() {
		t := s.EndedAt.UTC()
		snap.EndedAt = &t
	}

	if c := s.Counts; c != nil {
		snap.SessionSecondsTotal = c.SessionSeconds
		snap.UtteranceCount = c.Utterances
		snap.UtteranceWordTotal = c.UtteranceWords
		snap.UtteranceButtonTotal = c.UtteranceButtons
		for k, b := range c.ButtonCounts {
			snap.ButtonCounts[k] = b
		}
		for w, n := range c.WordCounts {
			snap.WordCounts[w] = n
		}
		for tag, n := range c.PartsOfSpeech {
			snap.PosCounts[tag] = n
		}
		// touch coordinates are tracked per board; sum across boards
		for _, xs := range c.TouchLocations {
			for x, ys := range xs {
				for y, n := range ys {
					snap.TouchCounts[x+","+y] += n
				}
			}
		}
	}

	for i := range s.Events {
		if ts := s.Events[i].Timestamp; ts != 0 {
			snap.TimeBlockCounts[Block(ts)]++
		}
	}

	tracker := NewSequenceTracker()
	tracker.TrackSession(s.Events)
	snap.PosSequences = tracker.Sequences()

	if s.Device != nil && s.Device.ID != "" {
		snap.Devices[s.Device.ID] = model.DeviceUsage{
			ID:           s.Device.ID,
			Name:         s.Device.Name,
			SessionCount: 1,
			StartedAt:    cloneTime(snap.StartedAt),
			EndedAt:      cloneTime(snap.EndedAt),
		}
	}
	if s.GeoClusterID != "" {
		snap.Locations[s.GeoClusterID] = model.LocationUsage{
			ID:           s.GeoClusterID,
			Type:         model.ClusterGeo,
			SessionCount: 1,
			StartedAt:    cloneTime(snap.StartedAt),
			EndedAt:      cloneTime(snap.EndedAt),
		}
	}
	if s.IPClusterID != "" {
		snap.Locations[s.IPClusterID] = model.LocationUsage{
			ID:           s.IPClusterID,
			Type:         model.ClusterIP,
			SessionCount: 1,
			StartedAt:    cloneTime(snap.StartedAt),
			EndedAt:      cloneTime(snap.EndedAt),
		}
	}

	return snap
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
