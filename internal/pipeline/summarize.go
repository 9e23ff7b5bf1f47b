package pipeline

import (
	"context"
	"fmt"
	"time"

	"vocalog/internal/model"
	"vocalog/internal/stats"
	"vocalog/internal/store"
)

// SummarizeResult reports one precompute pass.
type SummarizeResult struct {
	Users int
	Weeks int
}

// Summarize precomputes weekly summaries for every indexed user, or for
// a single user when userID is non-empty. Each ISO week a user has
// sessions in gets one summary with per-day totals plus device/location
// sub-splits, so cached reports can still filter.
func Summarize(ctx context.Context, st *store.Store, userID string) (*SummarizeResult, error) {
	users := []string{userID}
	if userID == "" {
		var err error
		users, err = st.ListUsers(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing users: %w", err)
		}
	}

	result := &SummarizeResult{}
	for _, uid := range users {
		weeks, err := summarizeUser(ctx, st, uid)
		if err != nil {
			return nil, fmt.Errorf("summarizing %s: %w", uid, err)
		}
		result.Users++
		result.Weeks += weeks
	}
	return result, nil
}

func summarizeUser(ctx context.Context, st *store.Store, userID string) (int, error) {
	sessions, err := st.FindSessions(ctx, userID, stats.Query{})
	if err != nil {
		return 0, err
	}

	type groupKey struct {
		deviceID string
		geoID    string
		ipID     string
	}
	type dayBuild struct {
		total  *model.Snapshot
		groups map[groupKey]*model.Snapshot
	}

	weeks := make(map[int]map[string]*dayBuild)
	for _, s := range sessions {
		if s.StartedAt.IsZero() {
			continue
		}
		snap := stats.FromSession(s)
		wy := stats.WeekYear(s.StartedAt)
		dayKey := s.StartedAt.UTC().Format("2006-01-02")

		days := weeks[wy]
		if days == nil {
			days = make(map[string]*dayBuild)
			weeks[wy] = days
		}
		day := days[dayKey]
		if day == nil {
			day = &dayBuild{
				total:  model.NewSnapshot(),
				groups: make(map[groupKey]*model.Snapshot),
			}
			days[dayKey] = day
		}

		day.total = stats.Merge(day.total, snap)

		key := groupKey{geoID: s.GeoClusterID, ipID: s.IPClusterID}
		if s.Device != nil {
			key.deviceID = s.Device.ID
		}
		if prev := day.groups[key]; prev != nil {
			day.groups[key] = stats.Merge(prev, snap)
		} else {
			day.groups[key] = stats.Merge(snap)
		}
	}

	for wy, days := range weeks {
		summary := &model.WeeklySummary{
			UserID:   userID,
			WeekYear: wy,
			Days:     make(map[string]*model.DaySummary, len(days)),
		}
		// a rebuild replaces the stored week but keeps its id
		if prev, err := st.Summary(ctx, userID, wy); err != nil {
			return 0, err
		} else if prev != nil {
			summary.ID = prev.ID
		}

		for dayKey, day := range days {
			ds := &model.DaySummary{Total: day.total}
			for key, snap := range day.groups {
				ds.Groups = append(ds.Groups, &model.GroupSnapshot{
					DeviceID:     key.deviceID,
					GeoClusterID: key.geoID,
					IPClusterID:  key.ipID,
					Snapshot:     *snap,
				})
			}
			summary.Days[dayKey] = ds
		}

		if err := st.SaveSummary(summary); err != nil {
			return 0, err
		}
	}
	return len(weeks), nil
}

// WeekStart returns the UTC Monday midnight opening the ISO week that
// contains t. Used by commands that display summary coverage.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	wd := int(day.Weekday())
	if wd == 0 {
		wd = 7 // Sunday closes the ISO week
	}
	return day.AddDate(0, 0, 1-wd)
}
