package stats

import (
	"context"
	"time"

	"vocalog/internal/model"
)

const dateLayout = "2006-01-02"

// windowCap is the hard limit on a report window: six months, counted
// as a flat 180 days.
const windowCap = 180 * 24 * time.Hour

// Options are the caller-supplied report parameters. A zero Start
// defaults to DefaultMonths calendar months before the end (two when
// unset), clamped to the window cap. Singular and plural filter forms
// may both be set; singular wins when non-blank.
type Options struct {
	Start time.Time
	End   time.Time

	// DefaultMonths sizes the window when Start is zero. 0 means 2.
	DefaultMonths int

	DeviceID  string
	DeviceIDs []string

	LocationID  string
	LocationIDs []string

	BoardID  string
	BoardIDs []string
}

// Window is a resolved, day-aligned UTC report range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Query is the normalized session lookup passed to a SessionSource.
type Query struct {
	Start time.Time
	End   time.Time

	DeviceIDs []string

	// ClusterType/ClusterID restrict to sessions in one resolved
	// cluster. Empty means no location restriction.
	ClusterType string
	ClusterID   string

	BoardIDs []string
}

// SessionSource finds a user's sessions in a window. Implementations
// must return ErrUserNotFound for unknown users and an empty slice (not
// an error) for known users with no matching sessions.
type SessionSource interface {
	FindSessions(ctx context.Context, userID string, q Query) ([]*model.Session, error)
}

// ClusterResolver resolves a location cluster reference. Implementations
// must return ErrClusterNotFound for unknown ids.
type ClusterResolver interface {
	ResolveCluster(ctx context.Context, userID, clusterID string) (*model.Cluster, error)
}

// SummaryCache provides precomputed weekly summaries. Summary returns
// (nil, nil) for weeks that were never precomputed; the engine treats
// those days as zero rather than recomputing them live.
type SummaryCache interface {
	HasSummaries(ctx context.Context, userID string) (bool, error)
	Summary(ctx context.Context, userID string, weekYear int) (*model.WeeklySummary, error)
}

// Assembler computes usage reports from its collaborators. All lookups
// are read-only; one report request owns its whole Snapshot graph, so an
// Assembler is safe for concurrent use.
type Assembler struct {
	Sessions  SessionSource
	Clusters  ClusterResolver
	Summaries SummaryCache // optional; nil disables the cached path

	// Now is a test hook for window defaulting. Defaults to time.Now.
	Now func() time.Time
}

type filters struct {
	deviceIDs   []string
	locationIDs []string
	boardIDs    []string
}

func (f filters) active() bool {
	return len(f.deviceIDs) > 0 || len(f.locationIDs) > 0
}

func (a *Assembler) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

// resolve normalizes the requested window and filters. It fails fast on
// an oversized window, before any lookup is issued.
func (a *Assembler) resolve(opts Options) (Window, filters, error) {
	end := opts.End
	if end.IsZero() {
		end = a.now()
	}
	end = endOfDayUTC(end)

	start := opts.Start
	defaulted := start.IsZero()
	if defaulted {
		months := opts.DefaultMonths
		if months <= 0 {
			months = 2
		}
		start = end.AddDate(0, -months, 0)
	}
	start = startOfDayUTC(start)

	if end.Sub(start) > windowCap {
		if !defaulted {
			return Window{}, filters{}, ErrWindowTooLarge
		}
		// A defaulted window never fails: a configured six-month
		// default clamps to the cap instead.
		start = startOfDayUTC(end.AddDate(0, 0, -179))
	}

	f := filters{
		deviceIDs:   normalizeFilter(opts.DeviceID, opts.DeviceIDs),
		locationIDs: normalizeFilter(opts.LocationID, opts.LocationIDs),
		boardIDs:    normalizeFilter(opts.BoardID, opts.BoardIDs),
	}
	return Window{Start: start, End: end}, f, nil
}

func (a *Assembler) findSessions(ctx context.Context, userID string, win Window, f filters) ([]*model.Session, error) {
	q := Query{
		Start:     win.Start,
		End:       win.End,
		DeviceIDs: f.deviceIDs,
		BoardIDs:  f.boardIDs,
	}
	if len(f.locationIDs) > 0 {
		// Only one location filter is supported per report; clusters of
		// different types cannot be queried together.
		cluster, err := a.Clusters.ResolveCluster(ctx, userID, f.locationIDs[0])
		if err != nil {
			return nil, err
		}
		q.ClusterType = cluster.Type
		q.ClusterID = cluster.ID
	}
	return a.Sessions.FindSessions(ctx, userID, q)
}

// WindowSessions resolves the window and filters the same way a report
// does and returns the raw matching sessions, for listings and exports.
func (a *Assembler) WindowSessions(ctx context.Context, userID string, opts Options) ([]*model.Session, Window, error) {
	win, f, err := a.resolve(opts)
	if err != nil {
		return nil, Window{}, err
	}
	sessions, err := a.findSessions(ctx, userID, win, f)
	if err != nil {
		return nil, Window{}, err
	}
	return sessions, win, nil
}

// DailyUse computes a live usage report: every matching session is
// re-read and folded, with one nested Rollup per calendar day in the
// window.
func (a *Assembler) DailyUse(ctx context.Context, userID string, opts Options) (*model.Rollup, error) {
	win, f, err := a.resolve(opts)
	if err != nil {
		return nil, err
	}
	sessions, err := a.findSessions(ctx, userID, win, f)
	if err != nil {
		return nil, err
	}

	snaps := make([]*model.Snapshot, len(sessions))
	daySnaps := make(map[string][]*model.Snapshot)
	for i, s := range sessions {
		snaps[i] = FromSession(s)
		key := s.StartedAt.UTC().Format(dateLayout)
		daySnaps[key] = append(daySnaps[key], snaps[i])
	}

	r := Finalize(Merge(snaps...))
	r.Days = make(map[string]*model.Rollup)
	for d := win.Start; !d.After(win.End); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		r.Days[key] = Finalize(Merge(daySnaps[key]...))
	}

	a.decorateLocations(ctx, userID, r)
	r.StartAt = win.Start.Format(time.RFC3339)
	r.EndAt = win.End.Format(time.RFC3339)
	return r, nil
}

// HourlyUse computes a time-of-day report: 24 hour buckets aggregating
// every matching session by its start hour, regardless of calendar day.
func (a *Assembler) HourlyUse(ctx context.Context, userID string, opts Options) (*model.Rollup, error) {
	win, f, err := a.resolve(opts)
	if err != nil {
		return nil, err
	}
	sessions, err := a.findSessions(ctx, userID, win, f)
	if err != nil {
		return nil, err
	}

	snaps := make([]*model.Snapshot, len(sessions))
	var hourSnaps [24][]*model.Snapshot
	for i, s := range sessions {
		snaps[i] = FromSession(s)
		h := s.StartedAt.UTC().Hour()
		hourSnaps[h] = append(hourSnaps[h], snaps[i])
	}

	r := Finalize(Merge(snaps...))
	r.Hours = make(map[int]*model.Rollup, 24)
	for h := 0; h < 24; h++ {
		r.Hours[h] = Finalize(Merge(hourSnaps[h]...))
	}

	a.decorateLocations(ctx, userID, r)
	r.StartAt = win.Start.Format(time.RFC3339)
	r.EndAt = win.End.Format(time.RFC3339)
	return r, nil
}

// CachedDailyUse computes the daily report from precomputed weekly
// summaries when any exist for the user, falling back to DailyUse
// otherwise. Days inside weeks that were never summarized report zero; a
// missing week never triggers a live recomputation, a deliberate
// precision/availability trade-off that keeps cached reports cheap.
func (a *Assembler) CachedDailyUse(ctx context.Context, userID string, opts Options) (*model.Rollup, error) {
	if a.Summaries == nil {
		return a.DailyUse(ctx, userID, opts)
	}
	has, err := a.Summaries.HasSummaries(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !has {
		return a.DailyUse(ctx, userID, opts)
	}

	win, f, err := a.resolve(opts)
	if err != nil {
		return nil, err
	}

	summaries := make(map[int]*model.WeeklySummary)
	var all []*model.Snapshot
	days := make(map[string]*model.Rollup)

	for d := win.Start; !d.After(win.End); d = d.AddDate(0, 0, 1) {
		wy := WeekYear(d)
		summary, ok := summaries[wy]
		if !ok {
			summary, err = a.Summaries.Summary(ctx, userID, wy)
			if err != nil {
				return nil, err
			}
			summaries[wy] = summary
		}

		key := d.Format(dateLayout)
		var parts []*model.Snapshot
		if summary != nil {
			if day := summary.Days[key]; day != nil {
				if f.active() {
					for _, g := range day.Groups {
						if f.matchesGroup(g) {
							parts = append(parts, &g.Snapshot)
						}
					}
				} else {
					parts = []*model.Snapshot{day.Total}
				}
			}
		}

		merged := Merge(parts...)
		all = append(all, merged)
		days[key] = Finalize(merged)
	}

	r := Finalize(Merge(all...))
	r.Days = days
	a.decorateLocations(ctx, userID, r)
	r.StartAt = win.Start.Format(time.RFC3339)
	r.EndAt = win.End.Format(time.RFC3339)
	r.Cached = true
	return r, nil
}

// matchesGroup applies device/location filters to a summary sub-split.
func (f filters) matchesGroup(g *model.GroupSnapshot) bool {
	if len(f.deviceIDs) > 0 && !contains(f.deviceIDs, g.DeviceID) {
		return false
	}
	if len(f.locationIDs) > 0 &&
		!contains(f.locationIDs, g.GeoClusterID) &&
		!contains(f.locationIDs, g.IPClusterID) {
		return false
	}
	return true
}

// decorateLocations fills in geo coordinates and IP details on the
// top-level location breakdown. Unresolvable clusters keep their bare
// usage entry; decoration is never fatal.
func (a *Assembler) decorateLocations(ctx context.Context, userID string, r *model.Rollup) {
	if a.Clusters == nil {
		return
	}
	for id, loc := range r.Locations {
		cluster, err := a.Clusters.ResolveCluster(ctx, userID, id)
		if err != nil || cluster == nil {
			continue
		}
		loc.Type = cluster.Type
		switch cluster.Type {
		case model.ClusterGeo:
			loc.Geo = &model.GeoPoint{
				Latitude:  cluster.Latitude,
				Longitude: cluster.Longitude,
				Altitude:  cluster.Altitude,
			}
		case model.ClusterIP:
			loc.IPAddress = cluster.IPAddress
			loc.ReadableIP = cluster.ReadableIP
		}
		r.Locations[id] = loc
	}
}

// WeekYear returns the ISO week key (year*100 + week) used to address
// weekly summaries.
func WeekYear(t time.Time) int {
	y, w := t.UTC().ISOWeek()
	return y*100 + w
}

func normalizeFilter(singular string, plural []string) []string {
	if singular != "" {
		return []string{singular}
	}
	var out []string
	for _, v := range plural {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func startOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDayUTC(t time.Time) time.Time {
	return startOfDayUTC(t).AddDate(0, 0, 1).Add(-time.Second)
}
