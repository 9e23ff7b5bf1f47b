// Package store provides the SQLite-backed index of parsed sessions,
// devices, clusters, and precomputed weekly summaries.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // register sqlite driver

	"vocalog/internal/model"
	"vocalog/internal/source"
	"vocalog/internal/stats"
)

// Store wraps the index database. It implements the report engine's
// SessionSource, ClusterResolver, and SummaryCache collaborators.
type Store struct {
	db *sql.DB
}

// Open opens or creates the index database at the given path.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the index database.
func (st *Store) Close() error {
	return st.db.Close()
}

// FileInfo holds the tracked mtime and size for a file.
type FileInfo struct {
	MtimeNs   int64
	SizeBytes int64
}

// TrackedFiles returns a map of file_path -> FileInfo for all tracked files.
func (st *Store) TrackedFiles() (map[string]FileInfo, error) {
	rows, err := st.db.Query("SELECT file_path, mtime_ns, size_bytes FROM file_tracker")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	result := make(map[string]FileInfo)
	for rows.Next() {
		var path string
		var fi FileInfo
		if err := rows.Scan(&path, &fi.MtimeNs, &fi.SizeBytes); err != nil {
			return nil, err
		}
		result[path] = fi
	}
	return result, rows.Err()
}

// SaveSession indexes a parsed session and its file tracking info. The
// session's device reference also refreshes the devices table.
func (st *Store) SaveSession(s *model.Session, mtimeNs, sizeBytes int64) error {
	tx, err := st.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	countsJSON, err := json.Marshal(s.Counts)
	if err != nil {
		return err
	}
	boardsJSON, err := json.Marshal(s.BoardIDs)
	if err != nil {
		return err
	}

	now := time.Now().UTC().Format(time.RFC3339)
	var deviceID, deviceName string
	if s.Device != nil {
		deviceID = s.Device.ID
		deviceName = s.Device.Name
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO sessions
		(session_id, user_id, device_id, device_name, geo_cluster_id, ip_cluster_id,
		 started_at, ended_at, counts_json, board_ids_json,
		 file_path, file_mtime_ns, file_size, indexed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.UserID, deviceID, deviceName, s.GeoClusterID, s.IPClusterID,
		timeColumn(s.StartedAt), timeColumn(s.EndedAt), string(countsJSON), string(boardsJSON),
		s.FilePath, mtimeNs, sizeBytes, now,
	)
	if err != nil {
		return err
	}

	if deviceID != "" {
		_, err = tx.Exec(`INSERT INTO devices (device_id, user_id, name, last_used_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT (device_id, user_id) DO UPDATE SET
				name = excluded.name,
				last_used_at = MAX(last_used_at, excluded.last_used_at)`,
			deviceID, s.UserID, deviceName, timeColumn(s.EndedAt),
		)
		if err != nil {
			return err
		}
	}

	_, err = tx.Exec(`INSERT OR REPLACE INTO file_tracker (file_path, mtime_ns, size_bytes)
		VALUES (?, ?, ?)`, s.FilePath, mtimeNs, sizeBytes)
	if err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteSessionByPath removes the indexed session and tracking entry for
// a log file that disappeared.
func (st *Store) DeleteSessionByPath(filePath string) error {
	if _, err := st.db.Exec("DELETE FROM sessions WHERE file_path = ?", filePath); err != nil {
		return err
	}
	_, err := st.db.Exec("DELETE FROM file_tracker WHERE file_path = ?", filePath)
	return err
}

// FindSessions returns the user's sessions matching the query, with
// events reloaded from the underlying log files. A log file that has
// vanished since indexing yields its indexed record without events.
func (st *Store) FindSessions(ctx context.Context, userID string, q stats.Query) ([]*model.Session, error) {
	known, err := st.userKnown(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, stats.ErrUserNotFound
	}

	query := `SELECT session_id, user_id, device_id, device_name, geo_cluster_id, ip_cluster_id,
		started_at, ended_at, counts_json, board_ids_json, file_path
		FROM sessions WHERE user_id = ?`
	args := []any{userID}

	if !q.Start.IsZero() {
		query += " AND started_at >= ?"
		args = append(args, q.Start.UTC().Format(time.RFC3339))
	}
	if !q.End.IsZero() {
		query += " AND started_at <= ?"
		args = append(args, q.End.UTC().Format(time.RFC3339))
	}
	switch q.ClusterType {
	case model.ClusterGeo:
		query += " AND geo_cluster_id = ?"
		args = append(args, q.ClusterID)
	case model.ClusterIP:
		query += " AND ip_cluster_id = ?"
		args = append(args, q.ClusterID)
	}
	query += " ORDER BY started_at"

	rows, err := st.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var sessions []*model.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		if len(q.DeviceIDs) > 0 && (s.Device == nil || !containsStr(q.DeviceIDs, s.Device.ID)) {
			continue
		}
		if len(q.BoardIDs) > 0 && !anyBoard(s, q.BoardIDs) {
			continue
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, s := range sessions {
		loadEvents(s)
	}
	return sessions, nil
}

func (st *Store) userKnown(ctx context.Context, userID string) (bool, error) {
	var n int
	err := st.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions WHERE user_id = ?", userID).Scan(&n)
	return n > 0, err
}

func scanSession(rows *sql.Rows) (*model.Session, error) {
	var (
		s                      model.Session
		deviceID, deviceName   sql.NullString
		geoCluster, ipCluster  sql.NullString
		startedStr, endedStr   sql.NullString
		countsJSON, boardsJSON sql.NullString
	)
	err := rows.Scan(&s.ID, &s.UserID, &deviceID, &deviceName, &geoCluster, &ipCluster,
		&startedStr, &endedStr, &countsJSON, &boardsJSON, &s.FilePath)
	if err != nil {
		return nil, err
	}

	if deviceID.String != "" {
		s.Device = &model.DeviceRef{ID: deviceID.String, Name: deviceName.String}
	}
	s.GeoClusterID = geoCluster.String
	s.IPClusterID = ipCluster.String
	if startedStr.String != "" {
		s.StartedAt, _ = time.Parse(time.RFC3339, startedStr.String)
	}
	if endedStr.String != "" {
		s.EndedAt, _ = time.Parse(time.RFC3339, endedStr.String)
	}
	if countsJSON.String != "" && countsJSON.String != "null" {
		var counts model.SessionCounts
		if err := json.Unmarshal([]byte(countsJSON.String), &counts); err == nil {
			s.Counts = &counts
		}
	}
	if boardsJSON.String != "" && boardsJSON.String != "null" {
		_ = json.Unmarshal([]byte(boardsJSON.String), &s.BoardIDs)
	}
	return &s, nil
}

// loadEvents re-reads the session's log file for its event stream. The
// index row stays authoritative for identity and counts.
func loadEvents(s *model.Session) {
	if s.FilePath == "" {
		return
	}
	res := source.ParseFile(source.DiscoveredFile{
		Path:      s.FilePath,
		UserID:    s.UserID,
		SessionID: s.ID,
	})
	if res.Err != nil || res.Session == nil {
		return
	}
	s.Events = res.Session.Events
	if len(res.Session.BoardIDs) > 0 {
		s.BoardIDs = res.Session.BoardIDs
	}
}

// SaveCluster upserts a location cluster record.
func (st *Store) SaveCluster(c *model.Cluster) error {
	_, err := st.db.Exec(`INSERT OR REPLACE INTO clusters
		(cluster_id, user_id, cluster_type, latitude, longitude, altitude, ip_address, readable_ip)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.UserID, c.Type, c.Latitude, c.Longitude, c.Altitude, c.IPAddress, c.ReadableIP,
	)
	return err
}

// ResolveCluster looks up a location cluster for the user.
func (st *Store) ResolveCluster(ctx context.Context, userID, clusterID string) (*model.Cluster, error) {
	var c model.Cluster
	err := st.db.QueryRowContext(ctx, `SELECT cluster_id, user_id, cluster_type,
		latitude, longitude, altitude, ip_address, readable_ip
		FROM clusters WHERE cluster_id = ? AND user_id = ?`, clusterID, userID).
		Scan(&c.ID, &c.UserID, &c.Type, &c.Latitude, &c.Longitude, &c.Altitude, &c.IPAddress, &c.ReadableIP)
	if err == sql.ErrNoRows {
		return nil, stats.ErrClusterNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// HasSummaries reports whether any weekly summaries exist for the user.
func (st *Store) HasSummaries(ctx context.Context, userID string) (bool, error) {
	var n int
	err := st.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM weekly_summaries WHERE user_id = ?", userID).Scan(&n)
	return n > 0, err
}

// Summary loads one precomputed week, or (nil, nil) if it was never built.
func (st *Store) Summary(ctx context.Context, userID string, weekYear int) (*model.WeeklySummary, error) {
	var id, daysJSON string
	err := st.db.QueryRowContext(ctx,
		"SELECT summary_id, days_json FROM weekly_summaries WHERE user_id = ? AND weekyear = ?",
		userID, weekYear).Scan(&id, &daysJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	summary := &model.WeeklySummary{ID: id, UserID: userID, WeekYear: weekYear}
	if err := json.Unmarshal([]byte(daysJSON), &summary.Days); err != nil {
		return nil, fmt.Errorf("decoding summary %s/%d: %w", userID, weekYear, err)
	}
	return summary, nil
}

// SaveSummary upserts one precomputed week. A new row gets a fresh id;
// rebuilding an existing week keeps its id.
func (st *Store) SaveSummary(summary *model.WeeklySummary) error {
	daysJSON, err := json.Marshal(summary.Days)
	if err != nil {
		return err
	}
	if summary.ID == "" {
		summary.ID = uuid.NewString()
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = st.db.Exec(`INSERT INTO weekly_summaries (summary_id, user_id, weekyear, days_json, built_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, weekyear) DO UPDATE SET
			days_json = excluded.days_json,
			built_at = excluded.built_at`,
		summary.ID, summary.UserID, summary.WeekYear, string(daysJSON), now,
	)
	return err
}

// ListUsers returns every user id with at least one indexed session.
func (st *Store) ListUsers(ctx context.Context) ([]string, error) {
	rows, err := st.db.QueryContext(ctx,
		"SELECT DISTINCT user_id FROM sessions ORDER BY user_id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var users []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// ListDevices returns the user's devices, most recently used first.
func (st *Store) ListDevices(ctx context.Context, userID string) ([]model.Device, error) {
	rows, err := st.db.QueryContext(ctx, `SELECT device_id, user_id, name, last_used_at
		FROM devices WHERE user_id = ? ORDER BY last_used_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var devices []model.Device
	for rows.Next() {
		var d model.Device
		var lastUsed sql.NullString
		if err := rows.Scan(&d.ID, &d.UserID, &d.Name, &lastUsed); err != nil {
			return nil, err
		}
		if lastUsed.String != "" {
			d.LastUsedAt, _ = time.Parse(time.RFC3339, lastUsed.String)
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

// SessionCount returns the number of indexed sessions.
func (st *Store) SessionCount() (int, error) {
	var count int
	err := st.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count)
	return count, err
}

func timeColumn(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func containsStr(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func anyBoard(s *model.Session, boardIDs []string) bool {
	for _, id := range boardIDs {
		if s.HasBoard(id) {
			return true
		}
	}
	return false
}
