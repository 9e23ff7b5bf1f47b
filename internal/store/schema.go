package store

const schemaSQL = `
CREATE TABLE IF NOT EXISTS sessions (
    session_id           TEXT PRIMARY KEY,
    user_id              TEXT NOT NULL,
    device_id            TEXT,
    device_name          TEXT,
    geo_cluster_id       TEXT,
    ip_cluster_id        TEXT,
    started_at           TEXT,
    ended_at             TEXT,
    counts_json          TEXT,
    board_ids_json       TEXT,
    file_path            TEXT NOT NULL,
    file_mtime_ns        INTEGER NOT NULL,
    file_size            INTEGER NOT NULL,
    indexed_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS devices (
    device_id            TEXT NOT NULL,
    user_id              TEXT NOT NULL,
    name                 TEXT,
    last_used_at         TEXT,
    PRIMARY KEY (device_id, user_id)
);

CREATE TABLE IF NOT EXISTS clusters (
    cluster_id           TEXT PRIMARY KEY,
    user_id              TEXT NOT NULL,
    cluster_type         TEXT NOT NULL,
    latitude             REAL,
    longitude            REAL,
    altitude             REAL,
    ip_address           TEXT,
    readable_ip          TEXT
);

CREATE TABLE IF NOT EXISTS weekly_summaries (
    summary_id           TEXT NOT NULL,
    user_id              TEXT NOT NULL,
    weekyear             INTEGER NOT NULL,
    days_json            TEXT NOT NULL,
    built_at             TEXT NOT NULL,
    PRIMARY KEY (user_id, weekyear)
);

CREATE TABLE IF NOT EXISTS file_tracker (
    file_path            TEXT PRIMARY KEY,
    mtime_ns             INTEGER NOT NULL,
    size_bytes           INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sessions_user_start ON sessions(user_id, started_at);
CREATE INDEX IF NOT EXISTS idx_clusters_user ON clusters(user_id);
`
