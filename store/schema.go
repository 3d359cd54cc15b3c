package store

const createTables = `
CREATE TABLE IF NOT EXISTS analyses (
	id             TEXT PRIMARY KEY,
	source         TEXT NOT NULL,
	total_duration REAL NOT NULL,
	created_at     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS segments (
	analysis_id TEXT NOT NULL REFERENCES analyses(id),
	position    INTEGER NOT NULL,
	chord       TEXT NOT NULL,
	start_time  REAL NOT NULL,
	end_time    REAL NOT NULL,
	duration    REAL NOT NULL,
	PRIMARY KEY (analysis_id, position)
);

CREATE TABLE IF NOT EXISTS chord_counts (
	analysis_id TEXT NOT NULL REFERENCES analyses(id),
	chord       TEXT NOT NULL,
	count       INTEGER NOT NULL,
	PRIMARY KEY (analysis_id, chord)
);

CREATE INDEX IF NOT EXISTS idx_analyses_created_at ON analyses(created_at);
`
