package state

import (
	"database/sql"
)

const currentSchemaVersion = 2

func initSchema(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS settings (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			volume REAL NOT NULL DEFAULT 0.7,
			muted INTEGER NOT NULL DEFAULT 0,
			shuffle INTEGER NOT NULL DEFAULT 0,
			repeat INTEGER NOT NULL DEFAULT 0,
			fade_in_out INTEGER NOT NULL DEFAULT 0,
			auto_play INTEGER NOT NULL DEFAULT 1,
			current_track_id TEXT
		);

		CREATE TABLE IF NOT EXISTS track_durations (
			track_id TEXT PRIMARY KEY,
			duration_ms INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS favorites (
			track_id TEXT PRIMARY KEY,
			added_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS recent_tracks (
			position INTEGER PRIMARY KEY,
			track_id TEXT NOT NULL,
			title TEXT NOT NULL,
			artist TEXT,
			played_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS play_counts (
			track_id TEXT PRIMARY KEY,
			count INTEGER NOT NULL DEFAULT 0,
			last_played_at INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_play_counts_count ON play_counts(count DESC);

		CREATE TABLE IF NOT EXISTS gate_session (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			unlocked_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return err
	}

	// Set initial version if not exists
	_, err = db.Exec(`
		INSERT OR IGNORE INTO schema_version (version) VALUES (?)
	`, currentSchemaVersion)
	if err != nil {
		return err
	}

	// Migration: version 1 had no current track column
	_, _ = db.Exec(`ALTER TABLE settings ADD COLUMN current_track_id TEXT`)

	return nil
}
