package state

import (
	"context"
	"database/sql"
	"time"

	dbutil "github.com/llehouerou/serenade/internal/db"
)

// RecentEntry is one row of the recently played list.
type RecentEntry struct {
	TrackID  string
	Title    string
	Artist   string
	PlayedAt time.Time
}

// PlayCount is how often a track was started.
type PlayCount struct {
	TrackID      string
	Count        int
	LastPlayedAt time.Time
}

// SaveRecent replaces the recently played list, most recent first.
func (m *Manager) SaveRecent(entries []RecentEntry) error {
	return dbutil.WithTx(context.Background(), m.db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(`DELETE FROM recent_tracks`); err != nil {
			return err
		}

		stmt, err := tx.Prepare(`
			INSERT INTO recent_tracks (position, track_id, title, artist, played_at)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, e := range entries {
			if _, err := stmt.Exec(i, e.TrackID, e.Title, e.Artist, e.PlayedAt.UnixMilli()); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetRecent returns the recently played list, most recent first.
func (m *Manager) GetRecent() ([]RecentEntry, error) {
	rows, err := m.db.QueryContext(context.Background(), `
		SELECT track_id, title, artist, played_at
		FROM recent_tracks
		ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []RecentEntry
	for rows.Next() {
		var e RecentEntry
		var artist sql.Null[string]
		var playedAt int64
		if err := rows.Scan(&e.TrackID, &e.Title, &artist, &playedAt); err != nil {
			return nil, err
		}
		e.Artist = dbutil.Value(artist)
		e.PlayedAt = time.UnixMilli(playedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// RecordPlay increments the play count of a track.
func (m *Manager) RecordPlay(trackID string, at time.Time) error {
	_, err := m.db.ExecContext(context.Background(), `
		INSERT INTO play_counts (track_id, count, last_played_at)
		VALUES (?, 1, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			count = count + 1,
			last_played_at = excluded.last_played_at
	`, trackID, dbutil.UnixMillis(at))
	return err
}

// PlayCounts returns play counts, most played first.
func (m *Manager) PlayCounts() ([]PlayCount, error) {
	rows, err := m.db.QueryContext(context.Background(), `
		SELECT track_id, count, last_played_at
		FROM play_counts
		ORDER BY count DESC, last_played_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []PlayCount
	for rows.Next() {
		var pc PlayCount
		var last sql.Null[int64]
		if err := rows.Scan(&pc.TrackID, &pc.Count, &last); err != nil {
			return nil, err
		}
		pc.LastPlayedAt = dbutil.Time(last)
		counts = append(counts, pc)
	}
	return counts, rows.Err()
}
