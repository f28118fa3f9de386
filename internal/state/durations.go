package state

import (
	"context"
	"time"
)

// SaveDuration remembers a track length learned from the audio file so the
// library can show it before the track is played again.
func (m *Manager) SaveDuration(trackID string, d time.Duration) error {
	if trackID == "" || d <= 0 {
		return nil
	}
	_, err := m.db.ExecContext(context.Background(), `
		INSERT INTO track_durations (track_id, duration_ms, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(track_id) DO UPDATE SET
			duration_ms = excluded.duration_ms,
			updated_at = excluded.updated_at
	`, trackID, d.Milliseconds(), time.Now().UnixMilli())
	return err
}

// Durations returns every remembered track length by track ID.
func (m *Manager) Durations() (map[string]time.Duration, error) {
	rows, err := m.db.QueryContext(context.Background(), `SELECT track_id, duration_ms FROM track_durations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]time.Duration)
	for rows.Next() {
		var id string
		var ms int64
		if err := rows.Scan(&id, &ms); err != nil {
			return nil, err
		}
		out[id] = time.Duration(ms) * time.Millisecond
	}
	return out, rows.Err()
}
