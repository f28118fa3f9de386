package state

import (
	"context"
	"database/sql"
	"time"

	dbutil "github.com/llehouerou/serenade/internal/db"
)

// ToggleFavorite adds or removes a favorite and reports whether the track
// is now a favorite.
func (m *Manager) ToggleFavorite(trackID string) (bool, error) {
	var favorite bool
	err := dbutil.WithTx(context.Background(), m.db, func(tx *sql.Tx) error {
		res, err := tx.Exec(`DELETE FROM favorites WHERE track_id = ?`, trackID)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n > 0 {
			return nil
		}
		_, err = tx.Exec(`INSERT INTO favorites (track_id, added_at) VALUES (?, ?)`,
			trackID, time.Now().UnixMilli())
		favorite = err == nil
		return err
	})
	return favorite, err
}

// IsFavorite reports whether the track is a favorite.
func (m *Manager) IsFavorite(trackID string) (bool, error) {
	var n int
	err := m.db.QueryRowContext(context.Background(),
		`SELECT COUNT(*) FROM favorites WHERE track_id = ?`, trackID).Scan(&n)
	return n > 0, err
}

// Favorites returns favorite track IDs, most recently added first.
func (m *Manager) Favorites() ([]string, error) {
	rows, err := m.db.QueryContext(context.Background(),
		`SELECT track_id FROM favorites ORDER BY added_at DESC, track_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
