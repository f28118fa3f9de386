package state

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// SaveGateSession records an unlock that stays valid until expires.
func (m *Manager) SaveGateSession(unlocked, expires time.Time) error {
	_, err := m.db.ExecContext(context.Background(), `
		INSERT INTO gate_session (id, unlocked_at, expires_at)
		VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			unlocked_at = excluded.unlocked_at,
			expires_at = excluded.expires_at
	`, unlocked.UnixMilli(), expires.UnixMilli())
	return err
}

// GateSessionExpiry returns when the current unlock expires. ok is false
// when no unlock was recorded.
func (m *Manager) GateSessionExpiry() (time.Time, bool, error) {
	var expires int64
	err := m.db.QueryRowContext(context.Background(),
		`SELECT expires_at FROM gate_session WHERE id = 1`).Scan(&expires)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return time.UnixMilli(expires), true, nil
}

// ClearGateSession forgets the unlock.
func (m *Manager) ClearGateSession() error {
	_, err := m.db.ExecContext(context.Background(), `DELETE FROM gate_session`)
	return err
}
