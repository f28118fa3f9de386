package state

import (
	"context"
	"database/sql"
	"errors"

	dbutil "github.com/llehouerou/serenade/internal/db"
)

// Settings are the player preferences that survive a restart.
type Settings struct {
	Volume         float64
	Muted          bool
	Shuffle        bool
	Repeat         bool
	FadeInOut      bool
	AutoPlay       bool
	CurrentTrackID string
}

func getSettings(ctx context.Context, db *sql.DB) (*Settings, error) {
	var s Settings
	var current sql.Null[string]
	row := db.QueryRowContext(ctx, `
		SELECT volume, muted, shuffle, repeat, fade_in_out, auto_play, current_track_id
		FROM settings WHERE id = 1
	`)
	err := row.Scan(&s.Volume, &s.Muted, &s.Shuffle, &s.Repeat, &s.FadeInOut, &s.AutoPlay, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil //nolint:nilnil // no saved settings is not an error
	}
	if err != nil {
		return nil, err
	}
	s.CurrentTrackID = dbutil.Value(current)
	return &s, nil
}

func saveSettings(ctx context.Context, db *sql.DB, s Settings) error {
	var current any
	if s.CurrentTrackID != "" {
		current = s.CurrentTrackID
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO settings (id, volume, muted, shuffle, repeat, fade_in_out, auto_play, current_track_id)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			volume = excluded.volume,
			muted = excluded.muted,
			shuffle = excluded.shuffle,
			repeat = excluded.repeat,
			fade_in_out = excluded.fade_in_out,
			auto_play = excluded.auto_play,
			current_track_id = excluded.current_track_id
	`, s.Volume, s.Muted, s.Shuffle, s.Repeat, s.FadeInOut, s.AutoPlay, current)
	return err
}
