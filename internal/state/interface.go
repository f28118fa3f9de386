// internal/state/interface.go
package state

import (
	"database/sql"
	"time"
)

// Interface defines the state manager contract for dependency injection and testing.
type Interface interface {
	DB() *sql.DB
	SaveSettings(s Settings)
	GetSettings() (*Settings, error)
	SaveDuration(trackID string, d time.Duration) error
	Durations() (map[string]time.Duration, error)
	ToggleFavorite(trackID string) (bool, error)
	IsFavorite(trackID string) (bool, error)
	Favorites() ([]string, error)
	SaveRecent(entries []RecentEntry) error
	GetRecent() ([]RecentEntry, error)
	RecordPlay(trackID string, at time.Time) error
	PlayCounts() ([]PlayCount, error)
	SaveGateSession(unlocked, expires time.Time) error
	GateSessionExpiry() (time.Time, bool, error)
	ClearGateSession() error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
