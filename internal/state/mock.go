// internal/state/mock.go
package state

import (
	"database/sql"
	"slices"
	"sync"
	"time"
)

// Mock is an in-memory test double for Manager.
type Mock struct {
	mu sync.Mutex

	settings    *Settings
	saves       int
	durations   map[string]time.Duration
	favorites   []string
	recent      []RecentEntry
	playCounts  map[string]*PlayCount
	gateExpires time.Time
	closed      bool
}

// NewMock creates a new mock state manager for testing.
func NewMock() *Mock {
	return &Mock{
		durations:  make(map[string]time.Duration),
		playCounts: make(map[string]*PlayCount),
	}
}

func (m *Mock) DB() *sql.DB { return nil }

func (m *Mock) SaveSettings(s Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	m.saves++
}

func (m *Mock) GetSettings() (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings == nil {
		return nil, nil //nolint:nilnil // mirrors Manager
	}
	s := *m.settings
	return &s, nil
}

func (m *Mock) SaveDuration(trackID string, d time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if trackID != "" && d > 0 {
		m.durations[trackID] = d
	}
	return nil
}

func (m *Mock) Durations() (map[string]time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]time.Duration, len(m.durations))
	for k, v := range m.durations {
		out[k] = v
	}
	return out, nil
}

func (m *Mock) ToggleFavorite(trackID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := slices.Index(m.favorites, trackID); i >= 0 {
		m.favorites = slices.Delete(m.favorites, i, i+1)
		return false, nil
	}
	m.favorites = append([]string{trackID}, m.favorites...)
	return true, nil
}

func (m *Mock) IsFavorite(trackID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Contains(m.favorites, trackID), nil
}

func (m *Mock) Favorites() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.favorites), nil
}

func (m *Mock) SaveRecent(entries []RecentEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recent = slices.Clone(entries)
	return nil
}

func (m *Mock) GetRecent() ([]RecentEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.recent), nil
}

func (m *Mock) RecordPlay(trackID string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pc, ok := m.playCounts[trackID]
	if !ok {
		pc = &PlayCount{TrackID: trackID}
		m.playCounts[trackID] = pc
	}
	pc.Count++
	pc.LastPlayedAt = at
	return nil
}

func (m *Mock) PlayCounts() ([]PlayCount, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]PlayCount, 0, len(m.playCounts))
	for _, pc := range m.playCounts {
		out = append(out, *pc)
	}
	slices.SortFunc(out, func(a, b PlayCount) int { return b.Count - a.Count })
	return out, nil
}

func (m *Mock) SaveGateSession(_, expires time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gateExpires = expires
	return nil
}

func (m *Mock) GateSessionExpiry() (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gateExpires, !m.gateExpires.IsZero(), nil
}

func (m *Mock) ClearGateSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gateExpires = time.Time{}
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetSettings(s *Settings) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = s
}

// SettingsSaves returns how often SaveSettings was called.
func (m *Mock) SettingsSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Mock) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
