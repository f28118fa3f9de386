package state

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite" // SQLite driver
)

const (
	appName      = "serenade"
	dbFileName   = "serenade.db"
	saveDebounce = 500 * time.Millisecond
)

type Manager struct {
	db     *sql.DB
	logger zerolog.Logger

	saveMu    sync.Mutex
	saveTimer *time.Timer
	pending   *Settings
}

// Open opens the database at the xdg data path.
func Open(logger zerolog.Logger) (*Manager, error) {
	dbPath, err := getDBPath()
	if err != nil {
		return nil, err
	}
	return OpenPath(dbPath, logger)
}

// OpenPath opens (or creates) the database at path. ":memory:" works for
// tests.
func OpenPath(dbPath string, logger zerolog.Logger) (*Manager, error) {
	if dbPath != ":memory:" {
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, err
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	// One connection keeps :memory: databases alive and serializes writers.
	db.SetMaxOpenConns(1)

	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Manager{db: db, logger: logger}, nil
}

func (m *Manager) Close() error {
	m.saveMu.Lock()
	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}
	pending := m.pending
	m.pending = nil
	m.saveMu.Unlock()

	// Flush pending settings
	if pending != nil {
		if err := saveSettings(context.Background(), m.db, *pending); err != nil {
			m.logger.Warn().Err(err).Msg("flush settings on close")
		}
	}

	return m.db.Close()
}

func (m *Manager) DB() *sql.DB {
	return m.db
}

// SaveSettings stores s after a short quiet period; rapid changes such as
// dragging the volume collapse into one write.
func (m *Manager) SaveSettings(s Settings) {
	m.saveMu.Lock()
	defer m.saveMu.Unlock()

	m.pending = &s

	if m.saveTimer != nil {
		m.saveTimer.Stop()
	}

	m.saveTimer = time.AfterFunc(saveDebounce, func() {
		m.saveMu.Lock()
		pending := m.pending
		m.pending = nil
		m.saveMu.Unlock()

		if pending != nil {
			if err := saveSettings(context.Background(), m.db, *pending); err != nil {
				m.logger.Warn().Err(err).Msg("save settings")
			}
		}
	})
}

// GetSettings returns the saved settings, or nil if none were saved yet.
func (m *Manager) GetSettings() (*Settings, error) {
	return getSettings(context.Background(), m.db)
}

func getDBPath() (string, error) {
	return xdg.DataFile(filepath.Join(appName, dbFileName))
}
