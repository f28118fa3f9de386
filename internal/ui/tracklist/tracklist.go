// Package tracklist renders a scrollable view over the playlist.
package tracklist

import (
	"github.com/llehouerou/serenade/internal/keymap"
	"github.com/llehouerou/serenade/internal/playlist"
	"github.com/llehouerou/serenade/internal/ui"
	"github.com/llehouerou/serenade/internal/ui/cursor"
)

// Row is one visible track. Index is its position in the playlist, which
// differs from the row position in filtered views.
type Row struct {
	Index    int
	Track    playlist.Track
	Favorite bool
}

// Model holds the rows of the current view and the cursor over them.
type Model struct {
	ui.Base
	title   string
	rows    []Row
	playing int // playlist index, -1 when nothing is loaded
	cursor  cursor.Cursor
}

// New creates an empty track list.
func New() Model {
	return Model{
		playing: -1,
		cursor:  cursor.New(ui.ScrollMargin),
	}
}

// SetRows replaces the rows and the header title. The cursor stays on the
// same row position, clamped to the new length.
func (m *Model) SetRows(title string, rows []Row) {
	m.title = title
	m.rows = rows
	m.cursor.Clamp(len(m.rows), m.listHeight())
}

// Rows returns the current rows.
func (m Model) Rows() []Row {
	return m.rows
}

// Title returns the header title.
func (m Model) Title() string {
	return m.title
}

// SetPlaying marks the playlist index that is currently loaded.
func (m *Model) SetPlaying(index int) {
	m.playing = index
}

// SetFavorite updates the favorite flag of every row showing the track.
func (m *Model) SetFavorite(id string, favorite bool) {
	for i := range m.rows {
		if m.rows[i].Track.ID == id {
			m.rows[i].Favorite = favorite
		}
	}
}

// SetSize sets the panel dimensions and keeps the cursor visible.
func (m *Model) SetSize(width, height int) {
	m.Base.SetSize(width, height)
	m.cursor.Clamp(len(m.rows), m.listHeight())
}

// Selected returns the row under the cursor.
func (m Model) Selected() (Row, bool) {
	if len(m.rows) == 0 {
		return Row{}, false
	}
	return m.rows[m.cursor.Pos()], true
}

// Cursor returns the cursor row position.
func (m Model) Cursor() int {
	return m.cursor.Pos()
}

// HandleAction applies a list navigation action and reports whether it
// was one.
func (m *Model) HandleAction(action keymap.Action) bool {
	if action == keymap.ActionJumpToPlaying {
		return m.JumpToIndex(m.playing)
	}
	return m.cursor.Handle(action, len(m.rows), m.listHeight())
}

// JumpToIndex centers the cursor on the row showing playlist index. It
// returns false when the track is not in the current view.
func (m *Model) JumpToIndex(index int) bool {
	for pos, r := range m.rows {
		if r.Index == index {
			m.cursor.Center(pos, len(m.rows), m.listHeight())
			return true
		}
	}
	return false
}

func (m Model) listHeight() int {
	_, h := m.Inner()
	return h
}
