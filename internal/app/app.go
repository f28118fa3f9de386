package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/llehouerou/serenade/internal/errmsg"
	"github.com/llehouerou/serenade/internal/keymap"
	"github.com/llehouerou/serenade/internal/library"
	"github.com/llehouerou/serenade/internal/playback"
	"github.com/llehouerou/serenade/internal/playlist"
	"github.com/llehouerou/serenade/internal/state"
	"github.com/llehouerou/serenade/internal/ui/playerbar"
	"github.com/llehouerou/serenade/internal/ui/tracklist"
)

const (
	defaultSeekStep   = 10 * time.Second
	defaultVolumeStep = 0.05
	defaultNoticeTime = 4 * time.Second
)

// ViewMode selects which tracks the list shows.
type ViewMode int

const (
	ViewAll ViewMode = iota
	ViewFavorites
	ViewRecent
	ViewSearch
)

// String returns the tab name of the view.
func (v ViewMode) String() string {
	switch v {
	case ViewAll:
		return "All"
	case ViewFavorites:
		return "Favorites"
	case ViewRecent:
		return "Recent"
	case ViewSearch:
		return "Search"
	default:
		return "Unknown"
	}
}

// History provides the recently played tracks, newest first.
type History interface {
	Recent() []playlist.Track
}

// Options configures a Model.
type Options struct {
	Service playback.Service
	State   state.Interface
	Notices *NoticeSink
	History History
	Keys    *keymap.Resolver
	Logger  zerolog.Logger

	SeekStep   time.Duration
	VolumeStep float64

	// StartTrackID places the cursor on this track at startup.
	StartTrackID string
}

// notice is the message currently shown in the status line.
type notice struct {
	text     string
	severity playback.Severity
	seq      int
}

// Model is the root bubbletea model of the player.
type Model struct {
	service  playback.Service
	sub      *playback.Subscription
	stateMgr state.Interface
	notices  *NoticeSink
	history  History
	keys     *keymap.Resolver
	logger   zerolog.Logger

	seekStep   time.Duration
	volumeStep float64

	tracks    []playlist.Track
	favorites map[string]bool
	snap      playback.Snapshot

	view       ViewMode
	prevView   ViewMode
	list       tracklist.Model
	search     textinput.Model
	searching  bool
	help       help.Model
	helpMap    keymap.HelpMap
	playerMode playerbar.DisplayMode

	notice    *notice
	noticeSeq int

	width, height int
	quitting      bool
}

// New creates the model and subscribes it to the playback service.
func New(opts Options) Model {
	if opts.Keys == nil {
		opts.Keys = keymap.Default()
	}
	if opts.SeekStep <= 0 {
		opts.SeekStep = defaultSeekStep
	}
	if opts.VolumeStep <= 0 {
		opts.VolumeStep = defaultVolumeStep
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "title, artist, album or genre"
	search.CharLimit = 64

	m := Model{
		service:    opts.Service,
		sub:        opts.Service.Subscribe(),
		stateMgr:   opts.State,
		notices:    opts.Notices,
		history:    opts.History,
		keys:       opts.Keys,
		logger:     opts.Logger,
		seekStep:   opts.SeekStep,
		volumeStep: opts.VolumeStep,
		favorites:  make(map[string]bool),
		list:       tracklist.New(),
		search:     search,
		help:       help.New(),
		helpMap:    keymap.NewHelpMap(keymap.Bindings),
		playerMode: playerbar.ModeCompact,
	}

	if m.stateMgr != nil {
		ids, err := m.stateMgr.Favorites()
		if err != nil {
			m.logger.Warn().Err(err).Msg("loading favorites failed")
			m.setNotice(errmsg.Format(errmsg.OpFavoritesLoad, err), playback.SeverityWarning)
		}
		for _, id := range ids {
			m.favorites[id] = true
		}
	}

	m.list.SetFocused(true)
	m.refresh()
	m.rebuildRows()
	if opts.StartTrackID != "" {
		for i, t := range m.tracks {
			if t.ID == opts.StartTrackID {
				m.list.JumpToIndex(i)
				break
			}
		}
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{TickCmd(), m.WatchServiceEvents(), m.WatchNotices()}
	if m.notice != nil {
		cmds = append(cmds, noticeExpiryCmd(m.notice.seq, defaultNoticeTime))
	}
	return tea.Batch(cmds...)
}

// ViewMode returns the active view mode.
func (m Model) ViewMode() ViewMode {
	return m.view
}

// Snapshot returns the playback state last seen by the UI.
func (m Model) Snapshot() playback.Snapshot {
	return m.snap
}

// refresh re-reads the engine snapshot and the playlist.
func (m *Model) refresh() {
	m.snap = m.service.Snapshot()
	m.tracks = m.service.Tracks()
	m.list.SetPlaying(m.snap.Index)
}

// rebuildRows fills the track list for the active view.
func (m *Model) rebuildRows() {
	var rows []tracklist.Row
	switch m.view {
	case ViewAll:
		rows = make([]tracklist.Row, 0, len(m.tracks))
		for i, t := range m.tracks {
			rows = append(rows, m.row(i, t))
		}
	case ViewFavorites:
		for i, t := range m.tracks {
			if m.favorites[t.ID] {
				rows = append(rows, m.row(i, t))
			}
		}
	case ViewRecent:
		if m.history != nil {
			rows = m.rowsFor(m.history.Recent())
		}
	case ViewSearch:
		for _, i := range library.Search(m.tracks, m.search.Value()) {
			rows = append(rows, m.row(i, m.tracks[i]))
		}
	}
	m.list.SetRows(m.listTitle(), rows)
}

func (m Model) row(index int, t playlist.Track) tracklist.Row {
	return tracklist.Row{Index: index, Track: t, Favorite: m.favorites[t.ID]}
}

// rowsFor maps tracks to rows by ID. Tracks missing from the playlist
// are skipped.
func (m Model) rowsFor(tracks []playlist.Track) []tracklist.Row {
	index := make(map[string]int, len(m.tracks))
	for i, t := range m.tracks {
		index[t.ID] = i
	}
	rows := make([]tracklist.Row, 0, len(tracks))
	for _, t := range tracks {
		if i, ok := index[t.ID]; ok {
			rows = append(rows, m.row(i, m.tracks[i]))
		}
	}
	return rows
}

func (m Model) listTitle() string {
	switch m.view {
	case ViewSearch:
		if q := m.search.Value(); q != "" {
			return "Search: " + q
		}
		return "Search"
	case ViewAll:
		return "Playlist"
	default:
		return m.view.String()
	}
}

func (m *Model) setNotice(text string, severity playback.Severity) int {
	m.noticeSeq++
	m.notice = &notice{text: text, severity: severity, seq: m.noticeSeq}
	return m.noticeSeq
}

// showNotice sets the status line and schedules its removal.
func (m *Model) showNotice(text string, severity playback.Severity, d time.Duration) tea.Cmd {
	if d <= 0 {
		d = defaultNoticeTime
	}
	seq := m.setNotice(text, severity)
	return noticeExpiryCmd(seq, d)
}

// reportError shows err in the status line and logs it.
func (m *Model) reportError(op errmsg.Op, err error) tea.Cmd {
	m.logger.Warn().Err(err).Str("op", string(op)).Msg("action failed")
	return m.showNotice(errmsg.Format(op, err), playback.SeverityError, 0)
}
