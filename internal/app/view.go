package app

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/serenade/internal/playback"
	"github.com/llehouerou/serenade/internal/ui/headerbar"
	"github.com/llehouerou/serenade/internal/ui/playerbar"
	"github.com/llehouerou/serenade/internal/ui/render"
	"github.com/llehouerou/serenade/internal/ui/styles"
)

// statusHeight is the single line used for notices and the search input.
const statusHeight = 1

var viewTabs = []headerbar.Tab{
	{Name: ViewAll.String()},
	{Name: ViewFavorites.String()},
	{Name: ViewRecent.String()},
}

// View renders the application UI.
func (m Model) View() string {
	if m.quitting || m.width == 0 || m.height == 0 {
		return ""
	}

	tabs := viewTabs
	if m.view == ViewSearch {
		tabs = slices.Concat(viewTabs, []headerbar.Tab{{Name: ViewSearch.String()}})
	}

	parts := []string{
		headerbar.Render(tabs, int(m.view), m.width),
		m.list.View(),
		m.statusLine(),
		playerbar.Render(m.playerState(), m.width),
	}
	if h := m.help.View(m.helpMap); h != "" {
		parts = append(parts, h)
	}
	return strings.Join(parts, "\n")
}

func (m Model) playerState() playerbar.State {
	favorite := m.snap.Track != nil && m.favorites[m.snap.Track.ID]
	return playerbar.NewState(m.snap, favorite, m.playerMode)
}

// statusLine shows the search input while searching, otherwise the
// current notice.
func (m Model) statusLine() string {
	if m.view == ViewSearch {
		return m.search.View()
	}
	if m.notice == nil {
		return ""
	}
	text := render.Truncate(render.Sanitize(m.notice.text), m.width)
	return noticeStyle(m.notice.severity).Render(text)
}

func noticeStyle(s playback.Severity) lipgloss.Style {
	st := styles.T().S()
	switch s {
	case playback.SeverityError:
		return st.Error
	case playback.SeverityWarning:
		return st.Warning
	case playback.SeveritySuccess:
		return st.Success
	case playback.SeverityInfo:
		return st.Info
	default:
		return st.Base
	}
}

// listHeight is what remains of the terminal once the fixed bars are laid out.
func (m Model) listHeight() int {
	used := headerbar.Height + statusHeight + playerbar.Height(m.playerMode)
	if h := m.help.View(m.helpMap); h != "" {
		used += lipgloss.Height(h)
	}
	return max(m.height-used, 0)
}
