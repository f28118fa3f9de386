package tracklist

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/serenade/internal/icons"
	"github.com/llehouerou/serenade/internal/library"
	"github.com/llehouerou/serenade/internal/ui/render"
	"github.com/llehouerou/serenade/internal/ui/styles"
)

const (
	markerWidth   = 2 // playing marker + space
	favoriteWidth = 2 // space + heart
	durationWidth = 8
)

// View renders the panel.
func (m Model) View() string {
	if m.Width() == 0 || m.Height() == 0 {
		return ""
	}

	innerWidth, listHeight := m.Inner()

	content := m.renderHeader(innerWidth) + "\n" +
		render.Separator(innerWidth) + "\n" +
		m.renderRows(innerWidth, listHeight)

	return styles.Panel(m.IsFocused()).
		Width(innerWidth).
		Render(content)
}

func (m Model) renderHeader(width int) string {
	title := headerStyle().Render(render.Truncate(m.title, width/2))
	count := countStyle().Render(strconv.Itoa(len(m.rows)) + " tracks")
	return render.Row(title, count, width)
}

func (m Model) renderRows(width, height int) string {
	if len(m.rows) == 0 {
		lines := make([]string, max(height, 1))
		lines[0] = emptyStyle().Render(render.Fit("No tracks", width))
		for i := 1; i < len(lines); i++ {
			lines[i] = strings.Repeat(" ", width)
		}
		return strings.Join(lines, "\n")
	}

	start, end := m.cursor.VisibleRange(len(m.rows), height)
	lines := make([]string, 0, height)
	for pos := start; pos < end; pos++ {
		lines = append(lines, m.renderRow(m.rows[pos], pos, width))
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(r Row, pos, width int) string {
	ic := icons.Current()
	playing := r.Index == m.playing

	marker := strings.Repeat(" ", markerWidth)
	if playing {
		marker = render.Fit(ic.Playing, markerWidth)
	}

	fav := strings.Repeat(" ", favoriteWidth)
	if r.Favorite {
		fav = " " + favoriteStyle().Render(ic.Favorite)
		fav += strings.Repeat(" ", max(favoriteWidth-lipgloss.Width(fav), 0))
	}

	dur := library.FormatDuration(r.Track.Duration)
	dur = strings.Repeat(" ", max(durationWidth-len(dur), 0)) + dur

	contentWidth := max(width-markerWidth-favoriteWidth-durationWidth, 2)
	titleWidth := contentWidth * 3 / 5
	artistWidth := contentWidth - titleWidth

	title := render.Fit(r.Track.Title, titleWidth)
	artist := artistStyle().Render(render.Fit(r.Track.Artist, artistWidth))

	base := trackStyle()
	if playing {
		base = playingStyle()
	}
	line := base.Render(marker+title) + artist + countStyle().Render(dur) + fav

	if pos == m.cursor.Pos() && m.IsFocused() {
		return cursorStyle().Inherit(base).Render(render.Fit(marker+r.Track.Title, markerWidth+titleWidth)) +
			cursorStyle().Render(render.Fit(r.Track.Artist, artistWidth)+dur) + fav
	}
	return line
}
