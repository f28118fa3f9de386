// Package playerbar renders the now-playing bar at the bottom of the player.
package playerbar

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/serenade/internal/icons"
	"github.com/llehouerou/serenade/internal/library"
	"github.com/llehouerou/serenade/internal/playback"
	"github.com/llehouerou/serenade/internal/ui/render"
)

// DisplayMode controls the player bar appearance.
type DisplayMode int

const (
	ModeCompact  DisplayMode = iota // title line + progress line
	ModeExpanded                    // adds album, genre, up next and source lines
)

// State holds everything needed to render the player bar.
type State struct {
	Status    playback.State
	Title     string
	Artist    string
	Album     string
	Genre     string
	Year      int
	Source    string
	UpNext    string // "Title - Artist" of the track Next would select
	Position  time.Duration
	Duration  time.Duration
	Volume    float64
	Muted     bool
	Shuffle   bool
	Repeat    bool
	FadeInOut bool
	AutoPlay  bool
	Favorite  bool
	Mode      DisplayMode
}

// Height returns the total height of the player bar for the given mode,
// borders included.
func Height(mode DisplayMode) int {
	if mode == ModeExpanded {
		return 7
	}
	return 4
}

// NewState builds a State from an engine snapshot.
func NewState(snap playback.Snapshot, favorite bool, mode DisplayMode) State {
	s := State{
		Status:    snap.State,
		Position:  snap.Position,
		Duration:  snap.Duration,
		Volume:    snap.Volume,
		Muted:     snap.Muted,
		Shuffle:   snap.Shuffle,
		Repeat:    snap.Repeat,
		FadeInOut: snap.FadeInOut,
		AutoPlay:  snap.AutoPlay,
		Favorite:  favorite,
		Mode:      mode,
	}
	if t := snap.Track; t != nil {
		s.Title = t.Title
		s.Artist = t.Artist
		s.Album = t.Album
		s.Genre = t.Genre
		s.Year = t.Year
		s.Source = t.Source
		if s.Duration <= 0 {
			s.Duration = t.Duration
		}
	}
	if n := snap.Next; n != nil && snap.Track != nil && n.ID != snap.Track.ID {
		s.UpNext = n.Title
		if n.Artist != "" {
			s.UpNext += " - " + n.Artist
		}
	}
	return s
}

// Render returns the player bar for the given width.
func Render(s State, width int) string {
	inner := max(width-4, 10)

	lines := []string{
		titleLine(s, inner),
		progressLine(s, inner),
	}
	if s.Mode == ModeExpanded {
		lines = append(lines, detailLines(s, inner)...)
	}

	return barStyle(s.Status == playback.StatePlaying).
		Padding(0, 1).
		Width(width - 2).
		Render(strings.Join(lines, "\n"))
}

func titleLine(s State, width int) string {
	if s.Title == "" {
		return mutedStyle().Render(render.Fit("Nothing playing", width))
	}

	left := statusStyle(s.Status).Render(statusIcon(s.Status)) + "  " + titleStyle().Render(render.Truncate(s.Title, width/2))
	if s.Favorite {
		left += " " + favoriteStyle().Render(icons.Current().Favorite)
	}

	info := s.Artist
	if s.Album != "" && s.Mode == ModeCompact {
		info += " · " + s.Album
	}
	leftWidth := lipgloss.Width(left)
	if room := width - leftWidth - 3; room > 3 && info != "" {
		left += "   " + artistStyle().Render(render.Truncate(info, room))
	}
	return left
}

func progressLine(s State, width int) string {
	right := RenderVolume(s.Volume, s.Muted) + "  " + RenderModes(s)
	timeStr := library.FormatDuration(s.Position) + " / " + library.FormatDuration(s.Duration)
	barWidth := max(width-lipgloss.Width(right)-lipgloss.Width(timeStr)-4, 5)

	return RenderProgressBar(s.Position, s.Duration, barWidth) + "  " +
		timeStyle().Render(timeStr) + "  " + right
}

func detailLines(s State, width int) []string {
	album := s.Album
	if album == "" {
		album = "Unknown Album"
	}
	if s.Year > 0 {
		album += " (" + strconv.Itoa(s.Year) + ")"
	}
	var meta []string
	if s.Genre != "" {
		meta = append(meta, "Genre: "+s.Genre)
	}
	if s.UpNext != "" {
		meta = append(meta, "Up next: "+s.UpNext)
	}
	genre := strings.Join(meta, "   ")
	return []string{
		mutedStyle().Render(render.Fit(album, width)),
		mutedStyle().Render(render.Fit(genre, width)),
		subtleStyle().Render(render.Fit(s.Source, width)),
	}
}

func statusIcon(st playback.State) string {
	ic := icons.Current()
	switch st {
	case playback.StatePlaying:
		return ic.Play
	case playback.StatePaused, playback.StateReady:
		return ic.Pause
	case playback.StateLoading, playback.StateErrored, playback.StateEnded:
		return ic.Loading
	case playback.StateIdle:
		return ic.Stop
	}
	return ic.Stop
}
