package playerbar

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/serenade/internal/playback"
	"github.com/llehouerou/serenade/internal/ui/styles"
)

func barStyle(playing bool) lipgloss.Style {
	return styles.Panel(playing)
}

func titleStyle() lipgloss.Style {
	return styles.T().S().Title
}

func artistStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func mutedStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func subtleStyle() lipgloss.Style {
	return styles.T().S().Subtle
}

func timeStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func activeStyle() lipgloss.Style {
	return styles.T().S().Active
}

func favoriteStyle() lipgloss.Style {
	return styles.T().S().Favorite
}

func progressEmptyStyle() lipgloss.Style {
	return styles.T().S().Subtle
}

func statusStyle(st playback.State) lipgloss.Style {
	switch st {
	case playback.StatePlaying:
		return styles.T().S().Playing
	case playback.StateErrored:
		return styles.T().S().Error
	default:
		return styles.T().S().Muted
	}
}
