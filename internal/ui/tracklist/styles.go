package tracklist

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/serenade/internal/ui/styles"
)

func headerStyle() lipgloss.Style {
	return styles.T().S().Title
}

func countStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func trackStyle() lipgloss.Style {
	return styles.T().S().Base
}

func artistStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func playingStyle() lipgloss.Style {
	return styles.T().S().Playing
}

func cursorStyle() lipgloss.Style {
	return styles.T().S().Cursor
}

func favoriteStyle() lipgloss.Style {
	return styles.T().S().Favorite
}

func emptyStyle() lipgloss.Style {
	return styles.T().S().Subtle
}
