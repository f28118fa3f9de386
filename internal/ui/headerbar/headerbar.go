// Package headerbar renders the title line with the view tabs.
package headerbar

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/llehouerou/serenade/internal/ui/render"
	"github.com/llehouerou/serenade/internal/ui/styles"
)

// Height is the fixed height of the header bar (single line).
const Height = 1

// Brand is the name shown on the left of the header.
const Brand = "Serenade"

// Tab is one view shown in the header.
type Tab struct {
	Key  string
	Name string
}

func activeStyle() lipgloss.Style {
	return styles.T().S().Active
}

func inactiveStyle() lipgloss.Style {
	return styles.T().S().Muted
}

func separatorStyle() lipgloss.Style {
	return styles.T().S().Subtle
}

// Render returns the header for the given width: the brand on the left and
// the tabs on the right, with tabs[active] highlighted.
func Render(tabs []Tab, active, width int) string {
	if width <= 0 {
		return ""
	}
	t := styles.T()
	brand := styles.Gradient(Brand, t.Primary, t.Secondary)

	parts := make([]string, 0, len(tabs))
	for i, tab := range tabs {
		label := tab.Name
		if tab.Key != "" {
			label = tab.Key + " " + tab.Name
		}
		if i == active {
			parts = append(parts, activeStyle().Render(label))
		} else {
			parts = append(parts, inactiveStyle().Render(label))
		}
	}
	content := strings.Join(parts, separatorStyle().Render(" │ "))

	if lipgloss.Width(brand)+lipgloss.Width(content)+1 > width {
		return render.Truncate(Brand, width)
	}
	return render.Row(brand, content, width)
}
