package playerbar

import (
	"fmt"
	"strings"
	"time"

	"github.com/llehouerou/serenade/internal/icons"
	"github.com/llehouerou/serenade/internal/ui/styles"
)

const (
	filledCell = "━"
	emptyCell  = "─"
)

// RenderProgressBar renders a bar of width cells filled in proportion to
// position over duration. An unknown duration renders an empty bar.
func RenderProgressBar(position, duration time.Duration, width int) string {
	filled := filledCells(position, duration, width)
	t := styles.T()
	return styles.GradientBar(filledCell, filled, width, t.Primary, t.Secondary) +
		progressEmptyStyle().Render(strings.Repeat(emptyCell, width-filled))
}

func filledCells(position, duration time.Duration, width int) int {
	if duration <= 0 || position <= 0 || width <= 0 {
		return 0
	}
	ratio := float64(position) / float64(duration)
	return min(int(float64(width)*ratio), width)
}

// RenderVolume renders the volume indicator, e.g. "🔊  70%".
func RenderVolume(volume float64, muted bool) string {
	ic := icons.Current()
	if muted {
		return timeStyle().Render(ic.Mute + " ---%")
	}
	return timeStyle().Render(fmt.Sprintf("%s %3d%%", ic.Volume, int(volume*100+0.5)))
}

// RenderModes renders the mode flags, dimming the disabled ones.
func RenderModes(s State) string {
	ic := icons.Current()
	flags := []struct {
		icon string
		on   bool
	}{
		{ic.Shuffle, s.Shuffle},
		{ic.Repeat, s.Repeat},
		{ic.Fade, s.FadeInOut},
		{ic.AutoPlay, s.AutoPlay},
	}
	parts := make([]string, len(flags))
	for i, f := range flags {
		if f.on {
			parts[i] = activeStyle().Render(f.icon)
		} else {
			parts[i] = subtleStyle().Render(f.icon)
		}
	}
	return strings.Join(parts, " ")
}
