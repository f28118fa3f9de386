package player

import (
	"math"

	"github.com/gopxl/beep/v2/speaker"
)

// SetVolume sets the volume level (0.0 to 1.0).
func (p *Player) SetVolume(level float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.volumeLevel = clampLevel(level)
	if p.volume == nil {
		return
	}
	if p.queued {
		speaker.Lock()
		defer speaker.Unlock()
	}
	p.applyVolumeLocked()
}

// Volume returns the current volume level (0.0 to 1.0).
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volumeLevel
}

// applyVolumeLocked pushes volumeLevel into the volume effect. Callers hold
// the speaker lock when the effect is already playing.
func (p *Player) applyVolumeLocked() {
	if p.volume == nil {
		return
	}
	p.volume.Silent = p.volumeLevel <= 0
	p.volume.Volume = levelToVolume(p.volumeLevel)
}

func clampLevel(level float64) float64 {
	if math.IsNaN(level) || level < 0 {
		return 0
	}
	if level > 1 {
		return 1
	}
	return level
}

// levelToVolume converts a 0.0-1.0 level to beep's Volume value.
// beep uses a logarithmic scale with base 2:
// Volume = 0 means no change, -1 = half volume, -2 = quarter, etc.
// We map: 1.0 -> 0, 0.5 -> -1, 0.25 -> -2, 0 -> -10 (essentially silent)
func levelToVolume(level float64) float64 {
	if level <= 0 {
		return -10
	}
	if level >= 1 {
		return 0
	}
	return math.Log2(level)
}
