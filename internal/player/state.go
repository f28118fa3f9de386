// internal/player/state.go
package player

// State is the transport's own view of its source.
//
//	┌──────────┐  load   ┌──────────┐  decoded  ┌──────────┐
//	│  Stopped │ ───────▶│  Loading │ ─────────▶│   Ready  │
//	└──────────┘         └──────────┘           └──────────┘
//	     ▲                    │ error                │ play
//	     │ stop               ▼                      ▼
//	     │               ┌──────────┐  pause    ┌──────────┐
//	     ├───────────────│  Failed  │     ┌─────│  Playing │
//	     │               └──────────┘     │     └──────────┘
//	     │                                ▼          ▲
//	     │                          ┌──────────┐     │ play
//	     └──────────────────────────│  Paused  │─────┘
//	                  stop          └──────────┘
//
// Any state goes back to Stopped on Stop, and to Loading on Load.
// Reaching the end of the source emits EventEnded and leaves the
// transport Paused at the end position, so SetPosition and Play can
// restart it.
type State int

const (
	Stopped State = iota
	Loading
	Ready
	Playing
	Paused
	Failed
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Loading:
		return "Loading"
	case Ready:
		return "Ready"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// HasSource returns true if a decoded source is attached.
func (s State) HasSource() bool {
	return s == Ready || s == Playing || s == Paused
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanPlay returns true if the state allows starting playback.
func (s State) CanPlay() bool {
	return s == Ready || s == Paused
}
