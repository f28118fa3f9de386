// internal/playback/state.go
package playback

// State represents the engine's playback state.
//
//	Idle ──load──▶ Loading ──metadata──▶ Ready ──play──▶ Playing ◀──▶ Paused
//	                  │                                     │
//	                error                                 ended
//	                  ▼                                     ▼
//	              Errored ──retry/skip──▶ Loading         Ended ──repeat──▶ Playing
//	                  │                                     └────next────▶ Loading
//	            chain spent ──▶ Idle
//
// Valid transitions:
//   - Idle    → Loading (via Play, PlayIndex, Next, Previous)
//   - Loading → Ready   (transport metadata ready)
//   - Ready   → Playing (via Play, or automatically when play was requested)
//   - Playing → Paused  (via Pause, deferred until a fade-out completes)
//   - Paused  → Playing (via Play)
//   - Playing → Ended   (transport reached the end)
//   - any     → Errored (load or transport failure)
//   - any     → Idle    (via Stop, or when every track failed in a row)
//
// Ended and Errored are transient: Ended immediately replays, advances or
// parks in Ready; Errored waits for the failure handler's retry or skip.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
	StatePlaying
	StatePaused
	StateEnded
	StateErrored
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateEnded:
		return "Ended"
	case StateErrored:
		return "Errored"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a track is playing or paused.
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// Seekable returns true if the state has a source with known metadata.
func (s State) Seekable() bool {
	return s == StateReady || s == StatePlaying || s == StatePaused
}
