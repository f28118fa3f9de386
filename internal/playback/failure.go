package playback

import (
	"errors"
	"time"

	"github.com/llehouerou/serenade/internal/player"
	"github.com/llehouerou/serenade/internal/playlist"
)

var (
	ErrEmptyPlaylist = errors.New("no tracks available")
	ErrInvalidIndex  = errors.New("track not found")
	ErrNotSeekable   = errors.New("nothing seekable is loaded")
	ErrClosed        = errors.New("playback engine closed")
)

// FailureKind classifies a playback failure.
type FailureKind int

const (
	// LoadFailure: source unreachable or unsupported. Recovered by skipping.
	LoadFailure FailureKind = iota
	// DecodeFailure: corrupt data. Recovered by skipping, never retried.
	DecodeFailure
	// TransientNetworkFailure: recovered by a bounded retry.
	TransientNetworkFailure
	// EmptyPlaylist: nothing to play. Reported once.
	EmptyPlaylist
	// InvalidIndex: caller asked for a track that does not exist.
	InvalidIndex
	// OutOfRangeSeek: clamped silently, never reported.
	OutOfRangeSeek
)

// String returns the kind name.
func (k FailureKind) String() string {
	switch k {
	case LoadFailure:
		return "LoadFailure"
	case DecodeFailure:
		return "DecodeFailure"
	case TransientNetworkFailure:
		return "TransientNetworkFailure"
	case EmptyPlaylist:
		return "EmptyPlaylist"
	case InvalidIndex:
		return "InvalidIndex"
	case OutOfRangeSeek:
		return "OutOfRangeSeek"
	default:
		return "Unknown"
	}
}

// classify maps a transport error code to a failure kind.
func classify(code player.ErrorCode) FailureKind {
	switch code {
	case player.CodeDecode:
		return DecodeFailure
	case player.CodeSrcNotSupported:
		return LoadFailure
	default:
		// Aborted, network and unknown errors are worth another attempt.
		return TransientNetworkFailure
	}
}

// Failure describes one failure incident.
type Failure struct {
	Kind  FailureKind
	Index int
	Track *playlist.Track
	URI   string
	Code  player.ErrorCode
	Err   error
}

// Message returns the user-facing description of the failure.
func (f Failure) Message() string {
	switch f.Kind {
	case EmptyPlaylist:
		return "No tracks available"
	case InvalidIndex:
		return "Track not found"
	case OutOfRangeSeek:
		return "Position out of range"
	}
	if f.Code != player.CodeUnknown {
		return f.Code.Message()
	}
	return "Failed to load track"
}

// Action is what the engine does after a track failure.
type Action int

const (
	ActionSkip Action = iota
	ActionRetry
)

// String returns the action name.
func (a Action) String() string {
	if a == ActionRetry {
		return "Retry"
	}
	return "Skip"
}

// Decision is a FailureHandler's verdict on one failure.
type Decision struct {
	Action  Action
	Delay   time.Duration // wait before retrying or skipping
	Attempt int           // retry attempt number, 1-based
}

// FailureHandler decides between retrying the same source and skipping
// to the next track. Bounding retries is the handler's job.
type FailureHandler interface {
	HandleFailure(f Failure) Decision
	// Recovered is called when the source at uri started playing.
	Recovered(uri string)
}

// skipHandler skips every failure right away.
type skipHandler struct{}

func (skipHandler) HandleFailure(Failure) Decision { return Decision{Action: ActionSkip} }

func (skipHandler) Recovered(string) {}
