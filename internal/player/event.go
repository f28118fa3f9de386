package player

import (
	"errors"
	"time"
)

// EventKind identifies a transport event.
type EventKind int

const (
	EventMetadataReady EventKind = iota
	EventStarted
	EventPaused
	EventEnded
	EventError
)

// String returns the event name for debugging.
func (k EventKind) String() string {
	switch k {
	case EventMetadataReady:
		return "MetadataReady"
	case EventStarted:
		return "Started"
	case EventPaused:
		return "Paused"
	case EventEnded:
		return "Ended"
	case EventError:
		return "Error"
	default:
		return "Unknown"
	}
}

// Event is emitted by a Transport on its Events channel.
type Event struct {
	Kind     EventKind
	URI      string        // source the event refers to
	Load     uint64        // generation returned by the Load it belongs to
	Duration time.Duration // set on EventMetadataReady
	Code     ErrorCode     // set on EventError
	Err      error         // set on EventError
}

// ErrorCode classifies media errors the way media elements report them.
type ErrorCode int

const (
	CodeUnknown ErrorCode = iota
	CodeAborted
	CodeNetwork
	CodeDecode
	CodeSrcNotSupported
)

// String returns the code name for debugging.
func (c ErrorCode) String() string {
	switch c {
	case CodeAborted:
		return "Aborted"
	case CodeNetwork:
		return "Network"
	case CodeDecode:
		return "Decode"
	case CodeSrcNotSupported:
		return "SrcNotSupported"
	default:
		return "Unknown"
	}
}

// Message returns the user-facing description of the code.
func (c ErrorCode) Message() string {
	switch c {
	case CodeAborted:
		return "Audio playback was interrupted"
	case CodeNetwork:
		return "Network error while loading audio"
	case CodeDecode:
		return "Audio file is corrupted or unsupported"
	case CodeSrcNotSupported:
		return "Audio format not supported"
	default:
		return "Unknown audio error"
	}
}

// MediaError is a transport failure carrying its ErrorCode.
type MediaError struct {
	Code ErrorCode
	URI  string
	Err  error
}

func (e *MediaError) Error() string {
	if e.Err != nil {
		return e.Code.Message() + ": " + e.Err.Error()
	}
	return e.Code.Message()
}

func (e *MediaError) Unwrap() error { return e.Err }

// CodeOf extracts the ErrorCode from err, or CodeUnknown.
func CodeOf(err error) ErrorCode {
	var me *MediaError
	if errors.As(err, &me) {
		return me.Code
	}
	return CodeUnknown
}

func mediaError(code ErrorCode, uri string, err error) *MediaError {
	return &MediaError{Code: code, URI: uri, Err: err}
}
