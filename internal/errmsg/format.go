// Package errmsg turns failures into the messages shown in the status line
// and on the command line.
package errmsg

import "fmt"

// Op names what the user was trying to do when something failed.
type Op string

const (
	OpLibraryLoad Op = "load music library"

	OpFavoritesLoad  Op = "load favorites"
	OpFavoriteToggle Op = "update favorites"
	OpRecentLoad     Op = "load recently played"

	OpPlaybackStart     Op = "start playback"
	OpMprisStart        Op = "start media controls"
	OpNowPlayingPublish Op = "publish now playing"

	OpGateUnlock Op = "unlock"
	OpGateHash   Op = "hash passphrase"

	OpConfigLoad Op = "load configuration"
	OpInitialize Op = "initialize application"
)

// Error is a failure tagged with the operation that hit it.
type Error struct {
	Op  Op
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("Failed to %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap tags err with op. A nil err stays nil.
func Wrap(op Op, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// Format returns the message for err, or "" when err is nil.
func Format(op Op, err error) string {
	if err == nil {
		return ""
	}
	return Wrap(op, err).Error()
}
