//go:build windows

// Package stderr is a pass-through on Windows, where the audio backend
// does not write to the console.
package stderr

import (
	"errors"
	"os"
)

var errUnsupported = errors.New("stderr capture is not supported on windows")

// Capture is never created on Windows.
type Capture struct{}

// Start always fails on Windows; callers continue without capture.
func Start() (*Capture, error) {
	return nil, errUnsupported
}

func (c *Capture) Lines() <-chan string { return nil }

func (c *Capture) WriteOriginal(msg string) {
	_, _ = os.Stderr.WriteString(msg)
}

func (c *Capture) Stop() {}
