// Package testutil inspects rendered terminal output in tests.
package testutil

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// StripANSI removes escape sequences so output can be compared as text.
func StripANSI(s string) string {
	return ansi.Strip(s)
}

// MeasureWidth returns the number of terminal cells s occupies.
func MeasureWidth(s string) int {
	return ansi.StringWidth(s)
}

// ContainsLine reports whether one line of output contains substr once
// styling is removed.
func ContainsLine(output, substr string) bool {
	for line := range strings.Lines(StripANSI(output)) {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

// CountLines returns the number of lines that are not blank.
func CountLines(output string) int {
	n := 0
	for line := range strings.Lines(output) {
		if strings.TrimSpace(StripANSI(line)) != "" {
			n++
		}
	}
	return n
}
