package handler

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestResults(t *testing.T) {
	if NotHandled.Handled || NotHandled.Cmd != nil {
		t.Error("NotHandled should be the zero Result")
	}
	if !HandledNoCmd.Handled || HandledNoCmd.Cmd != nil {
		t.Error("HandledNoCmd should be handled without a command")
	}
	r := Handled(func() tea.Msg { return "test" })
	if !r.Handled || r.Cmd == nil {
		t.Error("Handled(cmd) should carry the command")
	}
}

func TestChain(t *testing.T) {
	only := func(want string, r Result) Handler {
		return func(key string) Result {
			if key == want {
				return r
			}
			return NotHandled
		}
	}

	var calls []string
	track := func(name string, h Handler) Handler {
		return func(key string) Result {
			calls = append(calls, name)
			return h(key)
		}
	}

	handlers := []Handler{
		track("a", only("x", HandledNoCmd)),
		track("b", only("y", Handled(func() tea.Msg { return "y" }))),
		track("c", only("y", HandledNoCmd)),
	}

	tests := []struct {
		key       string
		handled   bool
		withCmd   bool
		wantCalls []string
	}{
		{"x", true, false, []string{"a"}},
		{"y", true, true, []string{"a", "b"}},
		{"z", false, false, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			calls = nil
			r := Chain(tt.key, handlers...)
			if r.Handled != tt.handled {
				t.Errorf("Chain(%q).Handled = %v, want %v", tt.key, r.Handled, tt.handled)
			}
			if (r.Cmd != nil) != tt.withCmd {
				t.Errorf("Chain(%q) cmd = %v, want cmd %v", tt.key, r.Cmd != nil, tt.withCmd)
			}
			if len(calls) != len(tt.wantCalls) {
				t.Errorf("Chain(%q) called %v, want %v", tt.key, calls, tt.wantCalls)
			}
		})
	}

	if r := Chain("x"); r.Handled {
		t.Error("Chain with no handlers should not handle")
	}
}
