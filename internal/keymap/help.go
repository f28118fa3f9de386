package keymap

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

// Verify HelpMap implements help.KeyMap at compile time.
var _ help.KeyMap = HelpMap{}

// shortHelp lists the actions shown in the one-line help.
var shortHelp = []Action{
	ActionPlayPause,
	ActionNextTrack,
	ActionPrevTrack,
	ActionSearch,
	ActionToggleFavorite,
	ActionHelp,
	ActionQuit,
}

// HelpMap exposes bindings to the bubbles help component.
type HelpMap struct {
	bindings []Binding
}

// NewHelpMap creates a help map over bindings.
func NewHelpMap(bindings []Binding) HelpMap {
	return HelpMap{bindings: bindings}
}

// ShortHelp implements help.KeyMap.
func (h HelpMap) ShortHelp() []key.Binding {
	result := make([]key.Binding, 0, len(shortHelp))
	for _, a := range shortHelp {
		if b, ok := h.find(a); ok {
			result = append(result, toKey(b))
		}
	}
	return result
}

// FullHelp implements help.KeyMap, one column per context.
func (h HelpMap) FullHelp() [][]key.Binding {
	var cols [][]key.Binding
	for _, ctx := range []string{"global", "playback", "list"} {
		var col []key.Binding
		for _, b := range h.bindings {
			if b.Context == ctx {
				col = append(col, toKey(b))
			}
		}
		if len(col) > 0 {
			cols = append(cols, col)
		}
	}
	return cols
}

func (h HelpMap) find(a Action) (Binding, bool) {
	for _, b := range h.bindings {
		if b.Action == a {
			return b, true
		}
	}
	return Binding{}, false
}

func toKey(b Binding) key.Binding {
	return key.NewBinding(
		key.WithKeys(b.Keys...),
		key.WithHelp(displayKey(b.Keys[0]), b.Description),
	)
}

// displayKey returns the label shown for a key.
func displayKey(k string) string {
	switch k {
	case " ":
		return "space"
	case "pgdown":
		return "pgdn"
	default:
		return k
	}
}
