package app

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/serenade/internal/keymap"
)

// startSearch focuses the search input and filters the list as it changes.
func (m *Model) startSearch() tea.Cmd {
	if m.view != ViewSearch {
		m.prevView = m.view
	}
	m.searching = true
	m.list.SetFocused(false)
	m.view = ViewSearch
	m.resize()
	m.rebuildRows()
	return m.search.Focus()
}

// handleSearchKey edits the query. Enter keeps the results, Esc restores
// the previous view.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.list.SetFocused(true)
		m.search.Blur()
		m.search.Reset()
		m.view = m.prevView
		m.resize()
		m.rebuildRows()
		m.list.JumpToIndex(m.snap.Index)
		return m, nil

	case "enter":
		m.searching = false
		m.list.SetFocused(true)
		m.search.Blur()
		m.resize()
		return m, nil

	case "up", "down", "ctrl+u", "ctrl+d":
		m.list.HandleAction(m.keys.Resolve(msg.String()))
		return m, nil

	case "ctrl+c":
		if m.keys.Resolve("ctrl+c") == keymap.ActionQuit {
			m.quitting = true
			return m, tea.Quit
		}
	}

	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if m.search.Value() != prev {
		m.rebuildRows()
	}
	return m, cmd
}
