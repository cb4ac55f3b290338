package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the program and pumps store notifications into it, so every
// committed store mutation triggers a re-render.
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	m.store.Subscribe(func() {
		p.Send(refreshMsg{})
	})
	_, err := p.Run()
	return err
}
