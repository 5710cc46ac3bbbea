package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func Run(deps Deps) error {
	applyColorProfilePreference()
	m := newAppModel(deps)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
