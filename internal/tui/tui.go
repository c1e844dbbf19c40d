package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Run opens focus mode on the current case and blocks until the user quits.
func Run(opts Options) error {
	applyColorProfilePreference()
	m, err := newFocusModel(opts)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
