package state

import (
	tea "github.com/charmbracelet/bubbletea"
)

// favoriteToggledMsg carries the outcome of a favorite toggle.
type favoriteToggledMsg struct {
	ListingID string
	Favorited bool
	Err       error
}

// statusExpiredMsg triggers a redraw once a status message is stale.
type statusExpiredMsg struct{}

// saveSettingsSuccessMsg is sent when settings are saved successfully.
type saveSettingsSuccessMsg struct{}

// saveSettingsFailedMsg is sent when settings save fails.
type saveSettingsFailedMsg struct {
	err error
}

// SaveSettingsCmd returns a command to save settings.
func SaveSettingsCmd(saveFn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := saveFn(); err != nil {
			return saveSettingsFailedMsg{err: err}
		}
		return saveSettingsSuccessMsg{}
	}
}
