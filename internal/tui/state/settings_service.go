package state

import (
	"fmt"
	"reflect"

	"github.com/cristianoliveira/storefront/internal/colors"
	"github.com/cristianoliveira/storefront/internal/settings"
)

type settingsService struct {
	loadedSettings *settings.Settings
	saveFn         func(*settings.Settings) error
}

func newSettingsService(loaded *settings.Settings, save func(*settings.Settings) error) *settingsService {
	if save == nil {
		save = settings.Save
	}
	return &settingsService{loadedSettings: loaded, saveFn: save}
}

// save writes state unless it matches what was loaded or last saved.
func (s *settingsService) save(state settings.BrowseState) error {
	next := settings.FromBrowseState(state)
	if s.loadedSettings != nil && reflect.DeepEqual(*s.loadedSettings, *next) {
		colors.Debug("settings unchanged, skipping save")
		return nil
	}

	if err := s.saveFn(next); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	s.loadedSettings = next
	return nil
}

// SaveSettings persists the current browser state.
func (m *Model) SaveSettings() error {
	colors.Debug("Saving settings from TUI state")
	return m.settingsSvc.save(m.ToState())
}
