package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cristianoliveira/storefront/internal/config"
	"github.com/cristianoliveira/storefront/internal/domain"
	"github.com/pelletier/go-toml/v2"
)

// Filters is the persisted subset of a filter state. The search text is
// not persisted.
type Filters struct {
	Country      string  `toml:"country"`
	City         string  `toml:"city"`
	MainCategory string  `toml:"main_category"`
	SubCategory  string  `toml:"sub_category"`
	MinPrice     float64 `toml:"min_price"`
	// MaxPrice is omitted when there is no upper bound.
	MaxPrice *float64 `toml:"max_price,omitempty"`
}

// Settings are the browse preferences restored when the browser starts.
//
// TOML layout:
//
//	vertical = "art"
//	tab = "explore"
//	sort = "price:asc"
//	date_field = "created"
//
//	[filters]
//	country = "Portugal"
//	city = ""
//	main_category = "all"
//	sub_category = ""
//	min_price = 0.0
//	max_price = 500.0
type Settings struct {
	Vertical  string  `toml:"vertical"`
	Tab       string  `toml:"tab"`
	Sort      string  `toml:"sort"`
	DateField string  `toml:"date_field"`
	Filters   Filters `toml:"filters"`
}

// DefaultSettings returns settings seeded from the global configuration.
func DefaultSettings() *Settings {
	return &Settings{
		Vertical:  config.Get("default_vertical", "real-estate"),
		Tab:       config.Get("default_tab", domain.DefaultTab().String()),
		Sort:      domain.DefaultSortSpec().String(),
		DateField: config.Get("date_field", string(domain.DateCreated)),
		Filters: Filters{
			MainCategory: domain.MainCategoryAll,
		},
	}
}

// Load reads settings from the config directory.
// A missing file yields the defaults.
func Load() (*Settings, error) {
	config.Load()
	path := getSettingsPath()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	settings := DefaultSettings()
	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}
	if err := Validate(settings); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return settings, nil
}

// Save validates and writes settings, creating the config directory if needed.
func Save(settings *Settings) error {
	if err := Validate(settings); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	path := getSettingsPath()
	if err := os.MkdirAll(filepath.Dir(path), FileModeDir); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	// write-then-rename so a crash never leaves a half-written file
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FileModeFile); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}

// Reset removes the settings file so the next Load returns defaults.
func Reset() error {
	config.Load()
	if err := os.Remove(getSettingsPath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove settings file: %w", err)
	}
	return nil
}
