package settings

import (
	"os"
	"path/filepath"

	"github.com/cristianoliveira/storefront/internal/config"
)

// getSettingsPath returns the filesystem path of the browse preferences file.
func getSettingsPath() string {
	return filepath.Join(resolveConfigDir(), browseSettingsFilename)
}

// resolveConfigDir returns the configured config directory, falling back to
// the XDG default when config has not been loaded.
func resolveConfigDir() string {
	if configDir := config.Get("config_dir", ""); configDir != "" {
		return configDir
	}
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		home, _ := os.UserHomeDir()
		xdgConfigHome = filepath.Join(home, ".config")
	}
	return filepath.Join(xdgConfigHome, "storefront")
}
