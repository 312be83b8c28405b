// Package paths resolves the platform data directory stormwatch stores its
// clip library under, via github.com/adrg/xdg so the Windows %APPDATA%
// vs. XDG data-home split needs no hand-rolled os.Getenv branch.
package paths

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "stormwatch"

// DataRoot returns `<platform data dir>/stormwatch`, creating no
// directories itself — callers create subdirectories as they need them.
func DataRoot() string {
	return filepath.Join(xdg.DataHome, appName)
}

// VideoLibraryDir returns the clip library directory: `<data_root>/videolib`.
func VideoLibraryDir() string {
	return filepath.Join(DataRoot(), "videolib")
}

// ConfigFile resolves the TOML config file path via the standard
// xdg.ConfigFile convention.
func ConfigFile(name string) (string, error) {
	return xdg.ConfigFile(filepath.Join(appName, name))
}
