// Package paths resolves the per-installation file locations for twig.
//
// Layout follows the XDG base directory spec:
//   - data:   $XDG_DATA_HOME/twig/history.json
//   - config: $XDG_CONFIG_HOME/twig/config.yaml
//   - cache:  $XDG_CACHE_HOME/twig/cache.sqlite
//   - state:  $XDG_STATE_HOME/twig/ (log file, telemetry events)
//
// Setting TWIG_DATA_DIR redirects everything under a single directory,
// which keeps tests and containers away from the real user dirs.
package paths

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDir = "twig"

// override returns the TWIG_DATA_DIR root, if set.
func override() (string, bool) {
	v := os.Getenv("TWIG_DATA_DIR")
	return v, v != ""
}

// resolve joins base/appDir/name and creates the parent directory.
func resolve(base, name string) (string, error) {
	dir := filepath.Join(base, appDir)
	if root, ok := override(); ok {
		dir = root
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create dir %s: %w", dir, err)
	}
	return filepath.Join(dir, name), nil
}

// HistoryFile returns the path of the persisted conversation snapshot.
func HistoryFile() (string, error) { return resolve(xdg.DataHome, "history.json") }

// ConfigFile returns the path of the optional YAML config file.
func ConfigFile() (string, error) { return resolve(xdg.ConfigHome, "config.yaml") }

// CacheFile returns the path of the SQLite response cache.
func CacheFile() (string, error) { return resolve(xdg.CacheHome, "cache.sqlite") }

// LogFile returns the path of the rotating log file.
func LogFile() (string, error) { return resolve(xdg.StateHome, "twig.log") }

// StateDir returns the directory for runtime state such as telemetry
// events.
func StateDir() (string, error) {
	p, err := resolve(xdg.StateHome, "")
	if err != nil {
		return "", err
	}
	return filepath.Clean(p), nil
}
