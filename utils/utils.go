// Package utils provides small helpers shared by the CLI and the UI.
package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/mitchellh/go-homedir"
)

// ExpandPath expands ~ and environment variables in a path.
func ExpandPath(path string) string {
	s, err := homedir.Expand(path)
	if err == nil {
		path = s
	}
	return os.ExpandEnv(path)
}

// IsOnline reports whether the network looks usable. It is a cheap
// heuristic check of configured interfaces, mirroring navigator.onLine:
// being wrong in the optimistic direction is fine because fetch failures
// fall back anyway.
func IsOnline() bool {
	ifaces, err := netInterfaces()
	if err != nil {
		return true
	}
	for _, iface := range ifaces {
		if iface.up && !iface.loopback {
			return true
		}
	}
	return false
}

// Truncate shortens s to fit in width terminal cells, appending an
// ellipsis when something was cut.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

// DisplayName derives a readable name from a URL-ish string, used when
// a quick link has no explicit name.
func DisplayName(rawURL string) string {
	s := strings.TrimPrefix(rawURL, "https://")
	s = strings.TrimPrefix(s, "http://")
	s = strings.TrimPrefix(s, "www.")
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	return s
}

// ConfigHome returns the base directory for a named app config file,
// honoring XDG-style overrides via env.
func ConfigHome(app string) string {
	if c := os.Getenv("XDG_CONFIG_HOME"); c != "" {
		return filepath.Join(c, app)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", app)
}
