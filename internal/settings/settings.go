// Package settings persists user preferences as a JSON file. Loading
// always succeeds: missing sections and corrupt files fall back to the
// defaults, so a schema change never breaks an existing install.
package settings

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/pettabs/pettabs/internal/content"
)

// Appearance controls which widgets the dashboard shows.
type Appearance struct {
	ZenMode   bool `json:"zenMode"`
	ShowUsage bool `json:"showUsage"`
}

// Background selects the content category and remembers the current
// image's attribution for display.
type Background struct {
	Category    string               `json:"category"`
	Attribution *content.Attribution `json:"attribution"`
}

// Sound selects the zen mode soundscape.
type Sound struct {
	ZenMusic string  `json:"zenMusic"`
	Volume   float64 `json:"volume"`
}

// QuickLink is one entry in the dashboard's link bar.
type QuickLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Settings is the full persisted preference set.
type Settings struct {
	Appearance Appearance  `json:"appearance"`
	Background Background  `json:"background"`
	Sound      Sound       `json:"sound"`
	Links      []QuickLink `json:"links"`
}

// Defaults returns the default settings.
func Defaults() Settings {
	return Settings{
		Appearance: Appearance{ZenMode: false, ShowUsage: true},
		Background: Background{Category: "cat"},
		Sound:      Sound{ZenMusic: "light-rain", Volume: 0.8},
		Links:      nil,
	}
}

// Update is a partial settings change: nil sections are left untouched.
type Update struct {
	Appearance *Appearance
	Background *Background
	Sound      *Sound
	Links      *[]QuickLink
}

// Repository reads and writes the settings file. It is safe for
// concurrent use within one process; across processes last write wins.
type Repository struct {
	path string
	mu   sync.Mutex
}

// NewRepository creates a repository backed by the given file path.
func NewRepository(path string) *Repository {
	return &Repository{path: path}
}

// Path returns the settings file path.
func (r *Repository) Path() string {
	return r.path
}

// Load returns the persisted settings merged over the defaults. Each
// top-level section that is present fills in over its default, so a
// file containing only {"background":{"category":"dog"}} yields default
// appearance, sound and links with the dog category applied. Read and
// parse errors are swallowed and the defaults returned.
func (r *Repository) Load() Settings {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked()
}

func (r *Repository) loadLocked() Settings {
	merged := Defaults()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Debug("Unable to read settings, using defaults", "error", err)
		}
		return merged
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		log.Debug("Unable to parse settings, using defaults", "error", err)
		return merged
	}

	mergeSection(sections, "appearance", &merged.Appearance)
	mergeSection(sections, "background", &merged.Background)
	mergeSection(sections, "sound", &merged.Sound)
	mergeSection(sections, "links", &merged.Links)
	return merged
}

// mergeSection unmarshals a raw section over its default value. Fields
// absent from the file keep their defaults; a malformed section is
// ignored entirely.
func mergeSection[T any](sections map[string]json.RawMessage, key string, dst *T) {
	raw, ok := sections[key]
	if !ok {
		return
	}
	fresh := *dst
	if err := json.Unmarshal(raw, &fresh); err != nil {
		log.Debug("Ignoring malformed settings section", "section", key, "error", err)
		return
	}
	*dst = fresh
}

// Save persists the settings. Errors are logged, never surfaced.
func (r *Repository) Save(s Settings) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveLocked(s)
}

func (r *Repository) saveLocked(s Settings) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		log.Error("Unable to encode settings", "error", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		log.Error("Unable to create settings directory", "error", err)
		return
	}

	tempPath := r.path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0o644); err != nil {
		log.Error("Unable to write settings", "error", err)
		return
	}
	if err := os.Rename(tempPath, r.path); err != nil {
		os.Remove(tempPath)
		log.Error("Unable to write settings", "error", err)
	}
}

// Apply loads the current settings, replaces the sections present in
// the update, persists the result and returns it.
func (r *Repository) Apply(u Update) Settings {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.loadLocked()
	if u.Appearance != nil {
		s.Appearance = *u.Appearance
	}
	if u.Background != nil {
		s.Background = *u.Background
	}
	if u.Sound != nil {
		s.Sound = *u.Sound
	}
	if u.Links != nil {
		s.Links = *u.Links
	}
	r.saveLocked(s)
	return s
}
