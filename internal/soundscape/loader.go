// Package soundscape loads the ambient track catalog and plays tracks
// in zen mode.
package soundscape

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pettabs/pettabs/internal/content"
	"github.com/pettabs/pettabs/internal/store"
)

// CacheTTL is how long a cached catalog is considered fresh.
const CacheTTL = 24 * time.Hour

// Catalog is the slice of the worker client the loader needs.
type Catalog interface {
	Soundscapes(ctx context.Context) ([]content.Soundscape, error)
}

// CacheStore is the slice of the store the loader needs.
type CacheStore interface {
	SoundscapeCacheEntry() (store.SoundscapeCache, error)
	PutSoundscapeCache(entry store.SoundscapeCache) error
}

// Config configures a Loader.
type Config struct {
	Store CacheStore
	API   Catalog

	// Online reports whether a refresh should be attempted.
	Online func() bool

	// Now is the clock used for TTL checks. Defaults to time.Now.
	Now func() time.Time
}

// Loader serves the soundscape catalog with a 24h refresh cycle and
// stale-on-error fallback.
type Loader struct {
	store  CacheStore
	api    Catalog
	online func() bool
	now    func() time.Time
}

// New creates a Loader.
func New(cfg Config) *Loader {
	if cfg.Online == nil {
		cfg.Online = func() bool { return true }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Loader{store: cfg.Store, api: cfg.API, online: cfg.Online, now: cfg.Now}
}

// Soundscapes returns the catalog. It never fails: a fresh cache is
// served as-is; otherwise an online refresh is attempted, falling back
// to the stale cache on error. Offline with no fresh cache yields an
// empty catalog.
func (l *Loader) Soundscapes(ctx context.Context) []content.Soundscape {
	cached, cacheErr := l.store.SoundscapeCacheEntry()
	if cacheErr == nil && l.now().Sub(cached.LastUpdated) < CacheTTL {
		return fromStored(cached.Soundscapes)
	}

	if !l.online() {
		return nil
	}

	list, err := l.api.Soundscapes(ctx)
	if err != nil {
		log.Debug("Soundscape refresh failed", "error", err)
		if cacheErr == nil {
			// Expired data beats an empty picker.
			return fromStored(cached.Soundscapes)
		}
		return nil
	}

	entry := store.SoundscapeCache{Soundscapes: toStored(list), LastUpdated: l.now()}
	if err := l.store.PutSoundscapeCache(entry); err != nil {
		log.Debug("Soundscape cache write failed", "error", err)
	}
	return list
}

func toStored(list []content.Soundscape) []store.Soundscape {
	out := make([]store.Soundscape, len(list))
	for i, s := range list {
		out[i] = store.Soundscape{Key: s.Key, Name: s.Name, AudioURL: s.AudioURL}
	}
	return out
}

func fromStored(list []store.Soundscape) []content.Soundscape {
	out := make([]content.Soundscape, len(list))
	for i, s := range list {
		out[i] = content.Soundscape{Key: s.Key, Name: s.Name, AudioURL: s.AudioURL}
	}
	return out
}
