package soundscape

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pettabs/pettabs/internal/content"
	"github.com/pettabs/pettabs/internal/store"
)

type fakeCatalog struct {
	list  []content.Soundscape
	err   error
	calls int
}

func (f *fakeCatalog) Soundscapes(context.Context) ([]content.Soundscape, error) {
	f.calls++
	return f.list, f.err
}

type memCache struct {
	entry  *store.SoundscapeCache
	putErr error
}

func (m *memCache) SoundscapeCacheEntry() (store.SoundscapeCache, error) {
	if m.entry == nil {
		return store.SoundscapeCache{}, store.ErrNotFound
	}
	return *m.entry, nil
}

func (m *memCache) PutSoundscapeCache(entry store.SoundscapeCache) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.entry = &entry
	return nil
}

var (
	testNow   = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	rainTrack = []content.Soundscape{{Key: "light-rain", Name: "Light Rain", AudioURL: "https://cdn.example.com/rain.pcm"}}
	seaTracks = []content.Soundscape{
		{Key: "waves", Name: "Ocean Waves", AudioURL: "https://cdn.example.com/waves.pcm"},
		{Key: "gulls", Name: "Seagulls", AudioURL: "https://cdn.example.com/gulls.pcm"},
	}
)

func newLoader(cache *memCache, api *fakeCatalog, online bool) *Loader {
	return New(Config{
		Store:  cache,
		API:    api,
		Online: func() bool { return online },
		Now:    func() time.Time { return testNow },
	})
}

func TestSoundscapes_FreshCacheSkipsNetwork(t *testing.T) {
	cache := &memCache{entry: &store.SoundscapeCache{
		Soundscapes: []store.Soundscape{{Key: "light-rain", Name: "Light Rain", AudioURL: "u"}},
		LastUpdated: testNow.Add(-time.Hour),
	}}
	api := &fakeCatalog{list: seaTracks}

	got := newLoader(cache, api, true).Soundscapes(context.Background())
	if len(got) != 1 || got[0].Key != "light-rain" {
		t.Errorf("expected cached list, got %+v", got)
	}
	if api.calls != 0 {
		t.Errorf("fresh cache must not trigger a fetch, got %d calls", api.calls)
	}
}

func TestSoundscapes_StaleCacheRefreshes(t *testing.T) {
	cache := &memCache{entry: &store.SoundscapeCache{
		Soundscapes: []store.Soundscape{{Key: "light-rain", Name: "Light Rain", AudioURL: "u"}},
		LastUpdated: testNow.Add(-25 * time.Hour),
	}}
	api := &fakeCatalog{list: seaTracks}

	got := newLoader(cache, api, true).Soundscapes(context.Background())
	if len(got) != 2 || got[0].Key != "waves" {
		t.Errorf("expected refreshed list, got %+v", got)
	}
	if cache.entry == nil || !cache.entry.LastUpdated.Equal(testNow) {
		t.Errorf("cache timestamp not updated: %+v", cache.entry)
	}
}

func TestSoundscapes_RefreshFailureServesStale(t *testing.T) {
	cache := &memCache{entry: &store.SoundscapeCache{
		Soundscapes: []store.Soundscape{{Key: "light-rain", Name: "Light Rain", AudioURL: "u"}},
		LastUpdated: testNow.Add(-48 * time.Hour),
	}}
	api := &fakeCatalog{err: errors.New("worker down")}

	got := newLoader(cache, api, true).Soundscapes(context.Background())
	if len(got) != 1 || got[0].Key != "light-rain" {
		t.Errorf("expected stale fallback, got %+v", got)
	}
}

func TestSoundscapes_RefreshFailureNoCacheIsEmpty(t *testing.T) {
	api := &fakeCatalog{err: errors.New("worker down")}
	got := newLoader(&memCache{}, api, true).Soundscapes(context.Background())
	if len(got) != 0 {
		t.Errorf("expected empty list, got %+v", got)
	}
}

func TestSoundscapes_OfflineStaleIsEmpty(t *testing.T) {
	// Offline never serves a stale list; only a fresh cache counts.
	cache := &memCache{entry: &store.SoundscapeCache{
		Soundscapes: []store.Soundscape{{Key: "light-rain", Name: "Light Rain", AudioURL: "u"}},
		LastUpdated: testNow.Add(-25 * time.Hour),
	}}
	api := &fakeCatalog{list: seaTracks}

	got := newLoader(cache, api, false).Soundscapes(context.Background())
	if len(got) != 0 {
		t.Errorf("expected empty list offline with stale cache, got %+v", got)
	}
	if api.calls != 0 {
		t.Errorf("offline must not fetch")
	}
}

func TestSoundscapes_OfflineFreshCacheServed(t *testing.T) {
	cache := &memCache{entry: &store.SoundscapeCache{
		Soundscapes: []store.Soundscape{{Key: "light-rain", Name: "Light Rain", AudioURL: "u"}},
		LastUpdated: testNow.Add(-time.Minute),
	}}

	got := newLoader(cache, &fakeCatalog{}, false).Soundscapes(context.Background())
	if len(got) != 1 {
		t.Errorf("fresh cache should be served offline, got %+v", got)
	}
}

func TestSoundscapes_CacheWriteFailureStillReturnsList(t *testing.T) {
	cache := &memCache{putErr: errors.New("disk full")}
	api := &fakeCatalog{list: rainTrack}

	got := newLoader(cache, api, true).Soundscapes(context.Background())
	if len(got) != 1 {
		t.Errorf("fetch succeeded, list must be returned despite cache write failure: %+v", got)
	}
}
