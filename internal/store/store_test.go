package store

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "pettabs.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_PutGet(t *testing.T) {
	s := openTestStore(t)

	source := "https://example.com/photo"
	rec := Record{
		Date:         "2026-09-01",
		Category:     "cat",
		Image:        []byte{0xff, 0xd8, 0xff},
		ImageURL:     "/images/abc.jpg",
		Photographer: "Jane Doe",
		SourceURL:    &source,
		Fact:         "Cats sleep a lot.",
		FactCategory: "cat",
	}
	if err := s.Put(rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get("2026-09-01")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Category != "cat" || got.Fact != rec.Fact {
		t.Errorf("Get returned wrong record: %+v", got)
	}
	if got.SourceURL == nil || *got.SourceURL != source {
		t.Errorf("source_url not round-tripped: %v", got.SourceURL)
	}
	if len(got.Image) != 3 {
		t.Errorf("image bytes not round-tripped: %d bytes", len(got.Image))
	}
}

func TestStore_GetMissing(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.Get("2026-01-01"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := s.MostRecent(); err != ErrNotFound {
		t.Errorf("expected ErrNotFound from MostRecent, got %v", err)
	}
}

func TestStore_PutOverwritesByDate(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put(Record{Date: "2026-09-01", Category: "cat", ImageURL: "/a", Photographer: "A", Fact: "f1", FactCategory: "cat"}); err != nil {
		t.Fatal(err)
	}
	if err := s.Put(Record{Date: "2026-09-01", Category: "dog", ImageURL: "/b", Photographer: "B", Fact: "f2", FactCategory: "dog"}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get("2026-09-01")
	if err != nil {
		t.Fatal(err)
	}
	if got.Category != "dog" || got.Fact != "f2" {
		t.Errorf("second Put did not overwrite: %+v", got)
	}

	dates, err := s.Dates()
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 1 {
		t.Errorf("expected a single record, got %v", dates)
	}
}

func TestStore_ReplaceAllPrunes(t *testing.T) {
	s := openTestStore(t)

	for _, d := range []string{"2026-08-28", "2026-08-29", "2026-08-30"} {
		if err := s.Put(Record{Date: d, Category: "cat", ImageURL: "/old", Photographer: "A", Fact: "old", FactCategory: "cat"}); err != nil {
			t.Fatal(err)
		}
	}

	today := Record{Date: "2026-09-01", Category: "dog", ImageURL: "/t", Photographer: "B", Fact: "today", FactCategory: "dog"}
	tomorrow := Record{Date: "2026-09-02", Category: "dog", ImageURL: "/m", Photographer: "C", Fact: "tomorrow", FactCategory: "dog"}
	if err := s.ReplaceAll([]Record{today, tomorrow}); err != nil {
		t.Fatalf("ReplaceAll failed: %v", err)
	}

	dates, err := s.Dates()
	if err != nil {
		t.Fatal(err)
	}
	if len(dates) != 2 || dates[0] != "2026-09-01" || dates[1] != "2026-09-02" {
		t.Errorf("retention window wrong: %v", dates)
	}
}

func TestStore_ReplaceAllEmptyKeepsExisting(t *testing.T) {
	s := openTestStore(t)

	if err := s.Put(Record{Date: "2026-09-01", Category: "cat", ImageURL: "/a", Photographer: "A", Fact: "f", FactCategory: "cat"}); err != nil {
		t.Fatal(err)
	}
	if err := s.ReplaceAll(nil); err != nil {
		t.Fatalf("ReplaceAll(nil) failed: %v", err)
	}
	if _, err := s.Get("2026-09-01"); err != nil {
		t.Errorf("empty ReplaceAll should not delete anything: %v", err)
	}
}

func TestStore_MostRecent(t *testing.T) {
	s := openTestStore(t)

	for _, d := range []string{"2026-08-30", "2026-09-01", "2026-08-31"} {
		if err := s.Put(Record{Date: d, Category: "cat", ImageURL: "/x", Photographer: "A", Fact: d, FactCategory: "cat"}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.MostRecent()
	if err != nil {
		t.Fatal(err)
	}
	if got.Date != "2026-09-01" {
		t.Errorf("MostRecent returned %s, want 2026-09-01", got.Date)
	}
}

func TestStore_SoundscapeCache(t *testing.T) {
	s := openTestStore(t)

	if _, err := s.SoundscapeCacheEntry(); err != ErrNotFound {
		t.Fatalf("expected ErrNotFound before first put, got %v", err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	entry := SoundscapeCache{
		Soundscapes: []Soundscape{
			{Key: "light-rain", Name: "Light Rain", AudioURL: "https://cdn.example.com/rain.pcm"},
			{Key: "forest", Name: "Forest", AudioURL: "https://cdn.example.com/forest.pcm"},
		},
		LastUpdated: now,
	}
	if err := s.PutSoundscapeCache(entry); err != nil {
		t.Fatalf("PutSoundscapeCache failed: %v", err)
	}

	got, err := s.SoundscapeCacheEntry()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Soundscapes) != 2 || got.Soundscapes[0].Key != "light-rain" {
		t.Errorf("soundscapes not round-tripped: %+v", got.Soundscapes)
	}
	if !got.LastUpdated.Equal(now) {
		t.Errorf("last_updated mismatch: got %v want %v", got.LastUpdated, now)
	}

	// A refresh overwrites the singleton row.
	entry.Soundscapes = entry.Soundscapes[:1]
	entry.LastUpdated = now.Add(time.Hour)
	if err := s.PutSoundscapeCache(entry); err != nil {
		t.Fatal(err)
	}
	got, err = s.SoundscapeCacheEntry()
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Soundscapes) != 1 {
		t.Errorf("overwrite failed: %+v", got.Soundscapes)
	}
}
