package settings

import (
	"os"
	"path/filepath"
	"testing"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	return NewRepository(filepath.Join(t.TempDir(), "settings.json"))
}

func TestLoad_NoFileReturnsDefaults(t *testing.T) {
	s := newRepo(t).Load()
	if s.Background.Category != "cat" {
		t.Errorf("category = %q, want cat", s.Background.Category)
	}
	if s.Sound.ZenMusic != "light-rain" {
		t.Errorf("zenMusic = %q, want light-rain", s.Sound.ZenMusic)
	}
	if !s.Appearance.ShowUsage || s.Appearance.ZenMode {
		t.Errorf("appearance defaults wrong: %+v", s.Appearance)
	}
}

func TestLoad_PartialFileMergesDefaults(t *testing.T) {
	r := newRepo(t)
	if err := os.WriteFile(r.Path(), []byte(`{"background": {"category": "dog"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := r.Load()
	if s.Background.Category != "dog" {
		t.Errorf("category = %q, want dog", s.Background.Category)
	}
	if s.Background.Attribution != nil {
		t.Errorf("attribution should default to nil, got %+v", s.Background.Attribution)
	}
	if s.Sound.ZenMusic != "light-rain" || !s.Appearance.ShowUsage {
		t.Errorf("other sections lost their defaults: %+v", s)
	}
}

func TestLoad_PartialSectionKeepsFieldDefaults(t *testing.T) {
	r := newRepo(t)
	if err := os.WriteFile(r.Path(), []byte(`{"sound": {"zenMusic": "waves"}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := r.Load()
	if s.Sound.ZenMusic != "waves" {
		t.Errorf("zenMusic = %q, want waves", s.Sound.ZenMusic)
	}
	if s.Sound.Volume != 0.8 {
		t.Errorf("missing volume should keep default, got %v", s.Sound.Volume)
	}
}

func TestLoad_CorruptFileReturnsDefaults(t *testing.T) {
	r := newRepo(t)
	if err := os.WriteFile(r.Path(), []byte(`{not json`), 0o644); err != nil {
		t.Fatal(err)
	}

	s := r.Load()
	if s.Background.Category != "cat" {
		t.Errorf("corrupt file should load defaults, got %+v", s)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	r := newRepo(t)

	s := Defaults()
	s.Appearance.ZenMode = true
	s.Background.Category = "dog"
	s.Links = []QuickLink{{Name: "Mail", URL: "https://mail.example.com"}}
	r.Save(s)

	got := r.Load()
	if !got.Appearance.ZenMode || got.Background.Category != "dog" {
		t.Errorf("round trip lost changes: %+v", got)
	}
	if len(got.Links) != 1 || got.Links[0].Name != "Mail" {
		t.Errorf("links lost: %+v", got.Links)
	}
}

func TestApply_ReplacesOnlyGivenSections(t *testing.T) {
	r := newRepo(t)
	r.Save(Settings{
		Appearance: Appearance{ZenMode: true, ShowUsage: false},
		Background: Background{Category: "dog"},
		Sound:      Sound{ZenMusic: "waves", Volume: 0.5},
	})

	got := r.Apply(Update{Sound: &Sound{ZenMusic: "forest", Volume: 1.0}})
	if got.Sound.ZenMusic != "forest" {
		t.Errorf("sound not updated: %+v", got.Sound)
	}
	if got.Background.Category != "dog" || !got.Appearance.ZenMode {
		t.Errorf("untouched sections changed: %+v", got)
	}

	// And the change is persisted.
	if reloaded := r.Load(); reloaded.Sound.ZenMusic != "forest" {
		t.Errorf("Apply did not persist: %+v", reloaded.Sound)
	}
}

func TestUserID_StableAcrossCalls(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_id")

	first, err := UserID(path)
	if err != nil {
		t.Fatalf("UserID failed: %v", err)
	}
	if first == "" {
		t.Fatal("empty user id")
	}

	second, err := UserID(path)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Errorf("user id changed between calls: %q vs %q", first, second)
	}
}
