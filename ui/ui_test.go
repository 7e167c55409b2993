package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pettabs/pettabs/internal/audio"
	"github.com/pettabs/pettabs/internal/content"
	"github.com/pettabs/pettabs/internal/daily"
	"github.com/pettabs/pettabs/internal/settings"
)

type stubContent struct {
	result daily.Result
}

func (s stubContent) GetContent(context.Context, string) daily.Result {
	return s.result
}

type stubSoundscapes struct {
	list []content.Soundscape
}

func (s stubSoundscapes) Soundscapes(context.Context) []content.Soundscape {
	return s.list
}

type stubAudio struct {
	pcm []byte
}

func (s stubAudio) Audio(context.Context, string) ([]byte, error) {
	return s.pcm, nil
}

func newTestModel(t *testing.T) (model, *audio.MockPlayer, *settings.Repository) {
	t.Helper()

	repo := settings.NewRepository(filepath.Join(t.TempDir(), "settings.json"))
	player := audio.NewMockPlayer()

	deps := Deps{
		Content: stubContent{result: daily.Result{
			Fact:        content.Fact{Content: "Cats sleep a lot.", Category: "cat"},
			Attribution: content.Attribution{PhotographerName: "Jane"},
			Source:      daily.SourceCache,
		}},
		Soundscapes: stubSoundscapes{list: []content.Soundscape{
			{Key: "light-rain", Name: "Light Rain", AudioURL: "https://cdn.example/rain"},
			{Key: "ocean", Name: "Ocean", AudioURL: "https://cdn.example/ocean"},
		}},
		AudioAPI: stubAudio{pcm: []byte{0, 0, 0, 0}},
		Player:   player,
		Settings: repo,
	}

	m := newModel(Config{Sound: true, WaveTickMS: 90}, deps)
	m.width, m.height = 80, 24
	return m, player, repo
}

func step(t *testing.T, m model, msg tea.Msg) model {
	t.Helper()
	next, _ := m.Update(msg)
	got, ok := next.(model)
	if !ok {
		t.Fatalf("Update returned %T, want model", next)
	}
	return got
}

func TestViewShowsFactAndAttribution(t *testing.T) {
	m, _, _ := newTestModel(t)

	msg := m.loadContentCmd()()
	m = step(t, m, msg)

	view := m.View()
	if !strings.Contains(view, "Cats sleep a lot.") {
		t.Errorf("view missing fact:\n%s", view)
	}
	if !strings.Contains(view, "Photo by Jane") {
		t.Errorf("view missing attribution:\n%s", view)
	}
}

func TestZenTogglePersistsAndStartsAudio(t *testing.T) {
	m, player, repo := newTestModel(t)
	m = step(t, m, m.loadSoundscapesCmd()())

	next, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
	m = next.(model)
	if !m.zen {
		t.Fatal("expected zen mode on")
	}
	if !repo.Load().Appearance.ZenMode {
		t.Error("zen toggle not persisted")
	}
	if cmd == nil {
		t.Fatal("expected an audio load command")
	}

	m = step(t, m, cmd())
	if player.PlayCount != 1 {
		t.Errorf("PlayCount = %d, want 1", player.PlayCount)
	}
	if !m.playing {
		t.Error("expected playing after audio loads")
	}

	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'z'}})
	m = next.(model)
	if m.playing || player.Playing() {
		t.Error("expected playback stopped when zen turns off")
	}
	if repo.Load().Appearance.ZenMode {
		t.Error("zen off not persisted")
	}
}

func TestNextTrackCyclesAndPersists(t *testing.T) {
	m, _, repo := newTestModel(t)
	m = step(t, m, m.loadSoundscapesCmd()())

	if m.trackKey != "light-rain" {
		t.Fatalf("initial track = %q, want light-rain", m.trackKey)
	}

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = next.(model)
	if m.trackKey != "ocean" {
		t.Errorf("track after cycle = %q, want ocean", m.trackKey)
	}
	if got := repo.Load().Sound.ZenMusic; got != "ocean" {
		t.Errorf("persisted zenMusic = %q, want ocean", got)
	}

	next, _ = m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	m = next.(model)
	if m.trackKey != "light-rain" {
		t.Errorf("track after full cycle = %q, want light-rain", m.trackKey)
	}
}

func TestStaleAudioMsgIgnoredAfterTrackSwitch(t *testing.T) {
	m, player, _ := newTestModel(t)
	m = step(t, m, m.loadSoundscapesCmd()())
	m.zen = true

	m = step(t, m, audioMsg{key: "ocean", pcm: []byte{1, 2}})
	if player.PlayCount != 0 {
		t.Error("stale track audio should not play")
	}

	m = step(t, m, audioMsg{key: "light-rain", pcm: []byte{1, 2}})
	if player.PlayCount != 1 {
		t.Errorf("PlayCount = %d, want 1", player.PlayCount)
	}
	if !m.playing {
		t.Error("expected playing after current track audio arrives")
	}
}

func TestRenderWaveIdleVsPlaying(t *testing.T) {
	idle := renderWave(41, 0, false)
	if idle == "" {
		t.Fatal("expected idle wave output")
	}
	a := renderWave(41, 0, true)
	b := renderWave(41, 7, true)
	if a == b {
		t.Error("expected wave frames to differ while playing")
	}
}

func TestClockFormat(t *testing.T) {
	m, _, _ := newTestModel(t)
	m.now = time.Date(2026, 9, 1, 15, 4, 0, 0, time.UTC)
	m = step(t, m, m.loadContentCmd()())

	if !strings.Contains(m.View(), "3:04 PM") {
		t.Error("expected 12 hour clock by default")
	}

	m.cfg.TwentyFourHour = true
	if !strings.Contains(m.View(), "15:04") {
		t.Error("expected 24 hour clock")
	}
}
