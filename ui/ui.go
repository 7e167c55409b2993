// Package ui provides the full-screen dashboard: clock, daily fact,
// attribution, quick links and the zen mode sound wave.
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/muesli/reflow/wordwrap"
	"github.com/pettabs/pettabs/internal/audio"
	"github.com/pettabs/pettabs/internal/content"
	"github.com/pettabs/pettabs/internal/daily"
	"github.com/pettabs/pettabs/internal/settings"
)

const statusTimeout = 3 * time.Second

// ContentProvider serves the daily content bundle.
type ContentProvider interface {
	GetContent(ctx context.Context, category string) daily.Result
}

// SoundscapeProvider serves the ambient track catalog.
type SoundscapeProvider interface {
	Soundscapes(ctx context.Context) []content.Soundscape
}

// AudioFetcher downloads raw soundscape audio.
type AudioFetcher interface {
	Audio(ctx context.Context, audioURL string) ([]byte, error)
}

// Deps are the services the dashboard renders from.
type Deps struct {
	Content     ContentProvider
	Soundscapes SoundscapeProvider
	AudioAPI    AudioFetcher
	AudioCache  *audio.Cache
	Player      audio.Player
	Settings    *settings.Repository
}

// NewProgram returns a new Tea program running the dashboard.
func NewProgram(cfg Config, deps Deps) *tea.Program {
	log.Debug("Starting dashboard", "category", cfg.Category, "zen", cfg.ZenMode)
	return tea.NewProgram(newModel(cfg, deps), tea.WithAltScreen())
}

// SettingsReloaded wraps freshly loaded settings for delivery to a
// running program, typically from a settings file watcher.
func SettingsReloaded(st settings.Settings) tea.Msg {
	return settingsReloadedMsg(st)
}

type (
	tickMsg     time.Time
	waveTickMsg time.Time

	contentMsg     daily.Result
	soundscapesMsg []content.Soundscape

	audioMsg struct {
		key string
		pcm []byte
		err error
	}

	settingsReloadedMsg settings.Settings
	statusExpiredMsg    struct{}
)

type model struct {
	cfg  Config
	deps Deps

	width  int
	height int

	now      time.Time
	result   daily.Result
	loaded   bool
	spinner  spinner.Model
	zen      bool
	status   string

	soundscapes []content.Soundscape
	trackKey    string
	playing     bool
	waveFrame   int

	links linksModel

	settings settings.Settings
}

func newModel(cfg Config, deps Deps) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	st := deps.Settings.Load()
	zen := cfg.ZenMode || st.Appearance.ZenMode

	return model{
		cfg:      cfg,
		deps:     deps,
		now:      time.Now(),
		spinner:  sp,
		zen:      zen,
		trackKey: st.Sound.ZenMusic,
		links:    newLinksModel(st.Links),
		settings: st,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		tickCmd(),
		m.loadContentCmd(),
		m.loadSoundscapesCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) waveTickCmd() tea.Cmd {
	d := time.Duration(m.cfg.WaveTickMS) * time.Millisecond
	if d <= 0 {
		d = 90 * time.Millisecond
	}
	return tea.Tick(d, func(t time.Time) tea.Msg { return waveTickMsg(t) })
}

func (m model) loadContentCmd() tea.Cmd {
	category := m.cfg.Category
	if category == "" {
		category = m.settings.Background.Category
	}
	provider := m.deps.Content
	return func() tea.Msg {
		return contentMsg(provider.GetContent(context.Background(), category))
	}
}

func (m model) loadSoundscapesCmd() tea.Cmd {
	provider := m.deps.Soundscapes
	return func() tea.Msg {
		return soundscapesMsg(provider.Soundscapes(context.Background()))
	}
}

// loadAudioCmd resolves a track's audio: cache first, then the worker,
// writing back to the cache on success.
func (m model) loadAudioCmd(track content.Soundscape) tea.Cmd {
	cache, api := m.deps.AudioCache, m.deps.AudioAPI
	return func() tea.Msg {
		if cache != nil {
			if pcm, ok := cache.Get(track.Key); ok {
				return audioMsg{key: track.Key, pcm: pcm}
			}
		}
		pcm, err := api.Audio(context.Background(), track.AudioURL)
		if err != nil {
			return audioMsg{key: track.Key, err: err}
		}
		if cache != nil {
			if err := cache.Put(track.Key, pcm); err != nil {
				log.Debug("Audio cache write failed", "track", track.Key, "error", err)
			}
		}
		return audioMsg{key: track.Key, pcm: pcm}
	}
}

func statusCmd() tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg { return statusExpiredMsg{} })
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		// Crossing midnight invalidates today's date key, so refresh:
		// the pre-fetched record makes this a pure cache hit.
		cmds := []tea.Cmd{tickCmd()}
		if content.DateKey(m.now) != content.DateKey(m.now.Add(-time.Second)) {
			cmds = append(cmds, m.loadContentCmd())
		}
		return m, tea.Batch(cmds...)

	case waveTickMsg:
		if !m.playing {
			return m, nil
		}
		m.waveFrame = (m.waveFrame + 1) % len(waveData)
		return m, m.waveTickCmd()

	case contentMsg:
		m.result = daily.Result(msg)
		m.loaded = true
		return m, nil

	case soundscapesMsg:
		m.soundscapes = []content.Soundscape(msg)
		if m.zen && m.cfg.Sound {
			if track, ok := m.currentTrack(); ok {
				return m, m.loadAudioCmd(track)
			}
		}
		return m, nil

	case audioMsg:
		if msg.err != nil {
			log.Debug("Audio load failed", "track", msg.key, "error", msg.err)
			return m, nil
		}
		if !m.zen || !m.cfg.Sound || msg.key != m.trackKey {
			return m, nil // superseded by a track switch or zen toggle
		}
		if err := m.deps.Player.Play(msg.pcm); err != nil {
			log.Debug("Playback failed", "track", msg.key, "error", err)
			return m, nil
		}
		m.deps.Player.SetVolume(m.settings.Sound.Volume)
		m.playing = true
		return m, m.waveTickCmd()

	case settingsReloadedMsg:
		m.settings = settings.Settings(msg)
		m.links.setLinks(m.settings.Links)
		return m, nil

	case statusExpiredMsg:
		m.status = ""
		return m, nil

	case spinner.TickMsg:
		if m.loaded {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.links.filtering {
		var cmd tea.Cmd
		m.links, cmd = m.links.update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "q", "esc", "ctrl+c":
		m.stopPlayback()
		return m, tea.Quit

	case "z":
		return m.toggleZen()

	case "s":
		return m.nextTrack()

	case "m":
		if m.playing {
			m.stopPlayback()
			return m, nil
		}
		if track, ok := m.currentTrack(); ok {
			return m, m.loadAudioCmd(track)
		}
		return m, nil

	case "r":
		m.loaded = false
		return m, tea.Batch(m.spinner.Tick, m.loadContentCmd())

	case "c":
		m.status = m.links.copySelected()
		if m.status != "" {
			return m, statusCmd()
		}
		return m, nil

	default:
		var cmd tea.Cmd
		m.links, cmd = m.links.update(msg)
		return m, cmd
	}
}

func (m model) toggleZen() (tea.Model, tea.Cmd) {
	m.zen = !m.zen

	appearance := m.settings.Appearance
	appearance.ZenMode = m.zen
	m.settings = m.deps.Settings.Apply(settings.Update{Appearance: &appearance})

	if !m.zen {
		m.stopPlayback()
		return m, nil
	}
	if m.cfg.Sound {
		if track, ok := m.currentTrack(); ok {
			return m, m.loadAudioCmd(track)
		}
	}
	return m, nil
}

func (m model) nextTrack() (tea.Model, tea.Cmd) {
	if len(m.soundscapes) == 0 {
		return m, nil
	}

	idx := 0
	for i, s := range m.soundscapes {
		if s.Key == m.trackKey {
			idx = (i + 1) % len(m.soundscapes)
			break
		}
	}
	track := m.soundscapes[idx]
	m.trackKey = track.Key

	sound := m.settings.Sound
	sound.ZenMusic = track.Key
	m.settings = m.deps.Settings.Apply(settings.Update{Sound: &sound})

	m.status = "soundscape: " + track.Name
	cmds := []tea.Cmd{statusCmd()}
	if m.playing || (m.zen && m.cfg.Sound) {
		cmds = append(cmds, m.loadAudioCmd(track))
	}
	return m, tea.Batch(cmds...)
}

func (m *model) stopPlayback() {
	if m.deps.Player != nil {
		m.deps.Player.Stop()
	}
	m.playing = false
}

func (m model) currentTrack() (content.Soundscape, bool) {
	for _, s := range m.soundscapes {
		if s.Key == m.trackKey {
			return s, true
		}
	}
	if len(m.soundscapes) > 0 {
		return m.soundscapes[0], true
	}
	return content.Soundscape{}, false
}

func (m model) View() string {
	if m.width == 0 {
		return ""
	}

	var sections []string

	clockFormat := "3:04 PM"
	if m.cfg.TwentyFourHour {
		clockFormat = "15:04"
	}
	sections = append(sections,
		clockStyle.Render(m.now.Format(clockFormat)),
		dateStyle.Render(m.now.Format("Monday, January 2")),
		"",
	)

	if m.zen {
		sections = append(sections, m.zenView()...)
	} else {
		sections = append(sections, m.dashboardView()...)
	}

	if m.status != "" {
		sections = append(sections, "", statusStyle.Render(m.status))
	}
	sections = append(sections, "", helpStyle.Render(m.helpLine()))

	body := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m model) dashboardView() []string {
	var sections []string

	textWidth := m.width * 2 / 3
	if textWidth < 24 {
		textWidth = 24
	}

	if !m.loaded {
		sections = append(sections, m.spinner.View()+" loading…")
	} else {
		fact := wordwrap.String("“"+m.result.Fact.Content+"”", textWidth)
		sections = append(sections, factStyle.Render(fact))

		if name := m.result.Attribution.PhotographerName; name != "" {
			line := "Photo by " + name
			if m.result.Attribution.SourceURL != nil {
				line += " · " + *m.result.Attribution.SourceURL
			}
			sections = append(sections, attributionStyle.Render(line))
		}
		if m.cfg.ShowSource {
			sections = append(sections, statusStyle.Render(fmt.Sprintf("[%s]", m.result.Source)))
		}
	}

	if bar := m.links.view(m.width - 4); bar != "" {
		sections = append(sections, "", bar)
	}
	return sections
}

func (m model) zenView() []string {
	waveWidth := m.width / 2
	if waveWidth > 61 {
		waveWidth = 61
	}

	sections := []string{renderWave(waveWidth, m.waveFrame, m.playing)}
	if track, ok := m.currentTrack(); ok && m.playing {
		sections = append(sections, soundscapeStyle.Render("♪ "+track.Name))
	}
	return sections
}

func (m model) helpLine() string {
	keys := []string{"z zen", "s soundscape", "m mute", "r refresh", "/ filter", "c copy link", "q quit"}
	return strings.Join(keys, " · ")
}
