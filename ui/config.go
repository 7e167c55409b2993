package ui

// Config contains TUI-specific configuration.
type Config struct {
	// Category is the content category shown on the dashboard.
	Category string

	// ZenMode starts the dashboard with widgets hidden and the ambient
	// soundscape playing.
	ZenMode bool

	// Sound globally enables soundscape playback.
	Sound bool

	// Clock format: true for 24h, false for 12h.
	TwentyFourHour bool

	HomeDir string `env:"HOME"`

	// For debugging the UI
	ShowSource bool `env:"PETTABS_SHOW_SOURCE"`
	WaveTickMS int  `env:"PETTABS_WAVE_TICK_MS" envDefault:"90"`
}
