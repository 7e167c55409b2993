package audio

import "sync"

// MockPlayer implements Player for tests without touching the audio
// device.
type MockPlayer struct {
	mu      sync.Mutex
	playing bool
	volume  float64
	last    []byte

	PlayCount int
	StopCount int
	PlayErr   error
}

// NewMockPlayer creates a silent player.
func NewMockPlayer() *MockPlayer {
	return &MockPlayer{volume: 1.0}
}

func (m *MockPlayer) Play(pcm []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PlayErr != nil {
		return m.PlayErr
	}
	m.playing = true
	m.last = pcm
	m.PlayCount++
	return nil
}

func (m *MockPlayer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playing = false
	m.StopCount++
}

func (m *MockPlayer) SetVolume(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = v
}

func (m *MockPlayer) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playing
}

func (m *MockPlayer) Close() error {
	m.Stop()
	return nil
}

// LastPlayed returns the most recent PCM buffer handed to Play.
func (m *MockPlayer) LastPlayed() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}
