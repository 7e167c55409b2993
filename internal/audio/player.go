package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// Soundscape audio is served as raw PCM: 16-bit little endian, stereo,
// 44.1kHz. Ambient tracks are loops, so playback repeats until stopped.
const (
	sampleRate = 44100
	channels   = 2
)

// Player plays an ambient track on loop.
type Player interface {
	// Play starts looping the given PCM data, replacing any current track.
	Play(pcm []byte) error
	// Stop halts playback.
	Stop()
	// SetVolume sets the volume in [0, 1].
	SetVolume(v float64)
	// Playing reports whether a track is currently playing.
	Playing() bool
	// Close releases the audio device.
	Close() error
}

// OtoPlayer is the production Player backed by an oto context.
type OtoPlayer struct {
	context *oto.Context
	player  *oto.Player

	// The loop reader must stay referenced while oto streams from it.
	active *loopReader

	volume float64
	closed bool
	mu     sync.Mutex
}

// NewOtoPlayer opens the system audio device.
func NewOtoPlayer() (*OtoPlayer, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to open audio device: %w", err)
	}
	<-ready

	return &OtoPlayer{context: ctx, volume: 1.0}, nil
}

// Play starts looping the given PCM data.
func (p *OtoPlayer) Play(pcm []byte) error {
	if len(pcm) == 0 {
		return errors.New("audio data is empty")
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return errors.New("player is closed")
	}

	p.stopLocked()

	stream := newLoopReader(pcm)
	player := p.context.NewPlayer(stream)
	player.SetVolume(p.volume)
	player.Play()

	p.active = stream
	p.player = player
	return nil
}

// Stop halts playback.
func (p *OtoPlayer) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

func (p *OtoPlayer) stopLocked() {
	if p.player != nil {
		p.player.Pause()
		_ = p.player.Close()
		p.player = nil
		p.active = nil
	}
}

// SetVolume sets the volume in [0, 1].
func (p *OtoPlayer) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = v
	if p.player != nil {
		p.player.SetVolume(v)
	}
}

// Playing reports whether a track is currently playing.
func (p *OtoPlayer) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.player != nil && p.player.IsPlaying()
}

// Close stops playback and releases the device.
func (p *OtoPlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
	p.closed = true
	return nil
}

// Duration returns how long one loop of the given PCM data lasts.
func Duration(pcm []byte) time.Duration {
	samples := len(pcm) / (channels * 2)
	return time.Duration(samples) * time.Second / sampleRate
}

// loopReader replays its buffer forever.
type loopReader struct {
	data   []byte
	reader *bytes.Reader
	mu     sync.Mutex
}

func newLoopReader(data []byte) *loopReader {
	owned := make([]byte, len(data))
	copy(owned, data)
	return &loopReader{data: owned, reader: bytes.NewReader(owned)}
}

func (l *loopReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, err := l.reader.Read(p)
	if err == io.EOF {
		l.reader.Seek(0, io.SeekStart)
		if n == 0 {
			return l.reader.Read(p)
		}
		return n, nil
	}
	return n, err
}
