// Package audio caches downloaded soundscape audio on disk and plays it
// through the system audio device.
package audio

import (
	"bytes"
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Cache stores compressed soundscape audio keyed by track key, so zen
// mode keeps working offline once a track has been downloaded.
type Cache struct {
	basePath string

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	index map[string]*cacheEntry
	mu    sync.Mutex
}

type cacheEntry struct {
	Key       string
	FilePath  string
	Size      int64
	Timestamp time.Time
}

// NewCache creates a cache rooted at basePath, creating it if needed.
func NewCache(basePath string) (*Cache, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("unable to create audio cache directory: %w", err)
	}

	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("unable to create zstd encoder: %w", err)
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create zstd decoder: %w", err)
	}

	c := &Cache{
		basePath: basePath,
		encoder:  encoder,
		decoder:  decoder,
		index:    make(map[string]*cacheEntry),
	}

	// A missing or unreadable index just means an empty cache.
	if err := c.loadIndex(); err != nil {
		c.index = make(map[string]*cacheEntry)
	}
	return c, nil
}

// Get returns the decompressed audio for a track key.
func (c *Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.index[key]
	if !ok {
		return nil, false
	}

	data, err := os.ReadFile(entry.FilePath)
	if err != nil {
		delete(c.index, key)
		return nil, false
	}

	decompressed, err := c.decoder.DecodeAll(data, nil)
	if err != nil {
		delete(c.index, key)
		os.Remove(entry.FilePath)
		return nil, false
	}
	return decompressed, true
}

// Put compresses and stores audio for a track key.
func (c *Cache) Put(key string, audio []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	compressed := c.encoder.EncodeAll(audio, nil)
	path := c.filePath(key)
	if err := writeAtomic(path, compressed); err != nil {
		return fmt.Errorf("unable to write audio cache file: %w", err)
	}

	c.index[key] = &cacheEntry{
		Key:       key,
		FilePath:  path,
		Size:      int64(len(compressed)),
		Timestamp: time.Now(),
	}
	return c.saveIndex()
}

// Size returns the total compressed bytes on disk.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	var total int64
	for _, entry := range c.index {
		total += entry.Size
	}
	return total
}

// Keys returns the cached track keys.
func (c *Cache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]string, 0, len(c.index))
	for key := range c.index {
		keys = append(keys, key)
	}
	return keys
}

// Prune removes entries older than maxAge and returns how many were
// deleted.
func (c *Cache) Prune(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for key, entry := range c.index {
		if entry.Timestamp.Before(cutoff) {
			os.Remove(entry.FilePath)
			delete(c.index, key)
			removed++
		}
	}
	if removed > 0 {
		_ = c.saveIndex()
	}
	return removed
}

// Clear removes every cached track.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, entry := range c.index {
		os.Remove(entry.FilePath)
	}
	c.index = make(map[string]*cacheEntry)
	return c.saveIndex()
}

// Close persists the index.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveIndex()
}

func (c *Cache) filePath(key string) string {
	hash := sha256.Sum256([]byte(key))
	return filepath.Join(c.basePath, hex.EncodeToString(hash[:16])+".zst")
}

func (c *Cache) loadIndex() error {
	file, err := os.Open(filepath.Join(c.basePath, "audio.index"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer file.Close()
	return gob.NewDecoder(file).Decode(&c.index)
}

func (c *Cache) saveIndex() error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(c.index); err != nil {
		return err
	}
	return writeAtomic(filepath.Join(c.basePath, "audio.index"), buf.Bytes())
}

// writeAtomic writes via a temp file and rename so a crash mid-write
// never leaves a truncated cache file behind.
func writeAtomic(path string, data []byte) error {
	tempPath := path + ".tmp"

	file, err := os.Create(tempPath)
	if err != nil {
		return err
	}
	_, err = file.Write(data)
	closeErr := file.Close()

	if err != nil {
		os.Remove(tempPath)
		return err
	}
	if closeErr != nil {
		os.Remove(tempPath)
		return closeErr
	}
	return os.Rename(tempPath, path)
}
