// Package store persists daily content records and the soundscape list
// in a local SQLite database. The database survives restarts and is the
// only source of content when the network is unavailable.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	_ "modernc.org/sqlite" // pure-Go driver, no CGO
)

// ErrNotFound is returned when no record exists for the requested key.
var ErrNotFound = errors.New("store: not found")

// Store wraps the SQLite database holding cached content.
type Store struct {
	db *sql.DB
}

// Open opens (and if necessary creates) the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("unable to create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("unable to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS daily_content (
		date TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		image BLOB,
		image_url TEXT NOT NULL,
		photographer TEXT NOT NULL,
		source_url TEXT,
		fact TEXT NOT NULL,
		fact_category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS soundscape_cache (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL,
		last_updated DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Record is one cached daily content entry, keyed by date. At most one
// record exists per date; the category it was fetched for is stored
// alongside so a category switch can invalidate the hit.
type Record struct {
	Date         string
	Category     string
	Image        []byte
	ImageURL     string
	Photographer string
	SourceURL    *string
	Fact         string
	FactCategory string
}

// Get returns the record for the given date key, or ErrNotFound.
func (s *Store) Get(date string) (Record, error) {
	return s.scanOne(s.db.QueryRow(`
		SELECT date, category, image, image_url, photographer, source_url, fact, fact_category
		FROM daily_content WHERE date = ?
	`, date))
}

// MostRecent returns the record with the greatest date key. Date keys
// are YYYY-MM-DD strings, so lexicographic order is chronological.
func (s *Store) MostRecent() (Record, error) {
	return s.scanOne(s.db.QueryRow(`
		SELECT date, category, image, image_url, photographer, source_url, fact, fact_category
		FROM daily_content ORDER BY date DESC LIMIT 1
	`))
}

func (s *Store) scanOne(row *sql.Row) (Record, error) {
	var r Record
	var source sql.NullString
	err := row.Scan(&r.Date, &r.Category, &r.Image, &r.ImageURL, &r.Photographer, &source, &r.Fact, &r.FactCategory)
	if err == sql.ErrNoRows {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}
	if source.Valid {
		r.SourceURL = &source.String
	}
	return r, nil
}

// Put upserts a single record by date key.
func (s *Store) Put(r Record) error {
	_, err := s.db.Exec(`
		INSERT INTO daily_content (date, category, image, image_url, photographer, source_url, fact, fact_category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			category = excluded.category,
			image = excluded.image,
			image_url = excluded.image_url,
			photographer = excluded.photographer,
			source_url = excluded.source_url,
			fact = excluded.fact,
			fact_category = excluded.fact_category
	`, r.Date, r.Category, r.Image, r.ImageURL, r.Photographer, nullable(r.SourceURL), r.Fact, r.FactCategory)
	return err
}

// ReplaceAll upserts the given records and deletes every other dated
// entry in a single transaction, so retention is exactly the written
// set of dates. A crash mid-update leaves the previous contents intact.
func (s *Store) ReplaceAll(records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO daily_content (date, category, image, image_url, photographer, source_url, fact, fact_category)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			category = excluded.category,
			image = excluded.image,
			image_url = excluded.image_url,
			photographer = excluded.photographer,
			source_url = excluded.source_url,
			fact = excluded.fact,
			fact_category = excluded.fact_category
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	keep := make([]any, 0, len(records))
	placeholders := ""
	for i, r := range records {
		if _, err := stmt.Exec(r.Date, r.Category, r.Image, r.ImageURL, r.Photographer, nullable(r.SourceURL), r.Fact, r.FactCategory); err != nil {
			return err
		}
		if i > 0 {
			placeholders += ", "
		}
		placeholders += "?"
		keep = append(keep, r.Date)
	}

	if len(keep) > 0 {
		if _, err := tx.Exec("DELETE FROM daily_content WHERE date NOT IN ("+placeholders+")", keep...); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	log.Debug("Daily content replaced", "records", len(records))
	return nil
}

// SoundscapeCache is the singleton cached soundscape list plus the time
// it was last refreshed from the worker.
type SoundscapeCache struct {
	Soundscapes []Soundscape
	LastUpdated time.Time
}

// Soundscape mirrors content.Soundscape for JSON storage.
type Soundscape struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	AudioURL string `json:"audio_url"`
}

// SoundscapeCacheEntry returns the cached soundscape list, or
// ErrNotFound if it has never been populated.
func (s *Store) SoundscapeCacheEntry() (SoundscapeCache, error) {
	var payload string
	var updated time.Time
	err := s.db.QueryRow(`SELECT payload, last_updated FROM soundscape_cache WHERE id = 1`).Scan(&payload, &updated)
	if err == sql.ErrNoRows {
		return SoundscapeCache{}, ErrNotFound
	}
	if err != nil {
		return SoundscapeCache{}, err
	}

	var list []Soundscape
	if err := json.Unmarshal([]byte(payload), &list); err != nil {
		return SoundscapeCache{}, fmt.Errorf("corrupt soundscape cache: %w", err)
	}
	return SoundscapeCache{Soundscapes: list, LastUpdated: updated}, nil
}

// PutSoundscapeCache overwrites the cached soundscape list.
func (s *Store) PutSoundscapeCache(entry SoundscapeCache) error {
	payload, err := json.Marshal(entry.Soundscapes)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
		INSERT INTO soundscape_cache (id, payload, last_updated) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, last_updated = excluded.last_updated
	`, string(payload), entry.LastUpdated)
	return err
}

// Dates returns every stored date key in ascending order.
func (s *Store) Dates() ([]string, error) {
	rows, err := s.db.Query(`SELECT date FROM daily_content ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dates []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			continue
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}

// Size returns the total bytes of cached image data.
func (s *Store) Size() (int64, error) {
	var size sql.NullInt64
	err := s.db.QueryRow(`SELECT SUM(LENGTH(image)) FROM daily_content`).Scan(&size)
	return size.Int64, err
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func nullable(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}
