// Package content defines the daily content data model shared by the
// cache store, the worker client and the dashboard.
package content

import "time"

// DateKeyFormat is the calendar date key used throughout the cache.
const DateKeyFormat = "2006-01-02"

// Attribution describes the provenance of a background image. It is
// immutable once attached to a record.
type Attribution struct {
	PhotographerName string  `json:"photographer_name"`
	SourceURL        *string `json:"source_url"`
}

// Fact is a short piece of trivia shown on the dashboard.
type Fact struct {
	Content  string `json:"content"`
	Category string `json:"category"`
}

// Daily bundles everything associated with one calendar date and
// category: the background image, its attribution and the fact.
type Daily struct {
	Date        string // YYYY-MM-DD, local time
	Category    string
	Image       []byte // raw image bytes as served by the worker
	ImageURL    string // worker path the image was fetched from
	Attribution Attribution
	Fact        Fact
}

// Soundscape references a remote ambient audio track.
type Soundscape struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	AudioURL string `json:"audio_url"`
}

// DateKey formats t as a cache date key in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyFormat)
}

// FallbackImagePath is the bundled image shown when neither cache nor
// network can produce content.
const FallbackImagePath = "offline-background.jpg"

// OfflineFallback returns the static payload used when the cache is
// empty and no connectivity is available. The dashboard must always
// have something to render, even on a first run while offline.
func OfflineFallback() Daily {
	return Daily{
		ImageURL: FallbackImagePath,
		Attribution: Attribution{
			PhotographerName: "Pettabs Team",
		},
		Fact: Fact{
			Content:  "Did you know? A cat's purr can be a form of self-healing.",
			Category: "General",
		},
	}
}
