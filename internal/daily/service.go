// Package daily decides where each day's content comes from: the local
// cache, the worker, or the static offline payload. It is the only
// place with fallback logic; callers always get something renderable.
package daily

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pettabs/pettabs/internal/content"
	"github.com/pettabs/pettabs/internal/store"
	"github.com/pettabs/pettabs/internal/worker"
)

// Source classifies where a result came from.
type Source string

const (
	// SourceCache means today's record was served straight from the store.
	SourceCache Source = "cache"
	// SourceNetwork means the content was just fetched from the worker.
	SourceNetwork Source = "network"
	// SourceFallback means a best-effort stale record or the static
	// offline payload was used.
	SourceFallback Source = "fallback"
	// SourceEmpty means no category was selected and nothing was fetched.
	SourceEmpty Source = "empty"
)

// Result is what the dashboard renders.
type Result struct {
	Image       []byte
	ImageURL    string
	Fact        content.Fact
	Attribution content.Attribution
	Source      Source
}

// ContentStore is the slice of the store the service needs.
type ContentStore interface {
	Get(date string) (store.Record, error)
	ReplaceAll(records []store.Record) error
	MostRecent() (store.Record, error)
}

// ContentAPI is the slice of the worker client the service needs.
type ContentAPI interface {
	DailyContent(ctx context.Context, userID, category string) (worker.DailyContentResponse, error)
	Image(ctx context.Context, urlPath string) ([]byte, error)
}

// Config configures a Service.
type Config struct {
	Store  ContentStore
	API    ContentAPI
	UserID string

	// Online reports whether the network should be attempted at all.
	// Defaults to always-online; actual network failures still fall back.
	Online func() bool

	// Now is the clock used for date keys. Defaults to time.Now.
	Now func() time.Time
}

// Service implements the fetch/cache/fallback orchestration.
type Service struct {
	store  ContentStore
	api    ContentAPI
	userID string
	online func() bool
	now    func() time.Time

	// gen tags each fetch so a slow response that resolves after a newer
	// request started is not written over the newer result.
	gen atomic.Uint64
}

// New creates a Service.
func New(cfg Config) *Service {
	if cfg.Online == nil {
		cfg.Online = func() bool { return true }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Service{
		store:  cfg.Store,
		api:    cfg.API,
		userID: cfg.UserID,
		online: cfg.Online,
		now:    cfg.Now,
	}
}

// GetContent returns content for the category, trying cache, then
// network (pre-fetching tomorrow), then stale cache, then the static
// fallback. It never returns an error; failures degrade silently.
func (s *Service) GetContent(ctx context.Context, category string) Result {
	if category == "" {
		return Result{Source: SourceEmpty}
	}

	today := content.DateKey(s.now())

	// Exact hit: today's record for the same category. A category switch
	// invalidates the hit even when the date matches.
	if rec, err := s.store.Get(today); err == nil && rec.Category == category {
		return resultFromRecord(rec, SourceCache)
	} else if err != nil && err != store.ErrNotFound {
		log.Debug("Cache read failed, treating as miss", "error", err)
	}

	if !s.online() {
		return s.fallback()
	}

	gen := s.gen.Add(1)

	rec, ok := s.refresh(ctx, gen, category, today)
	if !ok {
		return s.fallback()
	}
	if rec == nil {
		// A newer request superseded this one while it was in flight.
		// Its results were discarded; serve whatever is current now.
		if cur, err := s.store.Get(today); err == nil {
			return resultFromRecord(cur, SourceCache)
		}
		return s.fallback()
	}
	return resultFromRecord(*rec, SourceNetwork)
}

// refresh fetches today's and tomorrow's content plus both image assets
// and applies them atomically. It returns (nil, true) when the fetch
// succeeded but was superseded by a newer generation, and (nil, false)
// on any failure.
func (s *Service) refresh(ctx context.Context, gen uint64, category, today string) (*store.Record, bool) {
	resp, err := s.api.DailyContent(ctx, s.userID, category)
	if err != nil {
		log.Debug("Daily content fetch failed", "category", category, "error", err)
		return nil, false
	}

	days := []worker.DayContent{resp.Today, resp.Tomorrow}
	images := make([][]byte, len(days))
	errs := make([]error, len(days))

	var wg sync.WaitGroup
	for i, day := range days {
		wg.Add(1)
		go func(i int, urlPath string) {
			defer wg.Done()
			images[i], errs[i] = s.api.Image(ctx, urlPath)
		}(i, day.Image.URLPath)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			log.Debug("Image asset fetch failed", "path", days[i].Image.URLPath, "error", err)
			return nil, false
		}
	}

	tomorrow := content.DateKey(s.now().AddDate(0, 0, 1))
	records := []store.Record{
		recordFor(today, category, resp.Today, images[0]),
		recordFor(tomorrow, category, resp.Tomorrow, images[1]),
	}

	if s.gen.Load() != gen {
		log.Debug("Discarding stale fetch result", "category", category)
		return nil, true
	}

	if err := s.store.ReplaceAll(records); err != nil {
		// Storage trouble is not fatal: the fetched content is still
		// perfectly displayable, it just will not survive a restart.
		log.Debug("Cache write failed", "error", err)
	}
	return &records[0], true
}

// fallback serves the most recent cached record of any date or, when
// the cache has never been populated, the static offline payload.
func (s *Service) fallback() Result {
	if rec, err := s.store.MostRecent(); err == nil {
		return resultFromRecord(rec, SourceFallback)
	}
	fb := content.OfflineFallback()
	return Result{
		ImageURL:    fb.ImageURL,
		Fact:        fb.Fact,
		Attribution: fb.Attribution,
		Source:      SourceFallback,
	}
}

func recordFor(date, category string, day worker.DayContent, image []byte) store.Record {
	return store.Record{
		Date:         date,
		Category:     category,
		Image:        image,
		ImageURL:     day.Image.URLPath,
		Photographer: day.Image.Attribution.PhotographerName,
		SourceURL:    day.Image.Attribution.SourceURL,
		Fact:         day.Fact.Content,
		FactCategory: day.Fact.Category,
	}
}

func resultFromRecord(rec store.Record, src Source) Result {
	return Result{
		Image:    rec.Image,
		ImageURL: rec.ImageURL,
		Fact: content.Fact{
			Content:  rec.Fact,
			Category: rec.FactCategory,
		},
		Attribution: content.Attribution{
			PhotographerName: rec.Photographer,
			SourceURL:        rec.SourceURL,
		},
		Source: src,
	}
}
