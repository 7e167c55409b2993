// Package worker is the HTTP client for the remote Pettabs worker API.
// The worker serves the daily content bundle, soundscape catalog and the
// simpler one-shot endpoints. Its implementation lives elsewhere; this
// package only speaks its wire format.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pettabs/pettabs/internal/content"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production worker endpoint.
const DefaultBaseURL = "https://pettabs-worker.pettabs.workers.dev"

// requestTimeout bounds every worker call so a hung request cannot delay
// the offline fallback path indefinitely.
const requestTimeout = 10 * time.Second

// ErrIncomplete is returned when the worker response is missing required
// fields. Callers treat it like any other fetch failure.
var ErrIncomplete = errors.New("worker: incomplete response")

// Client calls the worker API.
type Client struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
}

// New creates a Client for the given base URL. An empty baseURL selects
// the production worker.
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
		// The dashboard fires a handful of requests on startup; keep a
		// gentle ceiling so a misbehaving loop cannot hammer the worker.
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
}

// ImageRef is an image reference plus attribution as served by the
// daily-content endpoint. The image itself is fetched separately from
// URLPath.
type ImageRef struct {
	URLPath     string              `json:"url_path"`
	Attribution content.Attribution `json:"attribution"`
}

// DayContent is one day's worth of content.
type DayContent struct {
	Image ImageRef     `json:"image"`
	Fact  content.Fact `json:"fact"`
}

// DailyContentResponse is the two-day bundle: today's content plus
// tomorrow's for pre-fetching across the midnight rollover.
type DailyContentResponse struct {
	Today    DayContent `json:"today"`
	Tomorrow DayContent `json:"tomorrow"`
}

// DailyContent fetches today's and tomorrow's content for a category.
// Responses missing either day or its required sub-fields fail with
// ErrIncomplete so a partial bundle never reaches the cache.
func (c *Client) DailyContent(ctx context.Context, userID, category string) (DailyContentResponse, error) {
	var resp DailyContentResponse
	q := url.Values{"userId": {userID}, "category": {category}}
	if err := c.getJSON(ctx, "/api/daily-content?"+q.Encode(), &resp); err != nil {
		return DailyContentResponse{}, err
	}
	for _, day := range []DayContent{resp.Today, resp.Tomorrow} {
		if day.Image.URLPath == "" || day.Fact.Content == "" {
			return DailyContentResponse{}, ErrIncomplete
		}
	}
	return resp, nil
}

// Soundscapes fetches the ambient track catalog.
func (c *Client) Soundscapes(ctx context.Context) ([]content.Soundscape, error) {
	var list []content.Soundscape
	if err := c.getJSON(ctx, "/api/soundscapes", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Fact fetches a single fact, as used by the `pettabs fact` command.
func (c *Client) Fact(ctx context.Context) (content.Fact, error) {
	var f content.Fact
	if err := c.getJSON(ctx, "/api/fact", &f); err != nil {
		return content.Fact{}, err
	}
	if f.Content == "" {
		return content.Fact{}, ErrIncomplete
	}
	return f, nil
}

// Inspiration is a quote with an optional author.
type Inspiration struct {
	Content string  `json:"content"`
	Author  *string `json:"author"`
}

// Inspiration fetches an inspirational quote.
func (c *Client) Inspiration(ctx context.Context) (Inspiration, error) {
	var in Inspiration
	if err := c.getJSON(ctx, "/api/inspiration", &in); err != nil {
		return Inspiration{}, err
	}
	if in.Content == "" {
		return Inspiration{}, ErrIncomplete
	}
	return in, nil
}

// Background fetches a single background image URL for a category.
func (c *Client) Background(ctx context.Context, category string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	q := url.Values{"category": {category}}
	if err := c.getJSON(ctx, "/api/background?"+q.Encode(), &resp); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", ErrIncomplete
	}
	return resp.URL, nil
}

// Image fetches the raw image bytes for a url_path returned by the
// daily-content endpoint.
func (c *Client) Image(ctx context.Context, urlPath string) ([]byte, error) {
	body, err := c.get(ctx, c.baseURL+urlPath)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

// Audio fetches the raw audio bytes for a soundscape. The audio URL is
// absolute, so it is fetched as-is.
func (c *Client) Audio(ctx context.Context, audioURL string) ([]byte, error) {
	body, err := c.get(ctx, audioURL)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return io.ReadAll(body)
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	body, err := c.get(ctx, c.baseURL+path)
	if err != nil {
		return err
	}
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("unable to decode worker response: %w", err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request: %w", err)
	}
	req.Header.Set("User-Agent", "pettabs (terminal)")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to reach worker: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("worker returned HTTP %d", resp.StatusCode)
	}
	return resp.Body, nil
}
