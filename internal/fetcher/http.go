package fetcher

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"

	"github.com/lonestardata/dcscrape/internal/config"
	"github.com/lonestardata/dcscrape/internal/types"
)

// PolitenessFetcher implements Fetcher with the directory's crawl policy:
// a denylist of paths that are never fetched, and a mandatory fixed delay
// before every request, including the first one.
type PolitenessFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	cfg     *config.FetcherConfig
	logger  *slog.Logger
}

// NewPolitenessFetcher creates a fetcher honoring the given policy.
func NewPolitenessFetcher(cfg *config.FetcherConfig, logger *slog.Logger) *PolitenessFetcher {
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout: 10 * time.Second,
		DisableCompression:  true, // We handle decompression ourselves (including brotli)
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.RequestTimeout,
	}

	limiter := rate.NewLimiter(limitFor(cfg.Delay), 1)
	// Drain the initial token so the very first Fetch also waits the
	// full interval. Every remote access pays the same delay.
	limiter.Allow()

	return &PolitenessFetcher{
		client:  client,
		limiter: limiter,
		cfg:     cfg,
		logger:  logger.With("component", "fetcher"),
	}
}

// Fetch retrieves and wraps a page, or reports why it could not.
func (f *PolitenessFetcher) Fetch(ctx context.Context, rawURL string) (*types.Page, error) {
	for _, p := range f.cfg.DisallowedPaths {
		if strings.Contains(rawURL, p) {
			f.logger.Warn("skipping disallowed URL per robots.txt", "url", rawURL, "path", p)
			return nil, &types.FetchError{URL: rawURL, Err: types.ErrDisallowedPath}
		}
	}

	if err := f.limiter.Wait(ctx); err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}

	f.logger.Info("fetching", "url", rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}
	req.Header.Set("User-Agent", f.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	start := time.Now()
	resp, err := f.client.Do(req)
	duration := time.Since(start)

	if err != nil {
		f.logger.Error("fetch failed", "url", rawURL, "error", err)
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		ferr := &types.FetchError{
			URL:        rawURL,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body))),
		}
		f.logger.Error("fetch failed", "url", rawURL, "status", resp.StatusCode)
		return nil, ferr
	}

	var reader io.Reader = resp.Body
	if f.cfg.MaxBodySize > 0 {
		reader = io.LimitReader(reader, f.cfg.MaxBodySize)
	}

	reader, err = decompressReader(resp, reader)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		f.logger.Error("fetch failed reading body", "url", rawURL, "error", err)
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}
	if len(body) == 0 {
		return nil, &types.FetchError{URL: rawURL, Err: types.ErrEmptyResponse}
	}

	page := types.NewPage(rawURL, resp.StatusCode, body, duration)

	f.logger.Debug("fetch complete",
		"url", rawURL,
		"status", resp.StatusCode,
		"size", len(body),
		"duration", duration,
	)

	return page, nil
}

// Close releases resources.
func (f *PolitenessFetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}

// limitFor converts the fixed inter-request delay into a rate limit.
// A zero delay disables throttling (used by tests).
func limitFor(delay time.Duration) rate.Limit {
	if delay <= 0 {
		return rate.Inf
	}
	return rate.Every(delay)
}

// decompressReader wraps a reader with the appropriate decompressor.
// Handles gzip, deflate, and brotli (br) encodings.
func decompressReader(resp *http.Response, reader io.Reader) (io.Reader, error) {
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		return gzip.NewReader(reader)
	case "deflate":
		return flate.NewReader(reader), nil
	case "br":
		return brotli.NewReader(reader), nil
	default:
		return reader, nil
	}
}
