// Package fetch provides generic URL fetching with optional caching.
package fetch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/apply-agent/internal/db"
)

// CachedFetcher wraps URL fetching with database-backed caching.
type CachedFetcher struct {
	db        *db.DB
	options   *Options
	cacheTTL  time.Duration
	skipCache bool // For testing or forcing fresh fetches
}

// CachedFetcherConfig holds configuration for the cached fetcher.
type CachedFetcherConfig struct {
	CacheTTL  time.Duration
	SkipCache bool
	Options   *Options
}

// DefaultCachedFetcherConfig returns sensible defaults.
func DefaultCachedFetcherConfig() *CachedFetcherConfig {
	return &CachedFetcherConfig{
		CacheTTL:  db.DefaultPageCacheTTL, // 7 days
		SkipCache: false,
		Options:   DefaultOptions(),
	}
}

// NewCachedFetcher creates a new cached fetcher. database may be nil,
// in which case every fetch goes to the network.
func NewCachedFetcher(database *db.DB, config *CachedFetcherConfig) *CachedFetcher {
	if config == nil {
		config = DefaultCachedFetcherConfig()
	}
	if config.Options == nil {
		config.Options = DefaultOptions()
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = db.DefaultPageCacheTTL
	}
	return &CachedFetcher{
		db:        database,
		options:   config.Options,
		cacheTTL:  config.CacheTTL,
		skipCache: config.SkipCache,
	}
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool      // Whether this result came from cache
	PageID    uuid.UUID // Database ID of the cached page
}

// Fetch retrieves a URL, using cache if available and fresh. Fresh
// fetches run text extraction with platform-aware selectors and store
// the result.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	if !f.skipCache && f.db != nil {
		cached, err := f.db.GetFreshPage(ctx, urlStr, f.cacheTTL)
		if err != nil {
			return nil, err
		}
		if cached != nil {
			return &CachedResult{
				Result: &Result{
					URL:        cached.URL,
					HTML:       derefString(cached.RawHTML),
					Text:       derefString(cached.ParsedText),
					StatusCode: derefInt(cached.HTTPStatus),
				},
				FromCache: true,
				PageID:    cached.ID,
			}, nil
		}
	}

	result, err := URL(ctx, urlStr, f.options)
	if err != nil {
		if f.db != nil {
			statusCode := 0
			if result != nil {
				statusCode = result.StatusCode
			}
			_ = f.db.RecordFailedFetch(ctx, urlStr, statusCode, err.Error())
		}
		return nil, err
	}

	platform := DetectPlatform(urlStr)
	text, _ := ExtractMainText(result.HTML, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	result.Text = text

	out := &CachedResult{Result: result}
	if f.db != nil {
		page := &db.FetchedPage{
			URL:        urlStr,
			RawHTML:    &result.HTML,
			ParsedText: &result.Text,
			HTTPStatus: &result.StatusCode,
		}
		// Cache store failures do not fail the fetch
		if err := f.db.UpsertPage(ctx, page); err == nil {
			out.PageID = page.ID
		}
	}
	return out, nil
}

// InvalidateCache forces a re-fetch of urlStr on the next request.
func (f *CachedFetcher) InvalidateCache(ctx context.Context, urlStr string) error {
	if f.db == nil {
		return nil
	}
	return f.db.InvalidatePage(ctx, urlStr)
}

// Helper functions

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
