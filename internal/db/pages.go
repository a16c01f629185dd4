package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Fetch status values for cached pages.
const (
	FetchStatusSuccess = "success"
	FetchStatusFailed  = "failed"
)

// DefaultPageCacheTTL is how long a fetched page stays fresh.
const DefaultPageCacheTTL = 7 * 24 * time.Hour

// FetchedPage is a cached job posting fetch.
type FetchedPage struct {
	ID           uuid.UUID
	URL          string
	RawHTML      *string
	ParsedText   *string
	HTTPStatus   *int
	FetchStatus  string
	ErrorMessage *string
	FetchedAt    time.Time
}

// GetFreshPage returns the cached page for url if it was fetched
// successfully within ttl, else nil.
func (db *DB) GetFreshPage(ctx context.Context, url string, ttl time.Duration) (*FetchedPage, error) {
	var p FetchedPage
	err := db.pool.QueryRow(ctx,
		`SELECT id, url, raw_html, parsed_text, http_status, fetch_status, error_message, fetched_at
		 FROM fetched_pages
		 WHERE url = $1 AND fetch_status = $2 AND fetched_at > NOW() - $3::interval`,
		url, FetchStatusSuccess, fmt.Sprintf("%d seconds", int(ttl.Seconds())),
	).Scan(&p.ID, &p.URL, &p.RawHTML, &p.ParsedText, &p.HTTPStatus, &p.FetchStatus, &p.ErrorMessage, &p.FetchedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to check page cache: %w", err)
	}
	return &p, nil
}

// UpsertPage stores or refreshes a fetched page. The page's ID is set
// on insert.
func (db *DB) UpsertPage(ctx context.Context, page *FetchedPage) error {
	if page.ID == uuid.Nil {
		page.ID = uuid.New()
	}
	if page.FetchStatus == "" {
		page.FetchStatus = FetchStatusSuccess
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO fetched_pages (id, url, raw_html, parsed_text, http_status, fetch_status, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (url) DO UPDATE SET
		   raw_html = $3, parsed_text = $4, http_status = $5,
		   fetch_status = $6, error_message = $7, fetched_at = NOW()
		 RETURNING id`,
		page.ID, page.URL, page.RawHTML, page.ParsedText, page.HTTPStatus, page.FetchStatus, page.ErrorMessage,
	).Scan(&page.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert page: %w", err)
	}
	return nil
}

// RecordFailedFetch stores a failed fetch so repeated attempts against
// a dead URL can back off.
func (db *DB) RecordFailedFetch(ctx context.Context, url string, httpStatus int, errMsg string) error {
	page := &FetchedPage{
		URL:          url,
		FetchStatus:  FetchStatusFailed,
		ErrorMessage: &errMsg,
	}
	if httpStatus != 0 {
		page.HTTPStatus = &httpStatus
	}
	return db.UpsertPage(ctx, page)
}

// InvalidatePage forces the next fetch of url to bypass the cache.
func (db *DB) InvalidatePage(ctx context.Context, url string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE fetched_pages SET fetched_at = NOW() - INTERVAL '1 year' WHERE url = $1`,
		url,
	)
	if err != nil {
		return fmt.Errorf("failed to invalidate page: %w", err)
	}
	return nil
}
