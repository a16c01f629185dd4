// Package fetch - posting.go retrieves job posting text with
// platform-aware extraction and headless-browser fallback.
package fetch

import (
	"context"
	"log"
	"time"
)

// PostingOptions configures job posting retrieval.
type PostingOptions struct {
	Fetcher        *CachedFetcher
	BrowserTimeout time.Duration
	DisableBrowser bool
	Verbose        bool
}

// JobPostingText fetches a job posting URL and returns its main text.
// Plain HTTP is tried first; when the extracted text is too short the
// page is assumed to be client-rendered and re-fetched through a
// headless browser.
func JobPostingText(ctx context.Context, urlStr string, opts *PostingOptions) (string, error) {
	if opts == nil {
		opts = &PostingOptions{}
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = NewCachedFetcher(nil, nil)
	}

	platform := DetectPlatform(urlStr)
	if opts.Verbose {
		log.Printf("[FETCH] Platform for %s: %s", urlStr, platform)
	}

	result, err := fetcher.Fetch(ctx, urlStr)
	if err == nil && !ShouldUseBrowser(result.Text) {
		return result.Text, nil
	}

	if opts.DisableBrowser {
		if err != nil {
			return "", err
		}
		return result.Text, nil
	}

	timeout := opts.BrowserTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	html, berr := WithBrowser(ctx, urlStr, timeout, opts.Verbose)
	if berr != nil {
		// Fall back to whatever the plain fetch produced
		if err != nil {
			return "", err
		}
		return result.Text, nil
	}

	text, terr := ExtractMainText(html, PlatformContentSelectors(platform), PlatformNoiseSelectors(platform)...)
	if terr != nil {
		return "", terr
	}
	return text, nil
}
