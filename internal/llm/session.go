// Package llm - session.go provides a lazily initialized generation
// session used for field fallback, resume extraction and summarization.
package llm

import (
	"context"
	"fmt"
	"sync"
)

// Availability states for the generation backend.
const (
	AvailabilityAvailable    = "available"
	AvailabilityDownloadable = "downloadable"
	AvailabilityUnavailable  = "unavailable"
)

// Session wraps a Client with a fixed tier and defers client creation
// until the first Generate call. Callers that never hit a generation
// path pay no startup cost and need no API key.
type Session struct {
	config *Config
	apiKey string
	tier   ModelTier

	mu     sync.Mutex
	client Client
}

// NewSession creates a session. The client is not created until first use.
func NewSession(config *Config, apiKey string, tier ModelTier) *Session {
	if config == nil {
		config = DefaultConfig()
	}
	return &Session{config: config, apiKey: apiKey, tier: tier}
}

// Availability reports whether the session can serve generation calls.
// A session with no API key is unavailable; one with a key but no
// client yet is downloadable (it will initialize on first use).
func (s *Session) Availability() string {
	if s.apiKey == "" {
		return AvailabilityUnavailable
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return AvailabilityAvailable
	}
	return AvailabilityDownloadable
}

func (s *Session) ensureClient(ctx context.Context) (Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	if s.apiKey == "" {
		return nil, fmt.Errorf("generation backend unavailable: no API key")
	}
	client, err := NewClient(ctx, s.config, s.apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generation session: %w", err)
	}
	s.client = client
	return client, nil
}

// Generate produces text for the prompt at the session's tier.
func (s *Session) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return "", err
	}
	return client.GenerateContent(ctx, prompt, s.tier)
}

// GenerateJSON produces JSON text for the prompt at the session's tier,
// with markdown fences stripped.
func (s *Session) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	client, err := s.ensureClient(ctx)
	if err != nil {
		return "", err
	}
	return client.GenerateJSON(ctx, prompt, s.tier)
}

// Close releases the underlying client if one was created.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}
