package server

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/apply-agent/internal/config"
)

func newTestTokenService(ttl time.Duration) *TokenService {
	return NewTokenService(&config.JWTConfig{
		Secret: "test-signing-secret",
		TTL:    ttl,
	})
}

func TestTokenService_IssueAndCheck(t *testing.T) {
	svc := newTestTokenService(24 * time.Hour)
	callerID := uuid.New()

	token, err := svc.Issue(callerID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Len(t, strings.Split(token, "."), 3)

	got, err := svc.Check(token)
	require.NoError(t, err)
	assert.Equal(t, callerID, got)
}

func TestTokenService_Check_DistinctCallers(t *testing.T) {
	svc := newTestTokenService(24 * time.Hour)
	id1 := uuid.New()
	id2 := uuid.New()

	token1, err := svc.Issue(id1)
	require.NoError(t, err)
	token2, err := svc.Issue(id2)
	require.NoError(t, err)

	got1, err := svc.Check(token1)
	require.NoError(t, err)
	got2, err := svc.Check(token2)
	require.NoError(t, err)

	assert.Equal(t, id1, got1)
	assert.Equal(t, id2, got2)
}

func TestTokenService_Check_WrongSecret(t *testing.T) {
	issuer := newTestTokenService(24 * time.Hour)
	checker := NewTokenService(&config.JWTConfig{
		Secret: "a-different-secret",
		TTL:    24 * time.Hour,
	})

	token, err := issuer.Issue(uuid.New())
	require.NoError(t, err)

	_, err = checker.Check(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "signature")
}

func TestTokenService_Check_Malformed(t *testing.T) {
	svc := newTestTokenService(24 * time.Hour)

	for _, raw := range []string{"not-a-jwt", "a.b", "a.b.c.d"} {
		_, err := svc.Check(raw)
		assert.Error(t, err, "token %q", raw)
	}
}

func TestTokenService_Check_EmptyToken(t *testing.T) {
	svc := newTestTokenService(24 * time.Hour)

	_, err := svc.Check("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty token")
}

func TestTokenService_Check_Expired(t *testing.T) {
	svc := newTestTokenService(-time.Hour)

	token, err := svc.Issue(uuid.New())
	require.NoError(t, err)

	_, err = svc.Check(token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expired")
}
