// Package middleware holds HTTP middleware shared by the API server.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

type contextKey int

const callerIDKey contextKey = iota

// Validate checks a raw bearer token and returns the caller it identifies.
type Validate func(token string) (uuid.UUID, error)

// RequireAuth rejects any request that lacks a valid bearer token. The
// authenticated caller ID is stored on the request context for handlers.
func RequireAuth(validate Validate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			callerID, err := validate(token)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), callerIDKey, callerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an Authorization header value.
// The scheme comparison is case insensitive.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

// CallerID returns the authenticated caller ID stored by RequireAuth.
func CallerID(r *http.Request) (uuid.UUID, bool) {
	id, ok := r.Context().Value(callerIDKey).(uuid.UUID)
	return id, ok
}

// WithCallerID returns a copy of ctx carrying the given caller ID.
func WithCallerID(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, callerIDKey, id)
}
