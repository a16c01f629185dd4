package server

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/apply-agent/internal/config"
)

// tokenClaims carries the caller ID inside a signed bearer token.
type tokenClaims struct {
	CallerID uuid.UUID `json:"caller_id"`
	jwt.RegisteredClaims
}

// TokenService issues and checks the bearer tokens accepted by the API.
// Tokens are HS256-signed JWTs with a fixed lifetime.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service from signing settings.
func NewTokenService(cfg *config.JWTConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
	}
}

// Issue signs a token identifying the caller, valid for the configured TTL.
func (s *TokenService) Issue(callerID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &tokenClaims{
		CallerID: callerID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Check verifies a token and returns the caller ID it was issued for.
// Its signature matches middleware.Validate.
func (s *TokenService) Check(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, fmt.Errorf("empty token")
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrSignatureInvalid):
			return uuid.Nil, fmt.Errorf("invalid token signature: %w", err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return uuid.Nil, fmt.Errorf("token expired: %w", err)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return uuid.Nil, fmt.Errorf("malformed token: %w", err)
		}
		return uuid.Nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("token is not valid")
	}

	return claims.CallerID, nil
}
