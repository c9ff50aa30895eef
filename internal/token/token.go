// Package token issues and validates the signed download tokens that gate
// access to a run's output files. Tokens are short-lived HS256 JWTs carrying
// the run ID; possession of a valid token for a run is the only download
// credential (there are no user accounts).
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"dedupe/pkg/domain"
	dErrors "dedupe/pkg/domain-errors"
)

const issuer = "dedupe"

// Claims are the download token claims.
type Claims struct {
	RunID string `json:"run_id"`
	jwt.RegisteredClaims
}

// Signer signs and validates download tokens.
type Signer struct {
	signingKey []byte
	ttl        time.Duration
}

func NewSigner(signingKey string, ttl time.Duration) *Signer {
	return &Signer{signingKey: []byte(signingKey), ttl: ttl}
}

// Sign issues a download token for the run, valid for the configured TTL
// from now.
func (s *Signer) Sign(runID domain.RunID, now time.Time) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RunID: runID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
			ID:        uuid.NewString(),
		},
	})
	return t.SignedString(s.signingKey)
}

// Verify validates a token and returns the run it grants access to.
func (s *Signer) Verify(tokenString string) (domain.RunID, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.RunID{}, dErrors.New(dErrors.CodeUnauthorized, "download token has expired")
		}
		return domain.RunID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid download token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.RunID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid download token")
	}

	runID, err := domain.ParseRunID(claims.RunID)
	if err != nil {
		return domain.RunID{}, dErrors.New(dErrors.CodeUnauthorized, "invalid download token")
	}
	return runID, nil
}
