package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the subset of the backend token the CLI cares about.
type Claims struct {
	Subject   string
	Email     string
	IssuedAt  *time.Time
	ExpiresAt *time.Time
}

// Parse reads token claims without verifying the signature; the backend stays the
// only party that can validate a token, the client only looks at expiry.
func Parse(token string) (Claims, error) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return Claims{}, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Claims{}, ErrInvalidToken
	}

	var out Claims
	out.Subject, _ = claims.GetSubject()
	if email, ok := claims["email"].(string); ok {
		out.Email = email
	}

	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		out.ExpiresAt = &t
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		t := iat.Time
		out.IssuedAt = &t
	}

	return out, nil
}

// Expired reports whether the token carries an exp claim in the past.
// Opaque (non-JWT) tokens never expire client-side.
func Expired(token string, now time.Time) bool {
	claims, err := Parse(token)
	if err != nil || claims.ExpiresAt == nil {
		return false
	}
	return !now.Before(*claims.ExpiresAt)
}
