package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// The shell never holds the backend's signing secret, so tokens are parsed
// without verification. Expiry inspection only schedules a refresh; the
// backend remains the authority on token validity.

// ExpiresAt returns the expiry of a JWT access token. ok is false when the
// token is not a JWT or carries no expiry claim.
func ExpiresAt(tokenString string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	if _, _, err := parser.ParseUnverified(tokenString, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// IsExpired reports whether the token has already expired
func IsExpired(tokenString string) bool {
	expiry, ok := ExpiresAt(tokenString)
	return ok && time.Now().After(expiry)
}

// ExpiresWithin reports whether the token expires inside the given window
func ExpiresWithin(tokenString string, window time.Duration) bool {
	expiry, ok := ExpiresAt(tokenString)
	return ok && time.Now().Add(window).After(expiry)
}
