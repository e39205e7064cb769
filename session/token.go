package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// tokenExpired inspects a bearer token's exp claim without verifying its
// signature. The client holds no verification key; the gateway remains the
// authority on token validity. This check only detects markers that are
// already stale so the client can drop them before entering a protected view.
//
// A token that cannot be parsed at all counts as expired: a mangled marker
// must not keep a session alive.
func tokenExpired(token string, leeway time.Duration, now time.Time) bool {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())

	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return true
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		// No exp claim: presence-only marker, never expires locally.
		return false
	}

	return now.After(exp.Add(leeway))
}
