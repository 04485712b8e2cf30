package session

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Expiry extracts the exp claim from an access token without verifying the
// signature. The server remains the authority on token validity; this exists
// only so the session check can say why a stored token is unlikely to work.
func Expiry(accessToken string) (time.Time, error) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(accessToken, claims); err != nil {
		return time.Time{}, fmt.Errorf("parse access token: %w", err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, fmt.Errorf("access token has no exp claim")
	}
	return exp.Time, nil
}

// Expired reports whether the access token's exp claim is in the past.
// Tokens that cannot be parsed are treated as expired.
func Expired(accessToken string, now time.Time) bool {
	exp, err := Expiry(accessToken)
	if err != nil {
		return true
	}
	return exp.Before(now)
}
