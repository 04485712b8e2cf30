package session

import (
	"context"

	"github.com/pitchview/client/internal/client/models"
)

// Durable storage keys for the token pair.
const (
	AccessTokenKey  = "accessToken"
	RefreshTokenKey = "refreshToken"
)

// RegistrationEmailKey is the volatile scratch key used to hand an email
// from a failed resend attempt over to the registration form.
const RegistrationEmailKey = "registration_email"

// Store persists the session token pair and holds volatile scratch values.
//
// Contract:
//   - Set overwrites both tokens atomically; a reader never observes a new
//     access token next to an old refresh token.
//   - Clear removes both tokens. Clearing an empty store is not an error.
//   - Tokens returns the stored pair; a zero pair means unauthenticated.
//   - Scratch values live only for the lifetime of the process and are
//     consumed on read.
type Store interface {
	Set(ctx context.Context, pair models.TokenPair) error
	Clear(ctx context.Context) error
	Tokens(ctx context.Context) (models.TokenPair, error)

	PutScratch(key, value string)
	TakeScratch(key string) string
}
