package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the token store.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrTokenNotFound is returned when no token is stored for a user.
const ErrTokenNotFound = CacheError("token store: token not found")

// TokenStore keeps login tokens between CLI invocations.
// It lives outside the sync client, which never persists tokens itself.
type TokenStore interface {
	// Save stores the token for username. A zero ttl falls back to the
	// store's default.
	Save(ctx context.Context, username string, token Token, ttl time.Duration) error

	// Load returns ErrTokenNotFound if nothing is stored.
	Load(ctx context.Context, username string) (Token, error)

	// Delete should not return an error if the key is not found.
	Delete(ctx context.Context, username string) error

	// Ping checks the health of the backing store.
	Ping(ctx context.Context) error
}
