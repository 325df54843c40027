// Package auth validates the bearer tokens issued by the external auth
// frontend. The service has no user accounts of its own; a token's `sub`
// claim is the owner identity every task and conversation is scoped to.
package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT for the given owner identity.
	// The API only consumes tokens minted by the auth frontend; this is
	// used by local tooling and tests.
	GenerateToken(ctx context.Context, userID string) (string, error)

	// ValidateToken validates the provided token string and extracts the
	// claims. Returns an error if validation fails (expired, invalid
	// signature, missing subject, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims carries the validated identity of a request.
type Claims struct {
	// UserID is the owner identity, taken from the token's `sub` claim.
	UserID string

	// Standard registered JWT claims
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
