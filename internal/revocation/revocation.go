// Package revocation tracks login sessions that must no longer be honoured
// even though their bearer token is still cryptographically valid.
package revocation

import (
	"context"
	"time"
)

// Store records issued sessions and answers whether one was revoked.
// Implementations must be safe for concurrent use.
type Store interface {
	// Issue records a freshly minted session. Backends that only track
	// revocations may treat it as a no-op.
	Issue(ctx context.Context, sessionID, userID string, expiresAt time.Time) error

	// Revoke marks the session as revoked until its expiry. Revoking an unknown
	// or already revoked session is not an error.
	Revoke(ctx context.Context, sessionID string, expiresAt time.Time) error

	// IsRevoked reports whether the session must be rejected. Unknown sessions
	// are rejected by backends that record issuance.
	IsRevoked(ctx context.Context, sessionID string) (bool, error)
}
