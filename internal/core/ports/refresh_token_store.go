package ports

import (
	"context"
	"time"
)

// RefreshTokenStore is the allowlist of outstanding refresh tokens, keyed
// by token ID (jti). A refresh token whose ID is absent has been rotated
// or has expired and must be rejected.
type RefreshTokenStore interface {
	Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error
	UserID(ctx context.Context, tokenID string) (string, error)
	Delete(ctx context.Context, tokenID string) error
}
