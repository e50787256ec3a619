package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenStore keeps the allowlist of outstanding refresh tokens.
// Key format: refresh:<jti> → user ID, expiring with the token itself.
type RefreshTokenStore struct {
	client *redis.Client
}

func NewRefreshTokenStore(client *redis.Client) *RefreshTokenStore {
	return &RefreshTokenStore{client: client}
}

// Save records a refresh token ID for the user until ttl elapses.
func (s *RefreshTokenStore) Save(ctx context.Context, tokenID, userID string, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.key(tokenID), userID, ttl).Err(); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// UserID returns the user a token ID belongs to, or "" when the token is
// unknown (rotated or expired).
func (s *RefreshTokenStore) UserID(ctx context.Context, tokenID string) (string, error) {
	userID, err := s.client.Get(ctx, s.key(tokenID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("lookup refresh token: %w", err)
	}
	return userID, nil
}

// Delete revokes a refresh token ID.
func (s *RefreshTokenStore) Delete(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, s.key(tokenID)).Err(); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}
	return nil
}

func (s *RefreshTokenStore) key(tokenID string) string {
	return "refresh:" + tokenID
}
