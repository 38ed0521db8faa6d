package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokeScanBatch = 100

// TokenStore tracks outstanding refresh tokens per user, one key per token.
// Key format: refresh:<user_id>:<sha256(token)> — tokens are never stored in
// clear. Keys expire with the token, so the store cleans itself up.
//
// Revoke of a single token is a plain DEL; Redis executes commands serially,
// so of N concurrent revokes for the same token exactly one observes a
// deleted count of 1.
type TokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Store records the token until expiresAt.
func (s *TokenStore) Store(ctx context.Context, userID, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("store refresh token: already expired at %v", expiresAt)
	}
	if err := s.client.Set(ctx, s.key(userID, token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	return nil
}

// IsValid reports whether the token is still outstanding for the user.
func (s *TokenStore) IsValid(ctx context.Context, userID, token string) (bool, error) {
	n, err := s.client.Exists(ctx, s.key(userID, token)).Result()
	if err != nil {
		return false, fmt.Errorf("check refresh token: %w", err)
	}
	return n > 0, nil
}

// Revoke deletes the given token, or every token the user owns when token is
// empty. removed reports whether any key was deleted.
func (s *TokenStore) Revoke(ctx context.Context, userID, token string) (bool, error) {
	if token != "" {
		n, err := s.client.Del(ctx, s.key(userID, token)).Result()
		if err != nil {
			return false, fmt.Errorf("revoke refresh token: %w", err)
		}
		return n > 0, nil
	}
	return s.revokeAll(ctx, userID)
}

func (s *TokenStore) revokeAll(ctx context.Context, userID string) (bool, error) {
	var (
		cursor  uint64
		removed int64
	)
	pattern := fmt.Sprintf("refresh:%s:*", userID)
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, revokeScanBatch).Result()
		if err != nil {
			return removed > 0, fmt.Errorf("scan refresh tokens: %w", err)
		}
		if len(keys) > 0 {
			n, err := s.client.Del(ctx, keys...).Result()
			if err != nil {
				return removed > 0, fmt.Errorf("revoke refresh tokens: %w", err)
			}
			removed += n
		}
		if next == 0 {
			return removed > 0, nil
		}
		cursor = next
	}
}

func (s *TokenStore) key(userID, token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("refresh:%s:%s", userID, hex.EncodeToString(sum[:]))
}
