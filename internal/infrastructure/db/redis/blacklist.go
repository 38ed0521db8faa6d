package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// A revoked jti only needs to stay on the list until the token itself
// expires; a floor keeps near-expiry tokens from slipping through on clock
// skew.
const blacklistMinTTL = time.Minute

// Blacklist is the jti revocation record.
// Key format: blacklist:<jti>
type Blacklist struct {
	client *redis.Client
}

func NewBlacklist(client *redis.Client) *Blacklist {
	return &Blacklist{client: client}
}

// IsBlacklisted reports whether the jti has been revoked.
func (b *Blacklist) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.key(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist check: %w", err)
	}
	return n > 0, nil
}

// Blacklist revokes the jti until expiresAt. SET is idempotent, so duplicate
// and concurrent revocations of the same jti are harmless.
func (b *Blacklist) Blacklist(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl < blacklistMinTTL {
		ttl = blacklistMinTTL
	}
	if err := b.client.Set(ctx, b.key(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist set: %w", err)
	}
	return nil
}

func (b *Blacklist) key(jti string) string {
	return "blacklist:" + jti
}
