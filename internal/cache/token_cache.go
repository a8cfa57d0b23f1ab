// Package cache provides a Redis-backed cache for bearer token resolution.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "authtoken:"

// Entry is the cached resolution of a token digest.
type Entry struct {
	UserID    uint64    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenCache caches token digest lookups with a bounded TTL. Entries are
// invalidated explicitly whenever tokens are revoked.
type TokenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a TokenCache on top of an existing Redis client.
func New(client *redis.Client, ttl time.Duration) *TokenCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &TokenCache{client: client, ttl: ttl}
}

// Get retrieves a cached entry. The boolean reports a cache hit.
func (c *TokenCache) Get(ctx context.Context, digest string) (Entry, bool, error) {
	var entry Entry

	data, err := c.client.Get(ctx, keyPrefix+digest).Bytes()
	if err != nil {
		if err == redis.Nil {
			return entry, false, nil
		}
		return entry, false, fmt.Errorf("token cache get: %w", err)
	}

	if err := json.Unmarshal(data, &entry); err != nil {
		return entry, false, fmt.Errorf("token cache unmarshal: %w", err)
	}

	return entry, true, nil
}

// Set stores a resolution entry. The key never outlives the token itself.
func (c *TokenCache) Set(ctx context.Context, digest string, entry Entry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("token cache marshal: %w", err)
	}

	ttl := c.ttl
	if until := time.Until(entry.ExpiresAt); until > 0 && until < ttl {
		ttl = until
	}

	if err := c.client.Set(ctx, keyPrefix+digest, payload, ttl).Err(); err != nil {
		return fmt.Errorf("token cache set: %w", err)
	}
	return nil
}

// Delete evicts cached entries for the given digests.
func (c *TokenCache) Delete(ctx context.Context, digests ...string) error {
	if len(digests) == 0 {
		return nil
	}

	keys := make([]string, len(digests))
	for i, d := range digests {
		keys[i] = keyPrefix + d
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("token cache delete: %w", err)
	}
	return nil
}
