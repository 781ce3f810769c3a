package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLinkCache implements LinkCache on top of a shared redis client.
// Values are stored as JSON so other consumers of the keyspace can read
// them without Go-specific encoding.
type RedisLinkCache struct {
	rc     *redis.Client
	prefix string
	ttl    int64 // seconds; 0 means no expiry
}

func NewRedisLinkCache(rc *redis.Client, prefix string, ttlSeconds int64) LinkCache {
	return &RedisLinkCache{rc: rc, prefix: prefix, ttl: ttlSeconds}
}

func (c *RedisLinkCache) key(shortID string) string {
	if c.prefix != "" {
		return c.prefix + ":link:" + shortID
	}
	return "link:" + shortID
}

// Get returns the cached entry for a short code, or (nil, nil) on a miss
func (c *RedisLinkCache) Get(ctx context.Context, shortID string) (*CachedLink, error) {
	bs, err := c.rc.Get(ctx, c.key(shortID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read link cache: %w", err)
	}

	var entry CachedLink
	if err := json.Unmarshal(bs, &entry); err != nil {
		// Corrupt entry, drop it so the next visit repopulates
		_ = c.rc.Del(ctx, c.key(shortID)).Err()
		return nil, fmt.Errorf("failed to decode link cache entry: %w", err)
	}

	return &entry, nil
}

// Set stores the entry for a short code
func (c *RedisLinkCache) Set(ctx context.Context, shortID string, entry CachedLink) error {
	bs, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode link cache entry: %w", err)
	}

	var expiry time.Duration
	if c.ttl > 0 {
		expiry = time.Duration(c.ttl) * time.Second
	}

	if err := c.rc.Set(ctx, c.key(shortID), bs, expiry).Err(); err != nil {
		return fmt.Errorf("failed to write link cache: %w", err)
	}

	return nil
}

// Delete removes the entry for a short code
func (c *RedisLinkCache) Delete(ctx context.Context, shortID string) error {
	return c.rc.Del(ctx, c.key(shortID)).Err()
}
