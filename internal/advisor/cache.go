package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "advisor:suggestion:"

// Cache stores suggestions in Redis keyed by a content hash. Suggestions
// are advisory, so every cache failure is treated as a miss.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCache builds a suggestion cache. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{client: client, ttl: ttl, logger: logger}
}

// Get returns a cached suggestion for the inputs, if fresh.
func (c *Cache) Get(ctx context.Context, title, description string, departments []string) (Suggestion, bool) {
	if c == nil || c.client == nil {
		return Suggestion{}, false
	}
	raw, err := c.client.Get(ctx, cacheKey(title, description, departments)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("suggestion cache read failed", zap.Error(err))
		}
		return Suggestion{}, false
	}
	var suggestion Suggestion
	if err := json.Unmarshal([]byte(raw), &suggestion); err != nil {
		c.logger.Debug("suggestion cache entry corrupt", zap.Error(err))
		return Suggestion{}, false
	}
	return suggestion, true
}

// Set stores a suggestion with the configured TTL.
func (c *Cache) Set(ctx context.Context, title, description string, departments []string, suggestion Suggestion) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(suggestion)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(title, description, departments), raw, c.ttl).Err(); err != nil {
		c.logger.Debug("suggestion cache write failed", zap.Error(err))
	}
}

func cacheKey(title, description string, departments []string) string {
	sum := sha256.Sum256([]byte(title + "\x00" + description + "\x00" + strings.Join(departments, "\x00")))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
