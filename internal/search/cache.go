package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

const defaultCacheTTL = 6 * time.Hour

// CachedSearcher keeps successful findings in Redis. Redis failures are
// logged and the search falls through to the wrapped Searcher.
type CachedSearcher struct {
	next     Searcher
	redis    *redis.Client
	ttl      time.Duration
	observer Observer
	logger   *logging.Logger
}

func NewCachedSearcher(next Searcher, client *redis.Client, ttl time.Duration, observer Observer, logger *logging.Logger) *CachedSearcher {
	if next == nil {
		panic("search: wrapped searcher cannot be nil")
	}
	if client == nil {
		panic("search: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &CachedSearcher{next: next, redis: client, ttl: ttl, observer: observer, logger: logger}
}

func (c *CachedSearcher) Search(ctx context.Context, query string) (string, error) {
	key := cacheKey(query)

	cached, err := c.redis.Get(ctx, key).Result()
	switch {
	case err == nil:
		c.observe(true)
		return cached, nil
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("search cache read failed", "error", err)
	}
	c.observe(false)

	findings, err := c.next.Search(ctx, query)
	if err != nil {
		return "", err
	}
	if err := c.redis.Set(ctx, key, findings, c.ttl).Err(); err != nil {
		c.logger.Warn("search cache write failed", "error", err)
	}
	return findings, nil
}

func (c *CachedSearcher) observe(hit bool) {
	if c.observer != nil {
		c.observer.ObserveSearchCache(hit)
	}
}

func cacheKey(query string) string {
	sum := sha256.Sum256([]byte(normalizeQuery(query)))
	return "search:" + hex.EncodeToString(sum[:])
}
