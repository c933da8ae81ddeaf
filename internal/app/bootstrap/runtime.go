// Package bootstrap turns configuration into the runtime handles the API
// server depends on.
package bootstrap

import (
	"context"
	"crypto/tls"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/mediscribe-api/internal/config"
	"github.com/wolfman30/mediscribe-api/pkg/logging"
)

const redisPingTimeout = 3 * time.Second

func redisOptions(cfg *appconfig.Config) *redis.Options {
	opts := &redis.Options{
		Addr:     strings.TrimSpace(cfg.RedisAddr),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

// BuildRedisClient returns the search cache's Redis client, or nil when no
// address is configured. With verify set, an unreachable server also yields
// nil so searches run uncached instead of failing.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger, verify bool) *redis.Client {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	client := redis.NewClient(redisOptions(cfg))
	if !verify {
		return client
	}

	if ctx == nil {
		ctx = context.Background()
	}
	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		if logger == nil {
			logger = logging.Default()
		}
		logger.Warn("redis unreachable, search results will not be cached", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}
