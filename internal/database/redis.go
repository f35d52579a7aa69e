package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/uplift-technology/uplift-backend/internal/config"
	"github.com/uplift-technology/uplift-backend/pkg/logger"
)

// Redis is nil when REDIS_ADDR is unset; every helper below is then a no-op.
var Redis *redis.Client

// ErrCacheMiss is returned by CacheGet when nothing is cached.
var ErrCacheMiss = errors.New("cache miss")

const (
	pageCachePrefix = "page:"
	blacklistPrefix = "session:revoked:"
)

func InitRedis() {
	if config.AppConfig.RedisAddr == "" {
		logger.Info().Msg("REDIS_ADDR not set, page cache and session revocation disabled")
		return
	}

	client := redis.NewClient(&redis.Options{
		Addr:         config.AppConfig.RedisAddr,
		Password:     config.AppConfig.RedisPassword,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("Failed to connect to Redis, page cache and session revocation disabled")
		_ = client.Close()
		return
	}

	Redis = client
	logger.Info().Msg("Connected to Redis")
}

// PageCacheKey is the cache key for a rendered page.
func PageCacheKey(slug, lang string) string {
	return fmt.Sprintf("%s%s:%s", pageCachePrefix, slug, lang)
}

func CacheSet(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if Redis == nil {
		return nil
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return Redis.Set(ctx, key, payload, expiration).Err()
}

func CacheGet(ctx context.Context, key string, dest interface{}) error {
	if Redis == nil {
		return ErrCacheMiss
	}
	val, err := Redis.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(val, dest)
}

// InvalidatePage drops the cached renders of slug in every language.
func InvalidatePage(ctx context.Context, slug string) error {
	return deleteMatching(ctx, pageCachePrefix+slug+":*")
}

// InvalidateAllPages drops every cached render. Catalog changes can show up
// on any page through widgets.
func InvalidateAllPages(ctx context.Context) error {
	return deleteMatching(ctx, pageCachePrefix+"*")
}

func deleteMatching(ctx context.Context, pattern string) error {
	if Redis == nil {
		return nil
	}
	var keys []string
	iter := Redis.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return Redis.Del(ctx, keys...).Err()
	}
	return nil
}

// BlacklistToken revokes a session id until it would have expired anyway.
func BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if Redis == nil || jti == "" || ttl <= 0 {
		return nil
	}
	return Redis.Set(ctx, blacklistPrefix+jti, "1", ttl).Err()
}

// IsTokenBlacklisted fails open when Redis is unavailable.
func IsTokenBlacklisted(ctx context.Context, jti string) bool {
	if Redis == nil || jti == "" {
		return false
	}
	n, err := Redis.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		logger.Warn().Err(err).Msg("Session revocation check failed")
		return false
	}
	return n > 0
}
