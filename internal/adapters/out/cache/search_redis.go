package cache

import (
	"context"
	"errors"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
)

// RedisSearchCache shares search results between instances. Entries expire
// through the redis key TTL.
type RedisSearchCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	logger out.LoggerPort
}

func NewRedisSearchCache(client *redis.Client, prefix string, ttl time.Duration, logger out.LoggerPort) *RedisSearchCache {
	return &RedisSearchCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.WithModule("RedisSearchCache"),
	}
}

func (c *RedisSearchCache) GetSearchResult(ctx context.Context, query string) ([]domain.DoctorSummary, bool) {
	raw, err := c.client.Get(ctx, c.prefix+query).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("cache.search.get.failed", out.LogFields{
				"query": query,
				"error": err.Error(),
			})
		}
		return nil, false
	}

	var result []domain.DoctorSummary
	if err := json.Unmarshal(raw, &result); err != nil {
		c.logger.Warn("cache.search.decode_failed", out.LogFields{
			"query": query,
			"error": err.Error(),
		})
		return nil, false
	}

	return result, true
}

func (c *RedisSearchCache) StoreSearchResult(ctx context.Context, query string, result []domain.DoctorSummary) {
	raw, err := json.Marshal(result)
	if err != nil {
		c.logger.Warn("cache.search.encode_failed", out.LogFields{
			"query": query,
			"error": err.Error(),
		})
		return
	}

	if err := c.client.Set(ctx, c.prefix+query, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache.search.store_failed", out.LogFields{
			"query": query,
			"error": err.Error(),
		})
	}
}
