package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
)

// MemorySearchCache keeps search results in a size bounded LRU whose entries
// expire after ttl.
type MemorySearchCache struct {
	cache  *expirable.LRU[string, []domain.DoctorSummary]
	logger out.LoggerPort
}

func NewMemorySearchCache(size int, ttl time.Duration, logger out.LoggerPort) *MemorySearchCache {
	if size <= 0 {
		size = 256
	}

	return &MemorySearchCache{
		cache:  expirable.NewLRU[string, []domain.DoctorSummary](size, nil, ttl),
		logger: logger.WithModule("MemorySearchCache"),
	}
}

func (c *MemorySearchCache) GetSearchResult(ctx context.Context, query string) ([]domain.DoctorSummary, bool) {
	result, ok := c.cache.Get(query)
	if !ok {
		return nil, false
	}

	c.logger.Debug("cache.search.get.hit", out.LogFields{
		"query":   query,
		"doctors": len(result),
	})
	return append([]domain.DoctorSummary(nil), result...), true
}

func (c *MemorySearchCache) StoreSearchResult(ctx context.Context, query string, result []domain.DoctorSummary) {
	c.cache.Add(query, append([]domain.DoctorSummary(nil), result...))
}
