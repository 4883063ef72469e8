package cache

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/doctor-schedule-calendar/internal/config"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
)

type monthsCacheEntry struct {
	Schedules []domain.DoctorScheduleRecord
}

type monthsCache struct {
	cache *lru.Cache[string, *monthsCacheEntry]
}

// CacheAdapter holds the month cache. Returns nil when caching is disabled.
type CacheAdapter struct {
	monthsCache *monthsCache
	logger      out.LoggerPort
}

func NewCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*CacheAdapter, error) {
	if !cfg.Cache.Enabled {
		logger.Info("cache.disabled", out.LogFields{
			"message": "Cache is disabled",
		})
		return nil, nil
	}

	lruMonthsCache, err := lru.New[string, *monthsCacheEntry](cfg.Cache.MonthsSize)
	if err != nil {
		logger.Error("cache.months.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.MonthsSize,
		})
		return nil, err
	}

	return &CacheAdapter{
		monthsCache: &monthsCache{cache: lruMonthsCache},
		logger:      logger.WithModule("CacheAdapter"),
	}, nil
}

func monthCacheKey(month domain.MonthKey) string {
	return fmt.Sprintf("%04d-%02d", month.Year, month.Month)
}
