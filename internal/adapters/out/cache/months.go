package cache

import (
	"context"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
)

// Month schedules caching

func (c *CacheAdapter) GetMonthSchedules(ctx context.Context, month domain.MonthKey) ([]domain.DoctorScheduleRecord, bool) {
	key := monthCacheKey(month)

	entry, exists := c.monthsCache.cache.Get(key)
	if !exists {
		c.logger.Debug("cache.months.get.miss", out.LogFields{
			"month": key,
		})
		return nil, false
	}

	c.logger.Debug("cache.months.get.hit", out.LogFields{
		"month":     key,
		"schedules": len(entry.Schedules),
	})

	return append([]domain.DoctorScheduleRecord(nil), entry.Schedules...), true
}

func (c *CacheAdapter) StoreMonthSchedules(ctx context.Context, month domain.MonthKey, schedules []domain.DoctorScheduleRecord) {
	key := monthCacheKey(month)

	c.logger.Debug("cache.months.store", out.LogFields{
		"month":     key,
		"schedules": len(schedules),
	})

	c.monthsCache.cache.Add(key, &monthsCacheEntry{
		Schedules: append([]domain.DoctorScheduleRecord(nil), schedules...),
	})
}

func (c *CacheAdapter) InvalidateMonth(ctx context.Context, month domain.MonthKey) {
	key := monthCacheKey(month)
	if c.monthsCache.cache.Remove(key) {
		c.logger.Debug("cache.months.invalidate", out.LogFields{
			"month": key,
		})
	}
}

func (c *CacheAdapter) InvalidateAllMonths(ctx context.Context) {
	c.monthsCache.cache.Purge()
	c.logger.Debug("cache.months.invalidate_all", out.LogFields{})
}
