package out

import (
	"context"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
)

// MonthCachePort caches schedule store responses per month.
type MonthCachePort interface {
	GetMonthSchedules(ctx context.Context, month domain.MonthKey) ([]domain.DoctorScheduleRecord, bool)
	StoreMonthSchedules(ctx context.Context, month domain.MonthKey, schedules []domain.DoctorScheduleRecord)
	InvalidateMonth(ctx context.Context, month domain.MonthKey)
	InvalidateAllMonths(ctx context.Context)
}

// SearchCachePort caches doctor search results by normalized query.
// Entries expire by time only.
type SearchCachePort interface {
	GetSearchResult(ctx context.Context, query string) ([]domain.DoctorSummary, bool)
	StoreSearchResult(ctx context.Context, query string, result []domain.DoctorSummary)
}
