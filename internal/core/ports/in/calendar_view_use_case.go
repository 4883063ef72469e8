package in

import (
	"context"

	"github.com/google/uuid"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/services/calendar_view_service"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/services/doctor_search_service"
)

type CalendarViewUseCase interface {
	// Views
	OpenView(ctx context.Context, month domain.MonthKey) (calendar_view_service.ViewSnapshot, error)
	Refresh(ctx context.Context, viewID uuid.UUID, month domain.MonthKey) (calendar_view_service.ViewSnapshot, error)
	Snapshot(viewID uuid.UUID) (calendar_view_service.ViewSnapshot, error)
	CloseView(viewID uuid.UUID)

	// Filtering and navigation
	ApplyFilter(viewID uuid.UUID, criteria domain.FilterCriteria) (calendar_view_service.ViewSnapshot, error)
	ClearFilter(viewID uuid.UUID) (calendar_view_service.ViewSnapshot, error)
	Navigate(viewID uuid.UUID, visible domain.DateRange) (calendar_view_service.ViewSnapshot, error)

	// Doctor search over the view's unfiltered schedules
	SearchDoctors(ctx context.Context, viewID uuid.UUID, query string) (doctor_search_service.SearchResult, error)

	// Stateless month statistics
	MonthStats(ctx context.Context, month domain.MonthKey, criteria domain.FilterCriteria) (calendar_view_service.MonthStats, error)

	// Month cache invalidation
	InvalidateMonth(ctx context.Context, month domain.MonthKey)
	InvalidateAllMonths(ctx context.Context)
}
