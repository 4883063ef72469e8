package calendar_view_service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/services/calendar_engine"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/services/doctor_search_service"
)

const DefaultMaxViews = 1000

type Config struct {
	Virtualizer calendar_engine.VirtualizerConfig
	DedupScope  calendar_engine.DedupScope
	MaxViews    int
}

// DoctorSearcher runs debounced doctor searches. Every view owns one, so a
// search only supersedes searches of the same view.
type DoctorSearcher interface {
	SearchInScope(ctx context.Context, scope, query string, schedules []domain.DoctorScheduleRecord) (doctor_search_service.SearchResult, error)
}

type MonthStats struct {
	Month        domain.MonthKey      `json:"month"`
	ActiveFacets []string             `json:"activeFacets"`
	Stats        domain.ScheduleStats `json:"stats"`
	TotalStats   domain.ScheduleStats `json:"totalStats"`
	Skipped      int                  `json:"skipped"`
	Duplicates   int                  `json:"duplicates"`
}

type CalendarViewService struct {
	store    out.ScheduleStorePort
	cache    out.MonthCachePort
	searcher func() DoctorSearcher
	views    *lru.Cache[uuid.UUID, *CalendarView]
	logger   out.LoggerPort
	cfg      Config
}

func NewCalendarViewService(
	store out.ScheduleStorePort,
	cache out.MonthCachePort,
	searcher func() DoctorSearcher,
	logger out.LoggerPort,
	cfg Config,
) (*CalendarViewService, error) {
	if cfg.MaxViews <= 0 {
		cfg.MaxViews = DefaultMaxViews
	}

	views, err := lru.New[uuid.UUID, *CalendarView](cfg.MaxViews)
	if err != nil {
		return nil, fmt.Errorf("calendar.views.init_failed: %w", err)
	}

	return &CalendarViewService{
		store:    store,
		cache:    cache,
		searcher: searcher,
		views:    views,
		logger:   logger.WithModule("CalendarViewService"),
		cfg:      cfg,
	}, nil
}

func (s *CalendarViewService) OpenView(ctx context.Context, month domain.MonthKey) (ViewSnapshot, error) {
	records, err := s.loadMonth(ctx, month)
	if err != nil {
		return ViewSnapshot{}, err
	}

	view := newCalendarView(uuid.New(), s.cfg, s.searcher(), s.logger)
	view.SetSource(month, records)
	s.views.Add(view.ID(), view)

	s.logger.Info("calendar.view.opened", out.LogFields{
		"viewId":    view.ID(),
		"month":     month.Month,
		"year":      month.Year,
		"schedules": len(records),
	})

	return view.Snapshot(), nil
}

// Refresh loads month into the view. The view's last filter stays applied.
func (s *CalendarViewService) Refresh(ctx context.Context, viewID uuid.UUID, month domain.MonthKey) (ViewSnapshot, error) {
	view, err := s.view(viewID)
	if err != nil {
		return ViewSnapshot{}, err
	}

	records, err := s.loadMonth(ctx, month)
	if err != nil {
		return ViewSnapshot{}, err
	}

	view.SetSource(month, records)

	s.logger.Debug("calendar.view.refreshed", out.LogFields{
		"viewId":    viewID,
		"month":     month.Month,
		"year":      month.Year,
		"schedules": len(records),
	})

	return view.Snapshot(), nil
}

func (s *CalendarViewService) Snapshot(viewID uuid.UUID) (ViewSnapshot, error) {
	view, err := s.view(viewID)
	if err != nil {
		return ViewSnapshot{}, err
	}
	return view.Snapshot(), nil
}

func (s *CalendarViewService) CloseView(viewID uuid.UUID) {
	s.views.Remove(viewID)
}

func (s *CalendarViewService) ApplyFilter(viewID uuid.UUID, criteria domain.FilterCriteria) (ViewSnapshot, error) {
	view, err := s.view(viewID)
	if err != nil {
		return ViewSnapshot{}, err
	}

	view.ApplyFilter(criteria)
	return view.Snapshot(), nil
}

func (s *CalendarViewService) ClearFilter(viewID uuid.UUID) (ViewSnapshot, error) {
	return s.ApplyFilter(viewID, domain.FilterCriteria{})
}

func (s *CalendarViewService) Navigate(viewID uuid.UUID, visible domain.DateRange) (ViewSnapshot, error) {
	view, err := s.view(viewID)
	if err != nil {
		return ViewSnapshot{}, err
	}

	view.Navigate(visible)
	return view.Snapshot(), nil
}

func (s *CalendarViewService) SearchDoctors(ctx context.Context, viewID uuid.UUID, query string) (doctor_search_service.SearchResult, error) {
	view, err := s.view(viewID)
	if err != nil {
		return doctor_search_service.SearchResult{}, err
	}
	month, source := view.Source()
	return view.searcher.SearchInScope(ctx, monthScope(month), query, source)
}

// MonthStats computes filtered and unfiltered statistics for month without keeping a view.
func (s *CalendarViewService) MonthStats(ctx context.Context, month domain.MonthKey, criteria domain.FilterCriteria) (MonthStats, error) {
	records, err := s.loadMonth(ctx, month)
	if err != nil {
		return MonthStats{}, err
	}

	result := calendar_engine.Materialize(records,
		calendar_engine.WithLogger(s.logger),
		calendar_engine.WithDedupScope(s.cfg.DedupScope),
	)
	filtered := calendar_engine.ApplyFilters(records, result.Events, criteria)

	return MonthStats{
		Month:        month,
		ActiveFacets: filtered.ActiveFacets,
		Stats:        calendar_engine.GetScheduleStats(filtered.Events),
		TotalStats:   calendar_engine.GetScheduleStats(result.Events),
		Skipped:      result.Skipped,
		Duplicates:   result.Duplicates,
	}, nil
}

func (s *CalendarViewService) InvalidateMonth(ctx context.Context, month domain.MonthKey) {
	if s.cache != nil {
		s.cache.InvalidateMonth(ctx, month)
	}
}

func (s *CalendarViewService) InvalidateAllMonths(ctx context.Context) {
	if s.cache != nil {
		s.cache.InvalidateAllMonths(ctx)
	}
}

func (s *CalendarViewService) view(viewID uuid.UUID) (*CalendarView, error) {
	view, ok := s.views.Get(viewID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrViewNotFound, viewID)
	}
	return view, nil
}

func (s *CalendarViewService) loadMonth(ctx context.Context, month domain.MonthKey) ([]domain.DoctorScheduleRecord, error) {
	if !month.Valid() {
		return nil, fmt.Errorf("%w: %d/%d", domain.ErrInvalidMonth, month.Month, month.Year)
	}

	if s.cache != nil {
		if records, exists := s.cache.GetMonthSchedules(ctx, month); exists {
			return records, nil
		}
	}

	records, err := s.store.ListSchedulesByMonth(ctx, month)
	if err != nil {
		s.logger.Error("calendar.month.fetch_failed", out.LogFields{
			"month": month.Month,
			"year":  month.Year,
			"error": err.Error(),
		})
		return nil, fmt.Errorf("calendar.month.fetch_failed: %w", err)
	}

	if s.cache != nil {
		s.cache.StoreMonthSchedules(ctx, month, records)
	}

	return records, nil
}

func monthScope(month domain.MonthKey) string {
	return fmt.Sprintf("%04d-%02d", month.Year, month.Month)
}
