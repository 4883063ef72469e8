package calendar_view_service

import (
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/json_types"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/services/calendar_engine"
	"github.com/suchimauz/doctor-schedule-calendar/internal/utils"
)

type ViewSnapshot struct {
	ViewID       uuid.UUID                     `json:"viewId"`
	Month        domain.MonthKey               `json:"month"`
	Criteria     domain.FilterCriteria         `json:"criteria"`
	ActiveFacets []string                      `json:"activeFacets"`
	Schedules    []domain.DoctorScheduleRecord `json:"schedules"`
	Events       []domain.CalendarEvent        `json:"events"`
	Stats        domain.ScheduleStats          `json:"stats"`
	TotalStats   domain.ScheduleStats          `json:"totalStats"`
	Window       domain.WindowStats            `json:"window"`
	Virtualized  bool                          `json:"virtualized"`
	VisibleRange *domain.DateRange             `json:"visibleRange,omitempty"`
	Skipped      int                           `json:"skipped"`
	Duplicates   int                           `json:"duplicates"`
	UpdatedAt    time.Time                     `json:"updatedAt"`
	Debug        []domain.DebugInfo            `json:"debug,omitempty"`
}

// CalendarView is one user's calendar state: the loaded month, its events,
// the last applied filter and the visible window. The filter survives
// source reloads.
type CalendarView struct {
	mu sync.Mutex

	id          uuid.UUID
	month       domain.MonthKey
	source      []domain.DoctorScheduleRecord
	result      calendar_engine.MaterializeResult
	criteria    domain.FilterCriteria
	filtered    calendar_engine.FilterResult
	virtualizer *calendar_engine.Virtualizer
	searcher    DoctorSearcher
	dedupScope  calendar_engine.DedupScope
	logger      out.LoggerPort
	debug       viewDebug
	updatedAt   time.Time
}

func newCalendarView(id uuid.UUID, cfg Config, searcher DoctorSearcher, logger out.LoggerPort) *CalendarView {
	return &CalendarView{
		id:          id,
		virtualizer: calendar_engine.NewVirtualizer(cfg.Virtualizer),
		searcher:    searcher,
		dedupScope:  cfg.DedupScope,
		logger:      logger.WithFields(out.LogFields{"viewId": id.String()}),
	}
}

func (v *CalendarView) ID() uuid.UUID {
	return v.id
}

// SetSource replaces the schedules, rematerializes them and reapplies the last filter.
// A visible range set for another month moves to the whole of the new month.
func (v *CalendarView) SetSource(month domain.MonthKey, records []domain.DoctorScheduleRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.debug.Reset()
	if _, ok := v.virtualizer.VisibleRange(); ok && month != v.month {
		v.virtualizer.SetVisibleRange(monthRange(month))
	}
	v.month = month
	v.source = records

	materializeDebug := domain.DebugInfo{Event: "calendar.view.materialize"}
	materializeDebug.Start()
	v.result = calendar_engine.Materialize(records,
		calendar_engine.WithLogger(v.logger),
		calendar_engine.WithDedupScope(v.dedupScope),
	)
	materializeDebug.Elapse()
	materializeDebug.AddOption("events", strconv.Itoa(len(v.result.Events)))
	v.debug.AddDebugInfo(materializeDebug)

	v.refilter()
}

// ApplyFilter replaces the active criteria and refilters the current source.
func (v *CalendarView) ApplyFilter(criteria domain.FilterCriteria) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.debug.Reset()
	v.criteria = criteria
	v.refilter()
}

// Navigate moves the visible window. The window is recomputed before return.
func (v *CalendarView) Navigate(visible domain.DateRange) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.debug.Reset()
	windowDebug := domain.DebugInfo{Event: "calendar.view.window"}
	windowDebug.Start()
	v.virtualizer.SetVisibleRange(visible)
	windowDebug.Elapse()
	v.debug.AddDebugInfo(windowDebug)
	v.updatedAt = time.Now()
}

func (v *CalendarView) refilter() {
	filterDebug := domain.DebugInfo{Event: "calendar.view.filter"}
	filterDebug.Start()
	v.filtered = calendar_engine.ApplyFilters(v.source, v.result.Events, v.criteria)
	filterDebug.Elapse()
	filterDebug.AddOption("events", strconv.Itoa(len(v.filtered.Events)))
	v.debug.AddDebugInfo(filterDebug)

	windowDebug := domain.DebugInfo{Event: "calendar.view.window"}
	windowDebug.Start()
	v.virtualizer.SetEvents(v.filtered.Events)
	windowDebug.Elapse()
	windowDebug.AddOption("visible", strconv.Itoa(len(v.virtualizer.Window())))
	v.debug.AddDebugInfo(windowDebug)

	v.updatedAt = time.Now()
}

func monthRange(month domain.MonthKey) domain.DateRange {
	start := utils.StartOfMonth(month.Year, time.Month(month.Month), json_types.Location())
	return domain.DateRange{
		Start: start,
		End:   start.AddDate(0, 1, -1),
	}
}

// Source returns the loaded month and its unfiltered schedules.
func (v *CalendarView) Source() (domain.MonthKey, []domain.DoctorScheduleRecord) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.month, v.source
}

func (v *CalendarView) Snapshot() ViewSnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	snapshot := ViewSnapshot{
		ViewID:       v.id,
		Month:        v.month,
		Criteria:     v.criteria,
		ActiveFacets: v.filtered.ActiveFacets,
		Schedules:    v.filtered.Schedules,
		Events:       v.virtualizer.Window(),
		Stats:        calendar_engine.GetScheduleStats(v.filtered.Events),
		TotalStats:   calendar_engine.GetScheduleStats(v.result.Events),
		Window:       v.virtualizer.Stats(),
		Virtualized:  v.virtualizer.Enabled(),
		Skipped:      v.result.Skipped,
		Duplicates:   v.result.Duplicates,
		UpdatedAt:    v.updatedAt,
		Debug:        v.debug.Data(),
	}
	if visible, ok := v.virtualizer.VisibleRange(); ok {
		snapshot.VisibleRange = &visible
	}
	if snapshot.Schedules == nil {
		snapshot.Schedules = []domain.DoctorScheduleRecord{}
	}
	if snapshot.Events == nil {
		snapshot.Events = []domain.CalendarEvent{}
	}
	return snapshot
}
