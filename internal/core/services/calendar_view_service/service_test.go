package calendar_view_service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/doctor-schedule-calendar/internal/adapters/out/logger"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/json_types"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/services/calendar_engine"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/services/doctor_search_service"
)

type storeMock struct {
	out.ScheduleStorePort

	mu     sync.Mutex
	months map[domain.MonthKey][]domain.DoctorScheduleRecord
	roster []domain.Doctor
	err    error
	calls  int
}

func (m *storeMock) ListSchedulesByMonth(ctx context.Context, month domain.MonthKey) ([]domain.DoctorScheduleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.months[month], nil
}

func (m *storeMock) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	return m.roster, nil
}

type monthCacheMock struct {
	entries map[domain.MonthKey][]domain.DoctorScheduleRecord
}

func (m *monthCacheMock) GetMonthSchedules(ctx context.Context, month domain.MonthKey) ([]domain.DoctorScheduleRecord, bool) {
	records, ok := m.entries[month]
	return records, ok
}

func (m *monthCacheMock) StoreMonthSchedules(ctx context.Context, month domain.MonthKey, schedules []domain.DoctorScheduleRecord) {
	m.entries[month] = schedules
}

func (m *monthCacheMock) InvalidateMonth(ctx context.Context, month domain.MonthKey) {
	delete(m.entries, month)
}

func (m *monthCacheMock) InvalidateAllMonths(ctx context.Context) {
	m.entries = make(map[domain.MonthKey][]domain.DoctorScheduleRecord)
}

var (
	march = domain.MonthKey{Month: 3, Year: 2024}
	april = domain.MonthKey{Month: 4, Year: 2024}

	drSmith = &domain.Doctor{ID: "d1", Name: "Dr. Smith", Specialization: "Cardiology"}
	drJones = &domain.Doctor{ID: "d2", Name: "Dr. Jones", Specialization: "Neurology"}
)

func day(month time.Month, d int) json_types.Date {
	return json_types.NewDate(time.Date(2024, month, d, 0, 0, 0, 0, json_types.Location()))
}

func fixtureStore() *storeMock {
	return &storeMock{
		roster: []domain.Doctor{*drSmith, *drJones},
		months: map[domain.MonthKey][]domain.DoctorScheduleRecord{
			march: {
				{ID: "s1", Doctor: drSmith, WorkDays: []domain.WorkDay{
					{ID: "w1", Date: day(time.March, 1), Slots: []domain.TimeSlot{
						{ID: "t1", Label: "09:00-10:00", Status: domain.SlotStatusFree},
						{ID: "t2", Label: "10:00-11:00", Status: domain.SlotStatusBooked},
					}},
				}},
				{ID: "s2", Doctor: drJones, WorkDays: []domain.WorkDay{
					{ID: "w2", Date: day(time.March, 4), Slots: []domain.TimeSlot{
						{ID: "t3", Label: "13:00-14:00", Status: domain.SlotStatusFree},
					}},
				}},
			},
			april: {
				{ID: "s3", Doctor: drJones, WorkDays: []domain.WorkDay{
					{ID: "w3", Date: day(time.April, 2), Slots: []domain.TimeSlot{
						{ID: "t4", Label: "09:00-10:00", Status: domain.SlotStatusBooked},
						{ID: "t5", Label: "10:00-11:00", Status: domain.SlotStatusAbsent},
					}},
				}},
				{ID: "s4", Doctor: drSmith, WorkDays: []domain.WorkDay{
					{ID: "w4", Date: day(time.April, 3), Slots: []domain.TimeSlot{
						{ID: "t6", Label: "09:00-10:00", Status: domain.SlotStatusFree},
					}},
				}},
			},
		},
	}
}

func newTestService(t *testing.T, store *storeMock, cache out.MonthCachePort, cfg Config) *CalendarViewService {
	t.Helper()

	log := logger.NewNopLogger()
	newSearcher := func() DoctorSearcher {
		return doctor_search_service.NewDoctorSearchService(store, nil, log, 0)
	}

	service, err := NewCalendarViewService(store, cache, newSearcher, log, cfg)
	require.NoError(t, err)
	return service
}

func eventSlotIDs(snapshot ViewSnapshot) []string {
	ids := make([]string, 0, len(snapshot.Events))
	for _, event := range snapshot.Events {
		ids = append(ids, event.SlotID)
	}
	return ids
}

func TestOpenView(t *testing.T) {
	service := newTestService(t, fixtureStore(), nil, Config{})

	snapshot, err := service.OpenView(context.Background(), march)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, snapshot.ViewID)
	assert.Equal(t, march, snapshot.Month)
	assert.Equal(t, []string{"t1", "t2", "t3"}, eventSlotIDs(snapshot))
	assert.Len(t, snapshot.Schedules, 2)
	assert.Equal(t, domain.ScheduleStats{Total: 3, Free: 2, Booked: 1, Utilization: 33}, snapshot.Stats)
	assert.Equal(t, snapshot.Stats, snapshot.TotalStats)
	assert.False(t, snapshot.Virtualized)
	assert.Empty(t, snapshot.ActiveFacets)
	assert.NotEmpty(t, snapshot.Debug)

	again, err := service.Snapshot(snapshot.ViewID)
	require.NoError(t, err)
	assert.Equal(t, snapshot.Events, again.Events)
}

func TestUnknownView(t *testing.T) {
	service := newTestService(t, fixtureStore(), nil, Config{})
	unknown := uuid.New()

	_, err := service.Snapshot(unknown)
	assert.True(t, errors.Is(err, domain.ErrViewNotFound))

	_, err = service.ApplyFilter(unknown, domain.FilterCriteria{})
	assert.True(t, errors.Is(err, domain.ErrViewNotFound))

	_, err = service.Refresh(context.Background(), unknown, march)
	assert.True(t, errors.Is(err, domain.ErrViewNotFound))

	_, err = service.SearchDoctors(context.Background(), unknown, "smith")
	assert.True(t, errors.Is(err, domain.ErrViewNotFound))
}

func TestFilterSurvivesRefresh(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, fixtureStore(), nil, Config{})

	opened, err := service.OpenView(ctx, march)
	require.NoError(t, err)

	filtered, err := service.ApplyFilter(opened.ViewID, domain.FilterCriteria{DoctorIDs: []string{"d2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"t3"}, eventSlotIDs(filtered))
	assert.Equal(t, []string{calendar_engine.FacetDoctor}, filtered.ActiveFacets)
	assert.Equal(t, 3, filtered.TotalStats.Total)
	assert.Equal(t, 1, filtered.Stats.Total)

	refreshed, err := service.Refresh(ctx, opened.ViewID, april)
	require.NoError(t, err)
	assert.Equal(t, april, refreshed.Month)
	assert.Equal(t, []string{"d2"}, refreshed.Criteria.DoctorIDs)
	assert.Equal(t, []string{"t4", "t5"}, eventSlotIDs(refreshed))
	require.Len(t, refreshed.Schedules, 1)
	assert.Equal(t, "s3", refreshed.Schedules[0].ID)

	cleared, err := service.ClearFilter(opened.ViewID)
	require.NoError(t, err)
	assert.Equal(t, []string{"t4", "t5", "t6"}, eventSlotIDs(cleared))
	assert.Empty(t, cleared.ActiveFacets)
}

func TestNavigate(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, fixtureStore(), nil, Config{
		Virtualizer: calendar_engine.VirtualizerConfig{Enabled: true, MaxEventsPerDay: 1},
	})

	opened, err := service.OpenView(ctx, march)
	require.NoError(t, err)
	assert.True(t, opened.Virtualized)
	assert.Len(t, opened.Events, 3)
	assert.Nil(t, opened.VisibleRange)

	visible := domain.DateRange{
		Start: time.Date(2024, time.March, 1, 0, 0, 0, 0, json_types.Location()),
		End:   time.Date(2024, time.March, 3, 0, 0, 0, 0, json_types.Location()),
	}
	navigated, err := service.Navigate(opened.ViewID, visible)
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, eventSlotIDs(navigated))
	require.NotNil(t, navigated.VisibleRange)
	assert.Equal(t, domain.WindowStats{TotalEvents: 3, VisibleEvents: 1, PerformanceGain: navigated.Window.PerformanceGain}, navigated.Window)
	assert.InDelta(t, 66.67, navigated.Window.PerformanceGain, 0.01)
	assert.Equal(t, 3, navigated.Stats.Total)
}

func TestRefreshMovesVisibleRange(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, fixtureStore(), nil, Config{
		Virtualizer: calendar_engine.VirtualizerConfig{Enabled: true, MaxEventsPerDay: 1},
	})

	opened, err := service.OpenView(ctx, march)
	require.NoError(t, err)

	_, err = service.Navigate(opened.ViewID, domain.DateRange{
		Start: time.Date(2024, time.March, 1, 0, 0, 0, 0, json_types.Location()),
		End:   time.Date(2024, time.March, 3, 0, 0, 0, 0, json_types.Location()),
	})
	require.NoError(t, err)

	t.Run("same month keeps the range", func(t *testing.T) {
		refreshed, err := service.Refresh(ctx, opened.ViewID, march)
		require.NoError(t, err)
		require.NotNil(t, refreshed.VisibleRange)
		assert.Equal(t, 3, refreshed.VisibleRange.End.Day())
		assert.Equal(t, []string{"t1"}, eventSlotIDs(refreshed))
	})

	t.Run("new month gets its own window", func(t *testing.T) {
		refreshed, err := service.Refresh(ctx, opened.ViewID, april)
		require.NoError(t, err)
		require.NotNil(t, refreshed.VisibleRange)
		assert.Equal(t, time.April, refreshed.VisibleRange.Start.Month())
		assert.Equal(t, 1, refreshed.VisibleRange.Start.Day())
		assert.Equal(t, 30, refreshed.VisibleRange.End.Day())
		assert.Equal(t, []string{"t4", "t6"}, eventSlotIDs(refreshed))
		assert.Equal(t, 3, refreshed.Window.TotalEvents)
		assert.Equal(t, 2, refreshed.Window.VisibleEvents)
	})
}

func TestMonthCache(t *testing.T) {
	ctx := context.Background()
	store := fixtureStore()
	cache := &monthCacheMock{entries: make(map[domain.MonthKey][]domain.DoctorScheduleRecord)}
	service := newTestService(t, store, cache, Config{})

	_, err := service.OpenView(ctx, march)
	require.NoError(t, err)
	_, err = service.OpenView(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, 1, store.calls)

	service.InvalidateMonth(ctx, march)
	_, err = service.OpenView(ctx, march)
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)

	_, err = service.MonthStats(ctx, april, domain.FilterCriteria{})
	require.NoError(t, err)
	service.InvalidateAllMonths(ctx)
	assert.Empty(t, cache.entries)
}

func TestStoreFailure(t *testing.T) {
	storeErr := errors.New("connection refused")
	store := fixtureStore()
	store.err = storeErr
	service := newTestService(t, store, nil, Config{})

	_, err := service.OpenView(context.Background(), march)
	require.Error(t, err)
	assert.True(t, errors.Is(err, storeErr))

	_, err = service.OpenView(context.Background(), domain.MonthKey{Month: 13, Year: 2024})
	assert.True(t, errors.Is(err, domain.ErrInvalidMonth))
}

func TestMonthStats(t *testing.T) {
	service := newTestService(t, fixtureStore(), nil, Config{})

	stats, err := service.MonthStats(context.Background(), april, domain.FilterCriteria{
		Statuses: []domain.SlotStatus{domain.SlotStatusBooked, domain.SlotStatusAbsent},
	})
	require.NoError(t, err)

	assert.Equal(t, april, stats.Month)
	assert.Equal(t, []string{calendar_engine.FacetStatus}, stats.ActiveFacets)
	assert.Equal(t, domain.ScheduleStats{Total: 2, Booked: 1, Absent: 1, Utilization: 50}, stats.Stats)
	assert.Equal(t, domain.ScheduleStats{Total: 3, Free: 1, Booked: 1, Absent: 1, Utilization: 33}, stats.TotalStats)
}

func TestSearchDoctorsUsesUnfilteredSource(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, fixtureStore(), nil, Config{})

	opened, err := service.OpenView(ctx, march)
	require.NoError(t, err)
	_, err = service.ApplyFilter(opened.ViewID, domain.FilterCriteria{DoctorIDs: []string{"d2"}})
	require.NoError(t, err)

	result, err := service.SearchDoctors(ctx, opened.ViewID, "smith")
	require.NoError(t, err)
	require.Len(t, result.Doctors, 1)
	assert.Equal(t, domain.DoctorSummary{
		ID:             "d1",
		Name:           "Dr. Smith",
		Specialization: "Cardiology",
		TotalSlots:     2,
		AvailableSlots: 1,
	}, result.Doctors[0])
}

func TestCloseView(t *testing.T) {
	service := newTestService(t, fixtureStore(), nil, Config{})

	opened, err := service.OpenView(context.Background(), march)
	require.NoError(t, err)

	service.CloseView(opened.ViewID)
	_, err = service.Snapshot(opened.ViewID)
	assert.True(t, errors.Is(err, domain.ErrViewNotFound))
}

func TestViewRegistryEvictsOldest(t *testing.T) {
	ctx := context.Background()
	service := newTestService(t, fixtureStore(), nil, Config{MaxViews: 1})

	first, err := service.OpenView(ctx, march)
	require.NoError(t, err)
	second, err := service.OpenView(ctx, april)
	require.NoError(t, err)

	_, err = service.Snapshot(first.ViewID)
	assert.True(t, errors.Is(err, domain.ErrViewNotFound))
	_, err = service.Snapshot(second.ViewID)
	assert.NoError(t, err)
}
