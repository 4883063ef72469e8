package rabbitmq

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/doctor-schedule-calendar/internal/adapters/out/logger"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
)

type invalidatorMock struct {
	months []domain.MonthKey
	all    int
}

func (m *invalidatorMock) InvalidateMonth(ctx context.Context, month domain.MonthKey) {
	m.months = append(m.months, month)
}

func (m *invalidatorMock) InvalidateAllMonths(ctx context.Context) {
	m.all++
}

func newTestListener() (*ScheduleChangeListener, *invalidatorMock) {
	mock := &invalidatorMock{}
	return &ScheduleChangeListener{
		invalidator: mock,
		logger:      logger.NewNopLogger(),
	}, mock
}

func TestParseRoutingKey(t *testing.T) {
	key, err := ParseRoutingKey("schedule-api.calendar.schedule.2024-03.store")
	require.NoError(t, err)
	assert.Equal(t, RoutingKey{
		Source:       "schedule-api",
		Receiver:     "calendar",
		ResourceType: ResourceTypeSchedule,
		Month:        "2024-03",
		ChangeType:   ChangeTypeStore,
	}, key)

	_, err = ParseRoutingKey("schedule-api.calendar.schedule")
	assert.Error(t, err)
}

func TestHandleMessage(t *testing.T) {
	ctx := context.Background()

	t.Run("schedule invalidate drops the month", func(t *testing.T) {
		l, mock := newTestListener()
		err := l.handleMessage(ctx, "api.calendar.schedule.2024-03.invalidate", []byte(`{"id":"s1","month":3,"year":2024}`))
		require.NoError(t, err)
		assert.Equal(t, []domain.MonthKey{{Month: 3, Year: 2024}}, mock.months)
		assert.Zero(t, mock.all)
	})

	t.Run("schedule store drops the month", func(t *testing.T) {
		l, mock := newTestListener()
		err := l.handleMessage(ctx, "api.calendar.schedule.2024-04.store", []byte(`{"id":"s1","month":4,"year":2024}`))
		require.NoError(t, err)
		assert.Equal(t, []domain.MonthKey{{Month: 4, Year: 2024}}, mock.months)
	})

	t.Run("schedule without month drops everything", func(t *testing.T) {
		l, mock := newTestListener()
		err := l.handleMessage(ctx, "api.calendar.schedule.any.invalidate", []byte(`{"id":"s1"}`))
		require.NoError(t, err)
		assert.Empty(t, mock.months)
		assert.Equal(t, 1, mock.all)
	})

	t.Run("all invalidate", func(t *testing.T) {
		l, mock := newTestListener()
		err := l.handleMessage(ctx, "api.calendar._all_.any.invalidate", nil)
		require.NoError(t, err)
		assert.Equal(t, 1, mock.all)
	})

	t.Run("all store is ignored", func(t *testing.T) {
		l, mock := newTestListener()
		err := l.handleMessage(ctx, "api.calendar._all_.any.store", nil)
		require.NoError(t, err)
		assert.Zero(t, mock.all)
	})

	t.Run("other resources are ignored", func(t *testing.T) {
		l, mock := newTestListener()
		err := l.handleMessage(ctx, "api.calendar.doctor.any.invalidate", []byte(`{}`))
		require.NoError(t, err)
		assert.Empty(t, mock.months)
		assert.Zero(t, mock.all)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		l, mock := newTestListener()
		err := l.handleMessage(ctx, "api.calendar.schedule.2024-03.invalidate", []byte(`{"month":`))
		assert.Error(t, err)
		assert.Empty(t, mock.months)
	})

	t.Run("malformed routing key is rejected", func(t *testing.T) {
		l, _ := newTestListener()
		assert.Error(t, l.handleMessage(ctx, "broken", nil))
	})
}
