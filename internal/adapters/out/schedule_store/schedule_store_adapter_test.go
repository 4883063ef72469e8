package schedule_store

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suchimauz/doctor-schedule-calendar/internal/adapters/out/logger"
	"github.com/suchimauz/doctor-schedule-calendar/internal/config"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
)

const monthResponse = `[
  {
    "id": "s1",
    "doctor": {"id": "d1", "name": "Dr. Smith", "specialization": "Cardiology"},
    "workDays": [
      {"id": "w1", "date": "2024-03-01T00:00:00.000Z", "timeSlots": [
        {"id": "t1", "time": "09:00-10:00", "status": "Free"},
        {"id": "t2", "time": "10:00-11:00", "status": "Booked"}
      ]}
    ]
  },
  {"id": "s2", "doctor": null, "workDays": []}
]`

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *ScheduleStoreAdapter {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := &config.Config{}
	cfg.Store.URL = server.URL
	cfg.Store.Username = "store"
	cfg.Store.Password = "secret"
	cfg.Store.Timeout = 2 * time.Second

	return NewScheduleStoreAdapter(cfg, logger.NewNopLogger())
}

func TestListSchedulesByMonth(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/schedules", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("month"))
		assert.Equal(t, "2024", r.URL.Query().Get("year"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "store", user)
		assert.Equal(t, "secret", pass)

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, monthResponse)
	})

	schedules, err := adapter.ListSchedulesByMonth(context.Background(), domain.MonthKey{Month: 3, Year: 2024})
	require.NoError(t, err)
	require.Len(t, schedules, 2)

	first := schedules[0]
	require.NotNil(t, first.Doctor)
	assert.Equal(t, "Dr. Smith", first.Doctor.Name)
	require.Len(t, first.WorkDays, 1)
	assert.Equal(t, "2024-03-01", first.WorkDays[0].Date.String())
	require.Len(t, first.WorkDays[0].Slots, 2)
	assert.Equal(t, "09:00-10:00", first.WorkDays[0].Slots[0].Label)
	assert.Equal(t, domain.SlotStatusBooked, first.WorkDays[0].Slots[1].Status)

	assert.Nil(t, schedules[1].Doctor)
	assert.Equal(t, domain.DeletedDoctorID, schedules[1].ResolvedDoctor().ID)
}

func TestRequestsReachExpectedEndpoints(t *testing.T) {
	type call struct {
		method string
		path   string
		body   map[string]interface{}
	}

	var calls []call
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		c := call{method: r.Method, path: r.URL.Path}
		if r.Body != nil {
			raw, _ := io.ReadAll(r.Body)
			if len(raw) > 0 {
				assert.NoError(t, json.Unmarshal(raw, &c.body))
			}
		}
		calls = append(calls, c)

		switch r.Method {
		case http.MethodDelete, http.MethodPatch:
			w.WriteHeader(http.StatusNoContent)
		default:
			_, _ = io.WriteString(w, "[]")
		}
	})
	ctx := context.Background()

	_, err := adapter.ListSchedulesByDoctor(ctx, "d 1")
	require.NoError(t, err)
	_, err = adapter.CreateSchedulesForDates(ctx, domain.CreateSchedulesForDatesRequest{
		DoctorID: "d1",
		Dates:    []domain.DateSlots{{Date: "2024-03-04", TimeSlots: []string{"09:00-10:00"}}},
	})
	require.NoError(t, err)
	_, err = adapter.CreateSchedulesForMonth(ctx, domain.CreateSchedulesForMonthRequest{
		DoctorID: "d1", Month: 3, Year: 2024, ExcludeWeekends: true,
	})
	require.NoError(t, err)
	require.NoError(t, adapter.DeleteSchedule(ctx, "s1"))
	require.NoError(t, adapter.UpdateSlotStatus(ctx, "s1", "t1", domain.SlotStatusAbsent))
	_, err = adapter.ListDoctors(ctx)
	require.NoError(t, err)

	require.Len(t, calls, 6)
	assert.Equal(t, "/schedules/doctor/d 1", calls[0].path)

	assert.Equal(t, http.MethodPost, calls[1].method)
	assert.Equal(t, "/schedules/dates", calls[1].path)
	assert.Equal(t, "d1", calls[1].body["doctorId"])

	assert.Equal(t, "/schedules/month", calls[2].path)
	assert.Equal(t, true, calls[2].body["excludeWeekends"])

	assert.Equal(t, http.MethodDelete, calls[3].method)
	assert.Equal(t, "/schedules/s1", calls[3].path)

	assert.Equal(t, http.MethodPatch, calls[4].method)
	assert.Equal(t, "/schedules/s1/slots/t1", calls[4].path)
	assert.Equal(t, "Absent", calls[4].body["status"])

	assert.Equal(t, "/doctors", calls[5].path)
}

func TestStoreErrorOnNon2xx(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, " store is down \n")
	})

	_, err := adapter.ListDoctors(context.Background())
	require.Error(t, err)

	var storeErr *StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "list_doctors", storeErr.Operation)
	assert.Equal(t, http.StatusServiceUnavailable, storeErr.StatusCode)
	assert.Equal(t, "store is down", storeErr.Body)
	assert.Contains(t, err.Error(), "503")
}

func TestInvalidWorkDayDateKeepsMonth(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
  {"id": "s1", "doctor": {"id": "d1", "name": "Dr. Smith"}, "workDays": [
    {"id": "w1", "date": "not-a-date", "timeSlots": [{"id": "t1", "time": "09:00-10:00", "status": "Free"}]},
    {"id": "w2", "date": "2024-03-04", "timeSlots": [{"id": "t2", "time": "09:00-10:00", "status": "Free"}]}
  ]}
]`)
	})

	schedules, err := adapter.ListSchedulesByMonth(context.Background(), domain.MonthKey{Month: 3, Year: 2024})
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	require.Len(t, schedules[0].WorkDays, 2)
	assert.True(t, schedules[0].WorkDays[0].Date.Invalid())
	assert.Equal(t, "2024-03-04", schedules[0].WorkDays[1].Date.String())
}

func TestDecodeFailure(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"not": "a list"`)
	})

	_, err := adapter.ListSchedulesByMonth(context.Background(), domain.MonthKey{Month: 1, Year: 2024})
	require.Error(t, err)

	var storeErr *StoreError
	assert.False(t, errors.As(err, &storeErr))
}
