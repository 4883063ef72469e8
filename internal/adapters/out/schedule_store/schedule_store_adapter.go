package schedule_store

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	nurl "net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/suchimauz/doctor-schedule-calendar/internal/config"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
)

const maxErrorBodyBytes = 4096

type ScheduleStoreAdapter struct {
	client   *http.Client
	baseURL  string
	username string
	password string
	logger   out.LoggerPort
}

func NewScheduleStoreAdapter(cfg *config.Config, logger out.LoggerPort) *ScheduleStoreAdapter {
	timeout := cfg.Store.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ScheduleStoreAdapter{
		client:   &http.Client{Timeout: timeout},
		baseURL:  cfg.Store.URL,
		username: cfg.Store.Username,
		password: cfg.Store.Password,
		logger:   logger,
	}
}

func (a *ScheduleStoreAdapter) ListSchedulesByMonth(ctx context.Context, month domain.MonthKey) ([]domain.DoctorScheduleRecord, error) {
	query := nurl.Values{}
	query.Set("month", strconv.Itoa(month.Month))
	query.Set("year", strconv.Itoa(month.Year))

	var schedules []domain.DoctorScheduleRecord
	if err := a.do(ctx, "list_month", http.MethodGet, "/schedules?"+query.Encode(), nil, &schedules); err != nil {
		return nil, err
	}

	a.logger.Debug("store.list_month.success", out.LogFields{
		"month":     month.Month,
		"year":      month.Year,
		"schedules": len(schedules),
	})

	return schedules, nil
}

func (a *ScheduleStoreAdapter) ListSchedulesByDoctor(ctx context.Context, doctorID string) ([]domain.DoctorScheduleRecord, error) {
	var schedules []domain.DoctorScheduleRecord
	path := "/schedules/doctor/" + nurl.PathEscape(doctorID)
	if err := a.do(ctx, "list_doctor", http.MethodGet, path, nil, &schedules); err != nil {
		return nil, err
	}

	a.logger.Debug("store.list_doctor.success", out.LogFields{
		"doctorId":  doctorID,
		"schedules": len(schedules),
	})

	return schedules, nil
}

func (a *ScheduleStoreAdapter) CreateSchedulesForDates(ctx context.Context, req domain.CreateSchedulesForDatesRequest) ([]domain.DoctorScheduleRecord, error) {
	var created []domain.DoctorScheduleRecord
	if err := a.do(ctx, "create_dates", http.MethodPost, "/schedules/dates", req, &created); err != nil {
		return nil, err
	}
	return created, nil
}

func (a *ScheduleStoreAdapter) CreateSchedulesForMonth(ctx context.Context, req domain.CreateSchedulesForMonthRequest) ([]domain.DoctorScheduleRecord, error) {
	var created []domain.DoctorScheduleRecord
	if err := a.do(ctx, "create_month", http.MethodPost, "/schedules/month", req, &created); err != nil {
		return nil, err
	}
	return created, nil
}

func (a *ScheduleStoreAdapter) DeleteSchedule(ctx context.Context, scheduleID string) error {
	path := "/schedules/" + nurl.PathEscape(scheduleID)
	return a.do(ctx, "delete", http.MethodDelete, path, nil, nil)
}

func (a *ScheduleStoreAdapter) UpdateSlotStatus(ctx context.Context, scheduleID, slotID string, status domain.SlotStatus) error {
	path := fmt.Sprintf("/schedules/%s/slots/%s", nurl.PathEscape(scheduleID), nurl.PathEscape(slotID))
	body := map[string]domain.SlotStatus{"status": status}
	return a.do(ctx, "update_slot", http.MethodPatch, path, body, nil)
}

func (a *ScheduleStoreAdapter) ListDoctors(ctx context.Context) ([]domain.Doctor, error) {
	var doctors []domain.Doctor
	if err := a.do(ctx, "list_doctors", http.MethodGet, "/doctors", nil, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

// do sends one request and decodes a 2xx body into result when result is not nil.
func (a *ScheduleStoreAdapter) do(ctx context.Context, operation, method, path string, payload, result interface{}) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			a.logger.Error("store."+operation+".encode_failed", out.LogFields{
				"error": err.Error(),
			})
			return err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		a.logger.Error("store."+operation+".request_failed", out.LogFields{
			"path":  path,
			"error": err.Error(),
		})
		return err
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.username != "" {
		req.SetBasicAuth(a.username, a.password)
	}

	start := time.Now()
	resp, err := a.client.Do(req)
	if err != nil {
		a.logger.Error("store."+operation+".failed", out.LogFields{
			"path":  path,
			"error": err.Error(),
		})
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		a.logger.Error("store."+operation+".failed", out.LogFields{
			"path":   path,
			"status": resp.StatusCode,
		})
		return &StoreError{
			Operation:  operation,
			StatusCode: resp.StatusCode,
			Body:       string(bytes.TrimSpace(raw)),
		}
	}

	a.logger.Debug("store."+operation+".response", out.LogFields{
		"path":     path,
		"status":   resp.StatusCode,
		"duration": time.Since(start).String(),
	})

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		if err == io.EOF {
			return nil
		}
		a.logger.Error("store."+operation+".decode_failed", out.LogFields{
			"path":  path,
			"error": err.Error(),
		})
		return fmt.Errorf("store.%s.decode_failed: %w", operation, err)
	}

	return nil
}
