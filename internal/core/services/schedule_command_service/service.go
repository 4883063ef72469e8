package schedule_command_service

import (
	"context"
	"fmt"
	"strings"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
)

// ScheduleCommandService validates schedule edits and forwards them to the
// schedule store. Months touched by a successful command are dropped from
// the month cache.
type ScheduleCommandService struct {
	store  out.ScheduleStorePort
	cache  out.MonthCachePort
	logger out.LoggerPort
}

func NewScheduleCommandService(
	store out.ScheduleStorePort,
	cache out.MonthCachePort,
	logger out.LoggerPort,
) *ScheduleCommandService {
	return &ScheduleCommandService{
		store:  store,
		cache:  cache,
		logger: logger.WithModule("ScheduleCommandService"),
	}
}

func (s *ScheduleCommandService) CreateForDates(ctx context.Context, doctorID string, dates []domain.DateSlots) ([]domain.DoctorScheduleRecord, error) {
	if strings.TrimSpace(doctorID) == "" {
		return nil, domain.ErrDoctorRequired
	}

	normalized, months, err := normalizeDates(dates)
	if err != nil {
		return nil, err
	}

	created, err := s.store.CreateSchedulesForDates(ctx, domain.CreateSchedulesForDatesRequest{
		DoctorID: doctorID,
		Dates:    normalized,
	})
	if err != nil {
		s.logger.Error("schedules.create_dates.failed", out.LogFields{
			"doctorId": doctorID,
			"dates":    len(normalized),
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("schedules.create_dates.failed: %w", err)
	}

	s.invalidate(ctx, months...)

	s.logger.Info("schedules.create_dates.success", out.LogFields{
		"doctorId":  doctorID,
		"dates":     len(normalized),
		"schedules": len(created),
	})

	return created, nil
}

func (s *ScheduleCommandService) CreateForMonth(ctx context.Context, doctorID string, month domain.MonthKey, excludeWeekends bool) ([]domain.DoctorScheduleRecord, error) {
	if strings.TrimSpace(doctorID) == "" {
		return nil, domain.ErrDoctorRequired
	}

	if !month.Valid() {
		return nil, fmt.Errorf("%w: %d/%d", domain.ErrInvalidMonth, month.Month, month.Year)
	}

	created, err := s.store.CreateSchedulesForMonth(ctx, domain.CreateSchedulesForMonthRequest{
		DoctorID:        doctorID,
		Month:           month.Month,
		Year:            month.Year,
		ExcludeWeekends: excludeWeekends,
	})
	if err != nil {
		s.logger.Error("schedules.create_month.failed", out.LogFields{
			"doctorId": doctorID,
			"month":    month.Month,
			"year":     month.Year,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("schedules.create_month.failed: %w", err)
	}

	s.invalidate(ctx, month)

	s.logger.Info("schedules.create_month.success", out.LogFields{
		"doctorId":  doctorID,
		"month":     month.Month,
		"year":      month.Year,
		"schedules": len(created),
	})

	return created, nil
}

func (s *ScheduleCommandService) PlanMonth(month domain.MonthKey, excludeWeekends bool) (MonthPlan, error) {
	return PlanMonth(month, excludeWeekends)
}

// DeleteSchedule removes a schedule. Without month every cached month is dropped.
func (s *ScheduleCommandService) DeleteSchedule(ctx context.Context, scheduleID string, month *domain.MonthKey) error {
	if err := s.store.DeleteSchedule(ctx, scheduleID); err != nil {
		s.logger.Error("schedules.delete.failed", out.LogFields{
			"scheduleId": scheduleID,
			"error":      err.Error(),
		})
		return fmt.Errorf("schedules.delete.failed: %w", err)
	}

	s.invalidateKnown(ctx, month)
	return nil
}

func (s *ScheduleCommandService) UpdateSlotStatus(ctx context.Context, scheduleID, slotID string, status domain.SlotStatus, month *domain.MonthKey) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	if err := s.store.UpdateSlotStatus(ctx, scheduleID, slotID, status); err != nil {
		s.logger.Error("schedules.slot_status.failed", out.LogFields{
			"scheduleId": scheduleID,
			"slotId":     slotID,
			"status":     string(status),
			"error":      err.Error(),
		})
		return fmt.Errorf("schedules.slot_status.failed: %w", err)
	}

	s.invalidateKnown(ctx, month)
	return nil
}

func (s *ScheduleCommandService) invalidate(ctx context.Context, months ...domain.MonthKey) {
	if s.cache == nil {
		return
	}
	for _, month := range months {
		s.cache.InvalidateMonth(ctx, month)
	}
}

func (s *ScheduleCommandService) invalidateKnown(ctx context.Context, month *domain.MonthKey) {
	if s.cache == nil {
		return
	}
	if month != nil && month.Valid() {
		s.cache.InvalidateMonth(ctx, *month)
		return
	}
	s.cache.InvalidateAllMonths(ctx)
}
