package in

import (
	"context"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/services/schedule_command_service"
)

type ScheduleCommandUseCase interface {
	CreateForDates(ctx context.Context, doctorID string, dates []domain.DateSlots) ([]domain.DoctorScheduleRecord, error)
	CreateForMonth(ctx context.Context, doctorID string, month domain.MonthKey, excludeWeekends bool) ([]domain.DoctorScheduleRecord, error)
	PlanMonth(month domain.MonthKey, excludeWeekends bool) (schedule_command_service.MonthPlan, error)
	DeleteSchedule(ctx context.Context, scheduleID string, month *domain.MonthKey) error
	UpdateSlotStatus(ctx context.Context, scheduleID, slotID string, status domain.SlotStatus, month *domain.MonthKey) error
}
