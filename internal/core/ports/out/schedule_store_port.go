package out

import (
	"context"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
)

// ScheduleStorePort is the external schedule API. It owns all persistence.
type ScheduleStorePort interface {
	ListSchedulesByMonth(ctx context.Context, month domain.MonthKey) ([]domain.DoctorScheduleRecord, error)
	ListSchedulesByDoctor(ctx context.Context, doctorID string) ([]domain.DoctorScheduleRecord, error)
	CreateSchedulesForDates(ctx context.Context, req domain.CreateSchedulesForDatesRequest) ([]domain.DoctorScheduleRecord, error)
	CreateSchedulesForMonth(ctx context.Context, req domain.CreateSchedulesForMonthRequest) ([]domain.DoctorScheduleRecord, error)
	DeleteSchedule(ctx context.Context, scheduleID string) error
	UpdateSlotStatus(ctx context.Context, scheduleID, slotID string, status domain.SlotStatus) error

	ListDoctors(ctx context.Context) ([]domain.Doctor, error)
}
