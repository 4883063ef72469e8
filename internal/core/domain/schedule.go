package domain

import (
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/json_types"
)

// Doctor is a roster entry as returned by the schedule store.
type Doctor struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
}

type WorkDay struct {
	ID    string          `json:"id"`
	Date  json_types.Date `json:"date"`
	Slots []TimeSlot      `json:"timeSlots"`
}

// DoctorScheduleRecord is one doctor's schedule document. Doctor is nil when
// the referenced doctor was deleted after the schedule was created.
type DoctorScheduleRecord struct {
	ID             string    `json:"id"`
	Doctor         *Doctor   `json:"doctor"`
	Specialization string    `json:"specialization,omitempty"`
	WorkDays       []WorkDay `json:"workDays"`
}

const (
	DeletedDoctorID   = "deleted-doctor"
	DeletedDoctorName = "Doctor no longer exists"
)

// ResolvedDoctor returns the schedule's doctor, or the deleted-doctor sentinel.
func (r DoctorScheduleRecord) ResolvedDoctor() Doctor {
	if r.Doctor == nil {
		return Doctor{
			ID:             DeletedDoctorID,
			Name:           DeletedDoctorName,
			Specialization: r.Specialization,
		}
	}

	doctor := *r.Doctor
	if r.Specialization != "" {
		doctor.Specialization = r.Specialization
	}
	return doctor
}

func (r DoctorScheduleRecord) SlotCounts() (total int, free int) {
	for _, workDay := range r.WorkDays {
		for _, slot := range workDay.Slots {
			total++
			if slot.Status == SlotStatusFree {
				free++
			}
		}
	}
	return total, free
}
