package domain

import "time"

// CalendarEvent is one materialized slot occurrence. It is derived and never persisted.
type CalendarEvent struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Start          time.Time  `json:"start"`
	End            time.Time  `json:"end"`
	Status         SlotStatus `json:"status"`
	TimeSlotLabel  string     `json:"timeSlot"`
	DoctorID       string     `json:"doctorId"`
	DoctorName     string     `json:"doctorName"`
	Specialization string     `json:"specialization,omitempty"`
	ScheduleID     string     `json:"scheduleId"`
	WorkDayID      string     `json:"workDayId"`
	SlotID         string     `json:"slotId"`
}
