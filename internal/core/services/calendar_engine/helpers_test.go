package calendar_engine

import (
	"time"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/json_types"
)

func date(year int, month time.Month, day int) json_types.Date {
	return json_types.NewDate(time.Date(year, month, day, 0, 0, 0, 0, json_types.Location()))
}

func slot(id, label string, status domain.SlotStatus) domain.TimeSlot {
	return domain.TimeSlot{ID: id, Label: label, Status: status}
}

func record(id string, doctor *domain.Doctor, workDays ...domain.WorkDay) domain.DoctorScheduleRecord {
	return domain.DoctorScheduleRecord{ID: id, Doctor: doctor, WorkDays: workDays}
}

func workDay(id string, d json_types.Date, slots ...domain.TimeSlot) domain.WorkDay {
	return domain.WorkDay{ID: id, Date: d, Slots: slots}
}

var (
	drSmith = &domain.Doctor{ID: "d1", Name: "Dr. Smith", Specialization: "Cardiology"}
	drJones = &domain.Doctor{ID: "d2", Name: "Dr. Jones", Specialization: "Neurology"}
)

// monthFixture holds two doctors over three days of March 2024 (Fri 1, Mon 4, Tue 5).
func monthFixture() []domain.DoctorScheduleRecord {
	return []domain.DoctorScheduleRecord{
		record("s1", drSmith,
			workDay("w1", date(2024, time.March, 1),
				slot("t1", "09:00-10:00", domain.SlotStatusFree),
				slot("t2", "10:00-11:00", domain.SlotStatusBooked),
			),
			workDay("w2", date(2024, time.March, 4),
				slot("t3", "09:00-10:00", domain.SlotStatusAbsent),
			),
		),
		record("s2", drJones,
			workDay("w3", date(2024, time.March, 5),
				slot("t4", "13:00-14:00", domain.SlotStatusFree),
				slot("t5", "14:00-15:00", domain.SlotStatusBooked),
			),
		),
	}
}
