package calendar_engine

import (
	"math"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
)

// GetScheduleStats counts events by status. Utilization is the booked share in
// whole percent and is 0 for an empty list.
func GetScheduleStats(events []domain.CalendarEvent) domain.ScheduleStats {
	stats := domain.ScheduleStats{Total: len(events)}
	for _, event := range events {
		switch event.Status {
		case domain.SlotStatusFree:
			stats.Free++
		case domain.SlotStatusBooked:
			stats.Booked++
		case domain.SlotStatusAbsent:
			stats.Absent++
		}
	}

	if stats.Total > 0 {
		stats.Utilization = int(math.Round(float64(stats.Booked) / float64(stats.Total) * 100))
	}

	return stats
}
