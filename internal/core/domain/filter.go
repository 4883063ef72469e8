package domain

import "time"

// DateRange is an inclusive calendar date range.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Valid reports whether both bounds are set and start is not after end.
func (r DateRange) Valid() bool {
	if r.Start.IsZero() || r.End.IsZero() {
		return false
	}
	return !r.Start.After(r.End)
}

// FilterCriteria holds one set per facet. An empty set puts no restriction on its facet.
type FilterCriteria struct {
	DoctorIDs       []string       `json:"doctorIds,omitempty"`
	TimeSlotLabels  []string       `json:"timeSlots,omitempty"`
	DaysOfWeek      []time.Weekday `json:"daysOfWeek,omitempty"`
	DateRange       *DateRange     `json:"dateRange,omitempty"`
	Statuses        []SlotStatus   `json:"statuses,omitempty"`
	Specializations []string       `json:"specializations,omitempty"`
}
