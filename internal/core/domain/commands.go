package domain

// DateSlots is one date of a create-by-dates request. Empty TimeSlots means DefaultSlotLabels.
type DateSlots struct {
	Date      string   `json:"date"`
	TimeSlots []string `json:"timeSlots,omitempty"`
}

type CreateSchedulesForDatesRequest struct {
	DoctorID string      `json:"doctorId"`
	Dates    []DateSlots `json:"dates"`
}

type CreateSchedulesForMonthRequest struct {
	DoctorID        string `json:"doctorId"`
	Month           int    `json:"month"`
	Year            int    `json:"year"`
	ExcludeWeekends bool   `json:"excludeWeekends"`
}

// MonthKey identifies one month of schedules.
type MonthKey struct {
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (k MonthKey) Valid() bool {
	return k.Month >= 1 && k.Month <= 12 && k.Year >= 1970 && k.Year <= 9999
}
