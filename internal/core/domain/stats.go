package domain

type ScheduleStats struct {
	Total       int `json:"total"`
	Free        int `json:"free"`
	Booked      int `json:"booked"`
	Absent      int `json:"absent"`
	Utilization int `json:"utilization"`
}

type WindowStats struct {
	TotalEvents     int     `json:"totalEvents"`
	VisibleEvents   int     `json:"visibleEvents"`
	PerformanceGain float64 `json:"performanceGain"`
}

// DoctorSummary is a doctor search hit with live slot load.
type DoctorSummary struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
	TotalSlots     int    `json:"totalSlots"`
	AvailableSlots int    `json:"availableSlots"`
}
