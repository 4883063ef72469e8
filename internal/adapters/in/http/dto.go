package http

import (
	"strconv"
	"time"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/json_types"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
)

type MonthRequest struct {
	Month int `json:"month" binding:"required,min=1,max=12"`
	Year  int `json:"year" binding:"required,min=1970,max=9999"`
}

func (r MonthRequest) Key() domain.MonthKey {
	return domain.MonthKey{Month: r.Month, Year: r.Year}
}

type DateRangeRequest struct {
	Start string `json:"start" binding:"required"`
	End   string `json:"end" binding:"required"`
}

// toDomain parses both bounds as calendar dates.
func (r DateRangeRequest) toDomain() (domain.DateRange, error) {
	start, err := json_types.ParseDate(r.Start)
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := json_types.ParseDate(r.End)
	if err != nil {
		return domain.DateRange{}, err
	}
	return domain.DateRange{Start: start, End: end}, nil
}

type FilterRequest struct {
	DoctorIDs       []string          `json:"doctorIds"`
	TimeSlots       []string          `json:"timeSlots"`
	DaysOfWeek      []int             `json:"daysOfWeek"`
	DateRange       *DateRangeRequest `json:"dateRange"`
	Statuses        []string          `json:"statuses"`
	Specializations []string          `json:"specializations"`
}

// toDomain converts the request into criteria. Unknown weekdays are dropped and
// an unparsable date range leaves that facet inactive.
func (r FilterRequest) toDomain(logger out.LoggerPort) domain.FilterCriteria {
	criteria := domain.FilterCriteria{
		DoctorIDs:       r.DoctorIDs,
		TimeSlotLabels:  r.TimeSlots,
		Specializations: r.Specializations,
	}

	for _, day := range r.DaysOfWeek {
		if day >= int(time.Sunday) && day <= int(time.Saturday) {
			criteria.DaysOfWeek = append(criteria.DaysOfWeek, time.Weekday(day))
		}
	}

	for _, status := range r.Statuses {
		criteria.Statuses = append(criteria.Statuses, domain.SlotStatus(status))
	}

	if r.DateRange != nil {
		dateRange, err := r.DateRange.toDomain()
		if err != nil {
			logger.Warn("http.filter.date_range_invalid", out.LogFields{
				"start": r.DateRange.Start,
				"end":   r.DateRange.End,
				"error": err.Error(),
			})
		} else {
			criteria.DateRange = &dateRange
		}
	}

	return criteria
}

type MonthStatsRequest struct {
	MonthRequest
	Filter FilterRequest `json:"filter"`
}

type CreateForDatesRequest struct {
	DoctorID string             `json:"doctorId" binding:"required"`
	Dates    []domain.DateSlots `json:"dates" binding:"required,min=1"`
}

type CreateForMonthRequest struct {
	DoctorID        string `json:"doctorId" binding:"required"`
	Month           int    `json:"month" binding:"required,min=1,max=12"`
	Year            int    `json:"year" binding:"required,min=1970,max=9999"`
	ExcludeWeekends bool   `json:"excludeWeekends"`
}

type UpdateSlotStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Month  int    `json:"month"`
	Year   int    `json:"year"`
}

// monthFromQuery reads optional month and year query values. ok is false
// when either is missing or malformed.
func monthFromQuery(monthValue, yearValue string) (domain.MonthKey, bool) {
	month, err := strconv.Atoi(monthValue)
	if err != nil {
		return domain.MonthKey{}, false
	}
	year, err := strconv.Atoi(yearValue)
	if err != nil {
		return domain.MonthKey{}, false
	}

	key := domain.MonthKey{Month: month, Year: year}
	return key, key.Valid()
}
