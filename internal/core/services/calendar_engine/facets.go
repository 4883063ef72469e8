package calendar_engine

import (
	"strings"
	"time"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/utils"
)

// dateRangeToleranceDays widens both ends of the date range facet to absorb
// timezone rounding at the edges.
const dateRangeToleranceDays = 1

const (
	FacetDoctor         = "doctor"
	FacetSpecialization = "specialization"
	FacetTimeSlot       = "timeSlot"
	FacetDayOfWeek      = "dayOfWeek"
	FacetStatus         = "status"
	FacetDateRange      = "dateRange"
)

type FilterResult struct {
	Schedules    []domain.DoctorScheduleRecord `json:"schedules"`
	Events       []domain.CalendarEvent        `json:"events"`
	ActiveFacets []string                      `json:"activeFacets"`
}

// Active reports whether any facet restricted the result.
func (r FilterResult) Active() bool {
	return len(r.ActiveFacets) > 0
}

// criteria is FilterCriteria with invalid members dropped and sets indexed.
type criteria struct {
	doctorIDs       map[string]struct{}
	specializations map[string]struct{}
	timeSlotLabels  map[string]struct{}
	daysOfWeek      map[time.Weekday]struct{}
	statuses        map[domain.SlotStatus]struct{}
	rangeFrom       time.Time
	rangeTo         time.Time
	hasRange        bool
}

// facet is one independent filter dimension. matchSchedule is nil for
// facets that only narrow events.
type facet struct {
	name          string
	active        func(c *criteria) bool
	matchEvent    func(c *criteria, event domain.CalendarEvent) bool
	matchSchedule func(c *criteria, record domain.DoctorScheduleRecord) bool
}

var facets = []facet{
	{
		name:   FacetDoctor,
		active: func(c *criteria) bool { return len(c.doctorIDs) > 0 },
		matchEvent: func(c *criteria, event domain.CalendarEvent) bool {
			return contains(c.doctorIDs, event.DoctorID)
		},
		matchSchedule: func(c *criteria, record domain.DoctorScheduleRecord) bool {
			return contains(c.doctorIDs, record.ResolvedDoctor().ID)
		},
	},
	{
		name:   FacetSpecialization,
		active: func(c *criteria) bool { return len(c.specializations) > 0 },
		matchEvent: func(c *criteria, event domain.CalendarEvent) bool {
			return contains(c.specializations, event.Specialization)
		},
		matchSchedule: func(c *criteria, record domain.DoctorScheduleRecord) bool {
			return contains(c.specializations, record.ResolvedDoctor().Specialization)
		},
	},
	{
		name:   FacetTimeSlot,
		active: func(c *criteria) bool { return len(c.timeSlotLabels) > 0 },
		matchEvent: func(c *criteria, event domain.CalendarEvent) bool {
			return contains(c.timeSlotLabels, event.TimeSlotLabel)
		},
	},
	{
		name:   FacetDayOfWeek,
		active: func(c *criteria) bool { return len(c.daysOfWeek) > 0 },
		matchEvent: func(c *criteria, event domain.CalendarEvent) bool {
			return contains(c.daysOfWeek, event.Start.Weekday())
		},
	},
	{
		name:   FacetStatus,
		active: func(c *criteria) bool { return len(c.statuses) > 0 },
		matchEvent: func(c *criteria, event domain.CalendarEvent) bool {
			return contains(c.statuses, event.Status)
		},
	},
	{
		name:   FacetDateRange,
		active: func(c *criteria) bool { return c.hasRange },
		matchEvent: func(c *criteria, event domain.CalendarEvent) bool {
			return !event.Start.Before(c.rangeFrom) && event.Start.Before(c.rangeTo)
		},
	},
}

// ApplyFilters narrows schedules and events by every active facet of fc.
// Facets combine with AND, members of one facet with OR. With no active
// facet the inputs are returned unchanged.
func ApplyFilters(records []domain.DoctorScheduleRecord, events []domain.CalendarEvent, fc domain.FilterCriteria) FilterResult {
	c := normalizeCriteria(fc)

	active := make([]facet, 0, len(facets))
	names := make([]string, 0, len(facets))
	for _, f := range facets {
		if f.active(c) {
			active = append(active, f)
			names = append(names, f.name)
		}
	}

	if len(active) == 0 {
		return FilterResult{Schedules: records, Events: events, ActiveFacets: names}
	}

	filteredSchedules := make([]domain.DoctorScheduleRecord, 0, len(records))
	for _, record := range records {
		if scheduleMatches(active, c, record) {
			filteredSchedules = append(filteredSchedules, record)
		}
	}

	filteredEvents := make([]domain.CalendarEvent, 0, len(events))
	for _, event := range events {
		if eventMatches(active, c, event) {
			filteredEvents = append(filteredEvents, event)
		}
	}

	return FilterResult{
		Schedules:    filteredSchedules,
		Events:       filteredEvents,
		ActiveFacets: names,
	}
}

// ActiveFacets lists the facets of fc that would restrict a result.
func ActiveFacets(fc domain.FilterCriteria) []string {
	c := normalizeCriteria(fc)
	names := make([]string, 0, len(facets))
	for _, f := range facets {
		if f.active(c) {
			names = append(names, f.name)
		}
	}
	return names
}

func scheduleMatches(active []facet, c *criteria, record domain.DoctorScheduleRecord) bool {
	for _, f := range active {
		if f.matchSchedule != nil && !f.matchSchedule(c, record) {
			return false
		}
	}
	return true
}

func eventMatches(active []facet, c *criteria, event domain.CalendarEvent) bool {
	for _, f := range active {
		if !f.matchEvent(c, event) {
			return false
		}
	}
	return true
}

func normalizeCriteria(fc domain.FilterCriteria) *criteria {
	c := &criteria{
		doctorIDs:       stringSet(fc.DoctorIDs),
		specializations: stringSet(fc.Specializations),
		timeSlotLabels:  stringSet(fc.TimeSlotLabels),
		daysOfWeek:      make(map[time.Weekday]struct{}),
		statuses:        make(map[domain.SlotStatus]struct{}),
	}

	for _, day := range fc.DaysOfWeek {
		if day >= time.Sunday && day <= time.Saturday {
			c.daysOfWeek[day] = struct{}{}
		}
	}

	for _, status := range fc.Statuses {
		if status.Valid() {
			c.statuses[status] = struct{}{}
		}
	}

	if fc.DateRange != nil && fc.DateRange.Valid() {
		c.hasRange = true
		c.rangeFrom = utils.StartCurrentDay(fc.DateRange.Start).AddDate(0, 0, -dateRangeToleranceDays)
		// rangeTo is exclusive: the start of the day after the widened end.
		c.rangeTo = utils.StartCurrentDay(fc.DateRange.End).AddDate(0, 0, dateRangeToleranceDays+1)
	}

	return c
}

func stringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) == "" {
			continue
		}
		set[value] = struct{}{}
	}
	return set
}

func contains[K comparable](set map[K]struct{}, key K) bool {
	_, ok := set[key]
	return ok
}
