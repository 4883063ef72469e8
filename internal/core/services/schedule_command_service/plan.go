package schedule_command_service

import (
	"fmt"
	"time"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/json_types"
	"github.com/suchimauz/doctor-schedule-calendar/internal/utils"
)

// MonthPlan lists the work days a create-for-month request will produce.
type MonthPlan struct {
	Month           domain.MonthKey    `json:"month"`
	ExcludeWeekends bool               `json:"excludeWeekends"`
	Dates           []domain.DateSlots `json:"dates"`
	TotalSlots      int                `json:"totalSlots"`
}

// PlanMonth expands month into one entry per day carrying the default slot grid.
func PlanMonth(month domain.MonthKey, excludeWeekends bool) (MonthPlan, error) {
	if !month.Valid() {
		return MonthPlan{}, fmt.Errorf("%w: %d/%d", domain.ErrInvalidMonth, month.Month, month.Year)
	}

	plan := MonthPlan{
		Month:           month,
		ExcludeWeekends: excludeWeekends,
		Dates:           make([]domain.DateSlots, 0, 31),
	}

	first := utils.StartOfMonth(month.Year, time.Month(month.Month), json_types.Location())
	for day := first; day.Month() == first.Month(); day = utils.StartNextDay(day) {
		if excludeWeekends && utils.IsWeekend(day) {
			continue
		}
		labels := append([]string(nil), domain.DefaultSlotLabels...)
		plan.Dates = append(plan.Dates, domain.DateSlots{
			Date:      day.Format(json_types.DateLayout),
			TimeSlots: labels,
		})
		plan.TotalSlots += len(labels)
	}

	return plan, nil
}

// normalizeDates validates every date and label, fills the default grid where
// no slots were given and merges repeated dates in first-seen order.
func normalizeDates(dates []domain.DateSlots) ([]domain.DateSlots, []domain.MonthKey, error) {
	if len(dates) == 0 {
		return nil, nil, fmt.Errorf("%w: no dates given", domain.ErrInvalidDate)
	}

	index := make(map[string]int, len(dates))
	merged := make([]domain.DateSlots, 0, len(dates))
	months := make([]domain.MonthKey, 0, 1)
	seenMonths := make(map[domain.MonthKey]struct{})

	for _, entry := range dates {
		date, err := json_types.ParseDate(entry.Date)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", domain.ErrInvalidDate, err)
		}
		key := date.Format(json_types.DateLayout)

		labels := entry.TimeSlots
		if len(labels) == 0 {
			labels = domain.DefaultSlotLabels
		}
		for _, label := range labels {
			if _, err := domain.ParseSlotLabel(label); err != nil {
				return nil, nil, err
			}
		}

		i, exists := index[key]
		if !exists {
			index[key] = len(merged)
			merged = append(merged, domain.DateSlots{Date: key})
			i = len(merged) - 1
		}
		merged[i].TimeSlots = appendUnique(merged[i].TimeSlots, labels)

		month := domain.MonthKey{Month: int(date.Month()), Year: date.Year()}
		if _, ok := seenMonths[month]; !ok {
			seenMonths[month] = struct{}{}
			months = append(months, month)
		}
	}

	return merged, months, nil
}

func appendUnique(dst []string, values []string) []string {
	for _, value := range values {
		found := false
		for _, existing := range dst {
			if existing == value {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, value)
		}
	}
	return dst
}
