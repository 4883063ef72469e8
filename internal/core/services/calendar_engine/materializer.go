package calendar_engine

import (
	"github.com/google/uuid"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
)

// eventNamespace seeds the name-based event ids. Changing it changes every event id.
var eventNamespace = uuid.MustParse("6f1c54c2-3b7e-4d0a-9a55-2d7f0c1e8b43")

// DedupScope selects which events are compared when suppressing duplicate time ranges.
type DedupScope string

const (
	// DedupGlobal drops any event whose (start, end) already appeared in the output.
	DedupGlobal DedupScope = "global"
	// DedupPerDoctor drops an event only if the same doctor already has that (start, end).
	DedupPerDoctor DedupScope = "doctor"
)

type MaterializeResult struct {
	Events     []domain.CalendarEvent `json:"events"`
	Skipped    int                    `json:"skipped"`
	Duplicates int                    `json:"duplicates"`
}

type MaterializeOption func(*materializer)

func WithLogger(logger out.LoggerPort) MaterializeOption {
	return func(m *materializer) {
		m.logger = logger
	}
}

func WithDedupScope(scope DedupScope) MaterializeOption {
	return func(m *materializer) {
		if scope == DedupPerDoctor {
			m.scope = DedupPerDoctor
		}
	}
}

type materializer struct {
	logger out.LoggerPort
	scope  DedupScope
}

type eventSpan struct {
	doctorID string
	start    int64
	end      int64
}

// EventID is the stable key of the event materialized from one slot.
func EventID(scheduleID, workDayID, slotID string) string {
	name := scheduleID + "\x00" + workDayID + "\x00" + slotID
	return uuid.NewSHA1(eventNamespace, []byte(name)).String()
}

// Materialize flattens schedules into one calendar event per slot, in source order.
// Slots with an unparsable label or an unknown status are skipped, never fatal.
func Materialize(records []domain.DoctorScheduleRecord, opts ...MaterializeOption) MaterializeResult {
	m := materializer{scope: DedupGlobal}
	for _, opt := range opts {
		opt(&m)
	}

	result := MaterializeResult{
		Events: make([]domain.CalendarEvent, 0, countSlots(records)),
	}
	seen := make(map[eventSpan]struct{}, cap(result.Events))

	for _, record := range records {
		doctor := record.ResolvedDoctor()
		if record.Doctor == nil {
			m.warn("calendar.materialize.doctor_missing", out.LogFields{
				"scheduleId": record.ID,
			})
		}

		for _, workDay := range record.WorkDays {
			if workDay.Date.Date.IsZero() {
				result.Skipped += len(workDay.Slots)
				if workDay.Date.Invalid() {
					m.warn("calendar.materialize.work_day.invalid_date", out.LogFields{
						"scheduleId": record.ID,
						"workDayId":  workDay.ID,
						"date":       workDay.Date.Raw,
					})
					continue
				}
				m.warn("calendar.materialize.work_day.no_date", out.LogFields{
					"scheduleId": record.ID,
					"workDayId":  workDay.ID,
				})
				continue
			}

			for _, slot := range workDay.Slots {
				span, err := domain.ParseSlotLabel(slot.Label)
				if err != nil {
					result.Skipped++
					m.warn("calendar.materialize.slot.invalid_label", out.LogFields{
						"scheduleId": record.ID,
						"workDayId":  workDay.ID,
						"slotId":     slot.ID,
						"error":      err.Error(),
					})
					continue
				}
				if !slot.Status.Valid() {
					result.Skipped++
					m.warn("calendar.materialize.slot.invalid_status", out.LogFields{
						"scheduleId": record.ID,
						"workDayId":  workDay.ID,
						"slotId":     slot.ID,
						"status":     string(slot.Status),
					})
					continue
				}

				start := span.Start.On(workDay.Date.Date)
				end := span.End.On(workDay.Date.Date)

				key := eventSpan{start: start.UnixNano(), end: end.UnixNano()}
				if m.scope == DedupPerDoctor {
					key.doctorID = doctor.ID
				}
				if _, exists := seen[key]; exists {
					result.Duplicates++
					continue
				}
				seen[key] = struct{}{}

				result.Events = append(result.Events, domain.CalendarEvent{
					ID:             EventID(record.ID, workDay.ID, slot.ID),
					Title:          doctor.Name + " - " + slot.Status.Phrase(),
					Start:          start,
					End:            end,
					Status:         slot.Status,
					TimeSlotLabel:  slot.Label,
					DoctorID:       doctor.ID,
					DoctorName:     doctor.Name,
					Specialization: doctor.Specialization,
					ScheduleID:     record.ID,
					WorkDayID:      workDay.ID,
					SlotID:         slot.ID,
				})
			}
		}
	}

	if result.Skipped > 0 || result.Duplicates > 0 {
		m.debug("calendar.materialize.summary", out.LogFields{
			"events":     len(result.Events),
			"skipped":    result.Skipped,
			"duplicates": result.Duplicates,
		})
	}

	return result
}

func countSlots(records []domain.DoctorScheduleRecord) int {
	total := 0
	for _, record := range records {
		for _, workDay := range record.WorkDays {
			total += len(workDay.Slots)
		}
	}
	return total
}

func (m *materializer) warn(event string, fields out.LogFields) {
	if m.logger != nil {
		m.logger.Warn(event, fields)
	}
}

func (m *materializer) debug(event string, fields out.LogFields) {
	if m.logger != nil {
		m.logger.Debug(event, fields)
	}
}
