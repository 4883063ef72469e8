package domain

import (
	"fmt"
	"strings"
	"time"
)

const clockLayout = "15:04"

type SlotStatus string

const (
	SlotStatusFree   SlotStatus = "Free"
	SlotStatusBooked SlotStatus = "Booked"
	SlotStatusAbsent SlotStatus = "Absent"
)

// SlotStatuses is the closed set of statuses exchanged with the schedule store.
var SlotStatuses = []SlotStatus{SlotStatusFree, SlotStatusBooked, SlotStatusAbsent}

func (s SlotStatus) Valid() bool {
	switch s {
	case SlotStatusFree, SlotStatusBooked, SlotStatusAbsent:
		return true
	}
	return false
}

// Phrase is the status wording used in calendar event titles.
func (s SlotStatus) Phrase() string {
	switch s {
	case SlotStatusFree:
		return "available"
	case SlotStatusBooked:
		return "booked"
	case SlotStatusAbsent:
		return "unavailable"
	}
	return ""
}

func ParseSlotStatus(value string) (SlotStatus, error) {
	status := SlotStatus(value)
	if !status.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return status, nil
}

// DefaultSlotLabels is the grid used when a create request carries no explicit slots.
// There is no slot between 11:00 and 13:00.
var DefaultSlotLabels = []string{
	"07:00-08:00",
	"08:00-09:00",
	"09:00-10:00",
	"10:00-11:00",
	"13:00-14:00",
	"14:00-15:00",
	"15:00-16:00",
	"16:00-17:00",
}

type TimeSlot struct {
	ID     string     `json:"id"`
	Label  string     `json:"time"`
	Status SlotStatus `json:"status"`
}

// ClockTime is a wall-clock hour and minute within a day.
type ClockTime struct {
	Hour   int
	Minute int
}

func (c ClockTime) minutes() int {
	return c.Hour*60 + c.Minute
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On places the clock time on the calendar day of date, in date's location.
func (c ClockTime) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

type SlotRange struct {
	Start ClockTime
	End   ClockTime
}

func (r SlotRange) String() string {
	return r.Start.String() + "-" + r.End.String()
}

// ParseSlotLabel parses a "HH:MM-HH:MM" label. The start must be strictly before the end.
func ParseSlotLabel(label string) (SlotRange, error) {
	parts := strings.Split(label, "-")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return SlotRange{}, fmt.Errorf("%w: %q", ErrInvalidSlotLabel, label)
	}

	start, err := parseClockTime(parts[0])
	if err != nil {
		return SlotRange{}, fmt.Errorf("%w: %q: %v", ErrInvalidSlotLabel, label, err)
	}
	end, err := parseClockTime(parts[1])
	if err != nil {
		return SlotRange{}, fmt.Errorf("%w: %q: %v", ErrInvalidSlotLabel, label, err)
	}

	if start.minutes() >= end.minutes() {
		return SlotRange{}, fmt.Errorf("%w: %q: start is not before end", ErrInvalidSlotLabel, label)
	}

	return SlotRange{Start: start, End: end}, nil
}

func parseClockTime(token string) (ClockTime, error) {
	token = strings.TrimSpace(token)
	if len(token) != len(clockLayout) {
		return ClockTime{}, fmt.Errorf("expected HH:MM, got %q", token)
	}

	parsed, err := time.Parse(clockLayout, token)
	if err != nil {
		return ClockTime{}, fmt.Errorf("expected HH:MM, got %q", token)
	}

	return ClockTime{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}
