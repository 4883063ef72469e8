package calendar_engine

import (
	"time"

	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
)

const (
	DefaultMaxEventsPerDay = 50
	DefaultAutoThreshold   = 500
)

type VirtualizerConfig struct {
	MaxEventsPerDay int
	// Enabled forces windowing on. Windowing also turns on by itself once
	// the event list is longer than AutoThreshold.
	Enabled       bool
	AutoThreshold int
}

func DefaultVirtualizerConfig() VirtualizerConfig {
	return VirtualizerConfig{
		MaxEventsPerDay: DefaultMaxEventsPerDay,
		AutoThreshold:   DefaultAutoThreshold,
	}
}

type dayKey struct {
	year  int
	month time.Month
	day   int
}

func newDayKey(t time.Time) dayKey {
	y, m, d := t.Date()
	return dayKey{year: y, month: m, day: d}
}

func (k dayKey) before(other dayKey) bool {
	if k.year != other.year {
		return k.year < other.year
	}
	if k.month != other.month {
		return k.month < other.month
	}
	return k.day < other.day
}

type dayGroup struct {
	day    dayKey
	events []domain.CalendarEvent
}

// Virtualizer bounds the events handed to rendering to the visible date range,
// with at most MaxEventsPerDay events per day. It is not safe for concurrent use.
type Virtualizer struct {
	cfg     VirtualizerConfig
	events  []domain.CalendarEvent
	days    []dayGroup
	visible *domain.DateRange

	window []domain.CalendarEvent
	stats  domain.WindowStats
}

func NewVirtualizer(cfg VirtualizerConfig) *Virtualizer {
	if cfg.MaxEventsPerDay <= 0 {
		cfg.MaxEventsPerDay = DefaultMaxEventsPerDay
	}
	if cfg.AutoThreshold <= 0 {
		cfg.AutoThreshold = DefaultAutoThreshold
	}
	v := &Virtualizer{cfg: cfg}
	v.recompute()
	return v
}

// SetEvents replaces the event list and regroups it by calendar day.
func (v *Virtualizer) SetEvents(events []domain.CalendarEvent) {
	v.events = events
	v.days = groupByDay(events)
	v.recompute()
}

// SetVisibleRange moves the window. The new window is available on return.
func (v *Virtualizer) SetVisibleRange(visible domain.DateRange) {
	v.visible = &visible
	v.recompute()
}

func (v *Virtualizer) ClearVisibleRange() {
	v.visible = nil
	v.recompute()
}

func (v *Virtualizer) VisibleRange() (domain.DateRange, bool) {
	if v.visible == nil {
		return domain.DateRange{}, false
	}
	return *v.visible, true
}

func (v *Virtualizer) Enabled() bool {
	return v.cfg.Enabled || len(v.events) > v.cfg.AutoThreshold
}

func (v *Virtualizer) Window() []domain.CalendarEvent {
	return v.window
}

func (v *Virtualizer) Stats() domain.WindowStats {
	return v.stats
}

func (v *Virtualizer) recompute() {
	if !v.Enabled() || v.visible == nil {
		v.window = v.events
	} else {
		v.window = v.windowDays(newDayKey(v.visible.Start), newDayKey(v.visible.End))
	}
	v.stats = windowStats(len(v.events), len(v.window))
}

func (v *Virtualizer) windowDays(from, to dayKey) []domain.CalendarEvent {
	window := make([]domain.CalendarEvent, 0)
	for _, group := range v.days {
		if group.day.before(from) || to.before(group.day) {
			continue
		}
		events := group.events
		if len(events) > v.cfg.MaxEventsPerDay {
			events = events[:v.cfg.MaxEventsPerDay]
		}
		window = append(window, events...)
	}
	return window
}

// groupByDay buckets events by the date of their start. Days keep the order
// of their first event and events keep source order within a day.
func groupByDay(events []domain.CalendarEvent) []dayGroup {
	index := make(map[dayKey]int)
	groups := make([]dayGroup, 0)
	for _, event := range events {
		key := newDayKey(event.Start)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, dayGroup{day: key})
		}
		groups[i].events = append(groups[i].events, event)
	}
	return groups
}

func windowStats(total, visible int) domain.WindowStats {
	stats := domain.WindowStats{TotalEvents: total, VisibleEvents: visible}
	if total > 0 {
		stats.PerformanceGain = (1 - float64(visible)/float64(total)) * 100
	}
	return stats
}
