package rabbitmq

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
)

type (
	ChangeType   string
	ResourceType string
)

const (
	ResourceTypeAll      ResourceType = "_all_"
	ResourceTypeSchedule ResourceType = "schedule"
)

const (
	ChangeTypeStore      ChangeType = "store"
	ChangeTypeInvalidate ChangeType = "invalidate"
)

// RoutingKey is the parsed form of <source>.<receiver>.<resource>.<month>.<change>.
type RoutingKey struct {
	Source       string
	Receiver     string
	ResourceType ResourceType
	Month        string
	ChangeType   ChangeType
}

type ScheduleChangeMessage struct {
	ID    string `json:"id"`
	Month int    `json:"month"`
	Year  int    `json:"year"`
}

// Examples:
// schedule-api.calendar.schedule.2024-03.store
// schedule-api.calendar.schedule.2024-03.invalidate
// schedule-api.calendar._all_.any.invalidate
func ParseRoutingKey(routingKey string) (RoutingKey, error) {
	parts := strings.Split(routingKey, ".")
	if len(parts) != 5 {
		return RoutingKey{}, fmt.Errorf("invalid routing key: %s", routingKey)
	}

	return RoutingKey{
		Source:       parts[0],
		Receiver:     parts[1],
		ResourceType: ResourceType(parts[2]),
		Month:        parts[3],
		ChangeType:   ChangeType(parts[4]),
	}, nil
}

// handleMessage applies one notification. A returned error rejects the message.
func (l *ScheduleChangeListener) handleMessage(ctx context.Context, routingKey string, body []byte) error {
	key, err := ParseRoutingKey(routingKey)
	if err != nil {
		return err
	}

	switch key.ResourceType {
	case ResourceTypeAll:
		if key.ChangeType != ChangeTypeInvalidate {
			return nil
		}
		l.invalidator.InvalidateAllMonths(ctx)
		l.logger.Info("_all_.message.invalidated", out.LogFields{
			"source": key.Source,
		})
		return nil

	case ResourceTypeSchedule:
		if key.ChangeType != ChangeTypeStore && key.ChangeType != ChangeTypeInvalidate {
			l.logger.Debug("rabbitmq.message.skipped", out.LogFields{
				"changeType": string(key.ChangeType),
			})
			return nil
		}

		var msg ScheduleChangeMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return fmt.Errorf("failed to unmarshal message: %w", err)
		}

		month := domain.MonthKey{Month: msg.Month, Year: msg.Year}
		if !month.Valid() {
			l.invalidator.InvalidateAllMonths(ctx)
			l.logger.Warn("schedule.message.month_unknown", out.LogFields{
				"id":    msg.ID,
				"month": msg.Month,
				"year":  msg.Year,
			})
			return nil
		}

		// A stored schedule changes the cached month the same way an invalidation does.
		l.invalidator.InvalidateMonth(ctx, month)
		l.logger.Info("schedule.message.invalidated", out.LogFields{
			"id":         msg.ID,
			"month":      month.Month,
			"year":       month.Year,
			"changeType": string(key.ChangeType),
		})
		return nil
	}

	l.logger.Debug("rabbitmq.message.skipped", out.LogFields{
		"resourceType": string(key.ResourceType),
	})
	return nil
}
