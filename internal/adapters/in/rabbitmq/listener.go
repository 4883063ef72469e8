package rabbitmq

import (
	"context"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/doctor-schedule-calendar/internal/config"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/domain"
	"github.com/suchimauz/doctor-schedule-calendar/internal/core/ports/out"
)

const (
	setupAttempts = 3
	setupPause    = 500 * time.Millisecond
)

// Binding keys of the schedule change queue.
var bindingKeys = []string{
	"*.*." + string(ResourceTypeSchedule) + ".*.*",
	"*.*." + string(ResourceTypeAll) + ".*." + string(ChangeTypeInvalidate),
}

// MonthInvalidator drops cached month schedules.
type MonthInvalidator interface {
	InvalidateMonth(ctx context.Context, month domain.MonthKey)
	InvalidateAllMonths(ctx context.Context)
}

// ScheduleChangeListener consumes schedule change notifications and drops
// the affected months from the cache.
type ScheduleChangeListener struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	invalidator MonthInvalidator
	cfg         *config.Config
	logger      out.LoggerPort

	mu         sync.Mutex
	cancels    []chan struct{}
	consumerWg sync.WaitGroup
}

func NewScheduleChangeListener(invalidator MonthInvalidator, cfg *config.Config, logger out.LoggerPort) (*ScheduleChangeListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &ScheduleChangeListener{
		conn:        conn,
		channel:     channel,
		invalidator: invalidator,
		cfg:         cfg,
		logger:      logger,
	}, nil
}

// Start declares the exchange and queue, binds it and starts consuming.
func (l *ScheduleChangeListener) Start(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	exchangeName := l.cfg.RabbitMQ.Exchange
	queueName := l.cfg.RabbitMQ.Queue

	err := l.retry("exchange_declare", out.LogFields{"exchange": exchangeName}, func() error {
		return l.channel.ExchangeDeclare(
			exchangeName,
			"topic",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		)
	})
	if err != nil {
		return err
	}

	var queue amqp.Queue
	err = l.retry("queue_declare", out.LogFields{"queue": queueName}, func() error {
		var declareErr error
		queue, declareErr = l.channel.QueueDeclare(
			queueName,
			true,  // durable
			true,  // delete when unused
			false, // exclusive
			false, // no-wait
			nil,
		)
		return declareErr
	})
	if err != nil {
		return err
	}

	for _, bindingKey := range bindingKeys {
		bindingKey := bindingKey
		err = l.retry("queue_bind", out.LogFields{"queue": queue.Name, "binding": bindingKey}, func() error {
			return l.channel.QueueBind(queue.Name, bindingKey, exchangeName, false, nil)
		})
		if err != nil {
			return err
		}
	}

	var msgs <-chan amqp.Delivery
	consumerID := fmt.Sprintf("consumer-%s-%d", queue.Name, time.Now().UnixNano())
	err = l.retry("consume", out.LogFields{"queue": queue.Name, "consumerId": consumerID}, func() error {
		var consumeErr error
		msgs, consumeErr = l.channel.Consume(
			queue.Name,
			consumerID,
			false, // auto-ack
			false, // exclusive
			false, // no-local
			false, // no-wait
			nil,
		)
		return consumeErr
	})
	if err != nil {
		return err
	}

	cancel := make(chan struct{})
	l.mu.Lock()
	l.cancels = append(l.cancels, cancel)
	l.mu.Unlock()

	l.consumerWg.Add(1)
	go l.consume(ctx, queue.Name, consumerID, msgs, cancel)

	l.logger.Info("rabbitmq.queue.started", out.LogFields{
		"queue":    queue.Name,
		"bindings": bindingKeys,
		"exchange": exchangeName,
	})

	return nil
}

func (l *ScheduleChangeListener) consume(ctx context.Context, queueName, consumerID string, msgs <-chan amqp.Delivery, cancel <-chan struct{}) {
	defer l.consumerWg.Done()

	logger := l.logger.WithFields(out.LogFields{
		"queue":      queueName,
		"consumerId": consumerID,
	})
	logger.Info("rabbitmq.consumer.started", nil)

	for {
		select {
		case <-ctx.Done():
			logger.Info("rabbitmq.consumer.stopping_by_context", nil)
			return
		case <-cancel:
			logger.Info("rabbitmq.consumer.stopping_by_cancel", nil)
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Warn("rabbitmq.consumer.channel_closed", nil)
				return
			}

			logger.Debug("rabbitmq.message.received", out.LogFields{
				"routingKey": msg.RoutingKey,
				"messageId":  msg.MessageId,
			})

			if err := l.handleMessage(ctx, msg.RoutingKey, msg.Body); err != nil {
				logger.Error("rabbitmq.process_message.failed", out.LogFields{
					"routingKey": msg.RoutingKey,
					"messageId":  msg.MessageId,
					"error":      err.Error(),
				})
				if err := msg.Nack(false, false); err != nil {
					logger.Error("rabbitmq.message.nack_failed", out.LogFields{
						"error": err.Error(),
					})
				}
				continue
			}

			if err := msg.Ack(false); err != nil {
				logger.Error("rabbitmq.message.ack_failed", out.LogFields{
					"error": err.Error(),
				})
			}
		}
	}
}

// Stop cancels the consumers, waits for them and closes the connection.
func (l *ScheduleChangeListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	l.mu.Lock()
	for _, cancel := range l.cancels {
		close(cancel)
	}
	l.cancels = nil
	l.mu.Unlock()

	l.consumerWg.Wait()

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}

func (l *ScheduleChangeListener) retry(step string, fields out.LogFields, fn func() error) error {
	var err error
	for attempt := 1; attempt <= setupAttempts; attempt++ {
		if err = fn(); err == nil {
			l.logger.Info("rabbitmq."+step+".success", fields)
			return nil
		}

		l.logger.Warn("rabbitmq."+step+".retry", out.LogFields{
			"attempt": attempt,
			"details": fields,
			"error":   err.Error(),
		})

		if attempt < setupAttempts {
			time.Sleep(setupPause)
		}
	}

	return fmt.Errorf("rabbitmq.%s.failed: %w", step, err)
}
