package events

import (
	"context"

	"careslot/pkg/config"
	"careslot/pkg/kafka"
	kafka_middleware "careslot/pkg/kafka/middleware"
	"careslot/pkg/logger"
	"careslot/pkg/model"
)

const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"

	sourceService = "bookings"
)

// Notifier publishes booking lifecycle events. Publishing is best effort:
// the booking write has already committed, so callers log failures and
// move on rather than failing the request.
type Notifier interface {
	BookingCreated(ctx context.Context, booking *model.Booking)
	BookingCancelled(ctx context.Context, booking *model.Booking)
	Close() error
}

type kafkaNotifier struct {
	producer *kafka.Producer
	log      *logger.Logger
}

// NewNotifier returns a Kafka-backed notifier, or a noop one when no
// brokers are configured.
func NewNotifier(cfg *config.Config, log *logger.Logger) (Notifier, error) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Info("kafka brokers not configured, booking events disabled")
		return &noopNotifier{}, nil
	}

	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaBookingTopic, cfg.KafkaDLQTopic)
	if err != nil {
		return nil, err
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(log))

	return &kafkaNotifier{producer: producer, log: log}, nil
}

func (n *kafkaNotifier) BookingCreated(ctx context.Context, booking *model.Booking) {
	n.publish(ctx, EventBookingCreated, booking)
}

func (n *kafkaNotifier) BookingCancelled(ctx context.Context, booking *model.Booking) {
	n.publish(ctx, EventBookingCancelled, booking)
}

func (n *kafkaNotifier) publish(ctx context.Context, eventType string, booking *model.Booking) {
	msg := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(booking).
		WithEventType(eventType).
		WithSource(sourceService).
		Build()

	if err := n.producer.Publish(ctx, msg); err != nil {
		n.log.Error("failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (n *kafkaNotifier) Close() error {
	return n.producer.Close()
}

type noopNotifier struct{}

func (noopNotifier) BookingCreated(context.Context, *model.Booking)   {}
func (noopNotifier) BookingCancelled(context.Context, *model.Booking) {}
func (noopNotifier) Close() error                                     { return nil }
