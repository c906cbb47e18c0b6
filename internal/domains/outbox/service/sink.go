package service

import (
	"context"
	"fmt"
	"strconv"

	"homeserve/config"
	"homeserve/infras/kafka"
	notificationService "homeserve/internal/domains/notification/service"
	"homeserve/internal/domains/outbox/model"
)

// Sink receives every outbox event. Deliver must be safe to repeat for the same event.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, event model.Event) error
}

const kafkaSinkName = "kafka"

type kafkaSink struct {
	client kafka.Client
	topic  string
}

// NewKafkaSink publishes events keyed by booking id so one booking's events stay ordered.
func NewKafkaSink(client kafka.Client, topic string) Sink {
	return &kafkaSink{client: client, topic: topic}
}

func (s *kafkaSink) Name() string {
	return kafkaSinkName
}

func (s *kafkaSink) Deliver(ctx context.Context, event model.Event) error {
	message := kafka.Message{
		Key: strconv.FormatInt(event.AggregateID, 10),
		Value: map[string]any{
			"event_id": event.ID.String(),
			"type":     event.Type,
			"payload":  event.Payload,
		},
	}

	if err := s.client.SendMessages(ctx, s.topic, message); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	return nil
}

// NewSinks always includes in-app notifications; kafka is added when a client and topic are configured.
func NewSinks(notifications *notificationService.Notification, client kafka.Client, cfg *config.Config) []Sink {
	sinks := []Sink{notifications}

	if client != nil && cfg.Kafka.NotificationTopic != "" {
		sinks = append(sinks, NewKafkaSink(client, cfg.Kafka.NotificationTopic))
	}

	return sinks
}
