package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"homeserve/infras/otel"
	"homeserve/internal/domains/notification/model"
	"homeserve/internal/domains/notification/repository"
	outboxModel "homeserve/internal/domains/outbox/model"
	"homeserve/shared/constant"

	"github.com/rs/zerolog/log"
)

const SinkName = "notifications"

// Notification turns outbox events into in-app notifications for the recipient.
type Notification struct {
	repo repository.Notification
	otel otel.Otel
}

func New(repo repository.Notification, otel otel.Otel) *Notification {
	return &Notification{
		repo: repo,
		otel: otel,
	}
}

func (s *Notification) Name() string {
	return SinkName
}

func (s *Notification) Deliver(ctx context.Context, event outboxModel.Event) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".notification.Deliver")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if event.Payload.RecipientID == 0 {
		log.Warn().Str("event_id", event.ID.String()).Msg("outbox event has no recipient, skipping notification")

		return nil
	}

	notification := model.Notification{
		EventID:   event.ID,
		UserID:    event.Payload.RecipientID,
		Type:      event.Type,
		Message:   event.Payload.Message,
		RelatedID: sql.NullInt64{Int64: event.AggregateID, Valid: event.AggregateID != 0},
		CreatedAt: time.Now(),
	}

	if err = s.repo.Insert(ctx, notification); err != nil {
		return fmt.Errorf("failed to deliver %s notification: %w", event.Type, err)
	}

	return nil
}
