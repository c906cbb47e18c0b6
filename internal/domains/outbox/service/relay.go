package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"homeserve/config"
	"homeserve/infras/metrics"
	"homeserve/infras/otel"
	"homeserve/internal/domains/outbox/model"
	"homeserve/internal/domains/outbox/repository"
	"homeserve/shared/constant"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const (
	deliveryOK     = "delivered"
	deliveryFailed = "failed"
)

// Relay delivers committed outbox events to every sink on a cron schedule.
type Relay interface {
	Start() error
	Stop(ctx context.Context)
	// Drain delivers one batch and returns how many events were fully delivered.
	Drain(ctx context.Context) (int, error)
}

type relayImpl struct {
	repo        repository.Outbox
	sinks       []Sink
	metrics     *metrics.BookingMetrics
	otel        otel.Otel
	schedule    string
	batchSize   int
	maxAttempts int

	mu   sync.Mutex
	cron *cron.Cron
}

func NewRelay(repo repository.Outbox, sinks []Sink, bookingMetrics *metrics.BookingMetrics, cfg *config.Config, otel otel.Otel) Relay {
	return &relayImpl{
		repo:        repo,
		sinks:       sinks,
		metrics:     bookingMetrics,
		otel:        otel,
		schedule:    cfg.OutboxSchedule(),
		batchSize:   cfg.OutboxBatchSize(),
		maxAttempts: cfg.OutboxMaxAttempts(),
	}
}

func (r *relayImpl) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cron != nil {
		return nil
	}

	scheduler := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := scheduler.AddFunc(r.schedule, func() {
		if _, err := r.Drain(context.Background()); err != nil {
			log.Error().Err(err).Msg("outbox relay tick failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid outbox schedule %q: %w", r.schedule, err)
	}

	scheduler.Start()
	r.cron = scheduler

	log.Info().Str("schedule", r.schedule).Int("sinks", len(r.sinks)).Msg("outbox relay started")

	return nil
}

// Stop waits for a running tick to finish or ctx to expire.
func (r *relayImpl) Stop(ctx context.Context) {
	r.mu.Lock()
	scheduler := r.cron
	r.cron = nil
	r.mu.Unlock()

	if scheduler == nil {
		return
	}

	select {
	case <-scheduler.Stop().Done():
		log.Info().Msg("outbox relay stopped")
	case <-ctx.Done():
		log.Warn().Msg("outbox relay stop timed out")
	}
}

func (r *relayImpl) Drain(ctx context.Context) (delivered int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".outbox.Drain")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if backlog, err := r.repo.CountPending(ctx); err == nil {
		r.metrics.SetOutboxBacklog(backlog)
	}

	events, err := r.repo.FetchPending(ctx, r.batchSize, r.maxAttempts)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch outbox events: %w", err)
	}

	for _, event := range events {
		if err := r.deliver(ctx, event); err != nil {
			log.Error().Err(err).Str("event_id", event.ID.String()).Str("type", event.Type).Msg("outbox delivery failed")

			if markErr := r.repo.MarkFailed(ctx, event.ID, err); markErr != nil {
				log.Error().Err(markErr).Msg("failed to record outbox failure")
			}

			continue
		}

		if err := r.repo.MarkDelivered(ctx, event.ID); err != nil {
			log.Error().Err(err).Str("event_id", event.ID.String()).Msg("failed to mark outbox event delivered")

			continue
		}

		delivered++
	}

	if len(events) > 0 {
		log.Debug().Int("fetched", len(events)).Int("delivered", delivered).Msg("outbox batch drained")
	}

	return delivered, nil
}

// deliver tries every sink so one failing transport does not starve the others.
func (r *relayImpl) deliver(ctx context.Context, event model.Event) error {
	var errs []error

	for _, sink := range r.sinks {
		if err := sink.Deliver(ctx, event); err != nil {
			r.metrics.ObserveDelivery(sink.Name(), deliveryFailed)
			errs = append(errs, fmt.Errorf("%s: %w", sink.Name(), err))

			continue
		}

		r.metrics.ObserveDelivery(sink.Name(), deliveryOK)
	}

	return errors.Join(errs...)
}
