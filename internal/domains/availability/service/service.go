package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homeserve/config"
	"homeserve/infras/metrics"
	"homeserve/infras/otel"
	"homeserve/internal/domains/availability/model/dto"
	bookingModel "homeserve/internal/domains/booking/model"
	bookingRepo "homeserve/internal/domains/booking/repository"
	providerModel "homeserve/internal/domains/provider/model"
	providerRepo "homeserve/internal/domains/provider/repository"
	scheduleRepo "homeserve/internal/domains/schedule/repository"
	"homeserve/shared"
	"homeserve/shared/cache"
	"homeserve/shared/constant"
	"homeserve/shared/failure"
	"homeserve/shared/timeslot"

	"github.com/rs/zerolog/log"
)

const slotLength = time.Hour

type Availability interface {
	// ListOpenSlots returns the "HH:MM" grid slots, ascending, that at least one eligible provider can take.
	ListOpenSlots(ctx context.Context, req dto.SlotsRequest) (dto.SlotsResponse, error)
}

type serviceImpl struct {
	providerRepo providerRepo.Provider
	scheduleRepo scheduleRepo.Schedule
	bookingRepo  bookingRepo.Booking
	cache        cache.RedisCache
	metrics      *metrics.BookingMetrics
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	providerRepo providerRepo.Provider,
	scheduleRepo scheduleRepo.Schedule,
	bookingRepo bookingRepo.Booking,
	cache cache.RedisCache,
	bookingMetrics *metrics.BookingMetrics,
	cfg *config.Config,
	otel otel.Otel,
) Availability {
	return &serviceImpl{
		providerRepo: providerRepo,
		scheduleRepo: scheduleRepo,
		bookingRepo:  bookingRepo,
		cache:        cache,
		metrics:      bookingMetrics,
		cfg:          cfg,
		otel:         otel,
	}
}

func (s *serviceImpl) ListOpenSlots(ctx context.Context, req dto.SlotsRequest) (res dto.SlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.ListOpenSlots")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if req.ServiceID <= 0 && req.ProviderID <= 0 {
		return res, failure.InvalidInput("service_id or provider_id is required") // nolint:wrapcheck
	}

	date, err := timeslot.ParseDate(req.Date)
	if err != nil {
		return res, failure.InvalidInput(err.Error()) // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(constant.CacheKeySlots, req.ServiceID, req.ProviderID, date.Format(timeslot.DateLayout))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		s.metrics.ObserveSlotLookup(true)

		return res, nil
	}

	if !errors.Is(err, cache.Nil) {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to read slots cache")
	}

	s.metrics.ObserveSlotLookup(false)

	providers, err := s.eligible(ctx, req)
	if err != nil {
		return res, err
	}

	res.Slots, err = s.openSlots(ctx, providers, date)
	if err != nil {
		return res, err
	}

	if err := s.cache.Save(ctx, cacheKey, res, s.cfg.Cache.TTL); err != nil {
		log.Warn().Err(err).Str("key", cacheKey).Msg("failed to cache slots")
	}

	return res, nil
}

// eligible returns the providers the slots are computed for. An unknown provider or a provider that
// does not offer the service yields none.
func (s *serviceImpl) eligible(ctx context.Context, req dto.SlotsRequest) ([]providerModel.Provider, error) {
	if req.ProviderID > 0 {
		provider, err := s.providerRepo.Get(ctx, req.ProviderID)
		if err != nil {
			return nil, fmt.Errorf("failed to get provider: %w", err)
		}

		if provider.ID == 0 || (req.ServiceID > 0 && !provider.Offers(req.ServiceID)) {
			return nil, nil
		}

		return []providerModel.Provider{provider}, nil
	}

	providers, err := s.providerRepo.ListByService(ctx, req.ServiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list providers: %w", err)
	}

	return providers, nil
}

func (s *serviceImpl) openSlots(ctx context.Context, providers []providerModel.Provider, date time.Time) ([]string, error) {
	grid := timeslot.HourGrid(s.cfg.BusinessHours())
	open := make([]bool, len(grid))

	for _, provider := range providers {
		schedule, err := s.scheduleRepo.DaySchedule(ctx, provider.ID, date.Weekday())
		if err != nil {
			return nil, fmt.Errorf("failed to get schedule: %w", err)
		}

		if !schedule.IsActive {
			continue
		}

		bookings, err := s.bookingRepo.ListActive(ctx, provider.ID, date)
		if err != nil {
			return nil, fmt.Errorf("failed to list bookings: %w", err)
		}

		for i, slot := range grid {
			if !open[i] && schedule.Admits(slot, slotLength) && !startsAt(bookings, slot) {
				open[i] = true
			}
		}
	}

	slots := make([]string, 0, len(grid))

	for i, slot := range grid {
		if open[i] {
			slots = append(slots, slot.String())
		}
	}

	return slots, nil
}

func startsAt(bookings []bookingModel.Booking, slot timeslot.Clock) bool {
	for _, booking := range bookings {
		if timeslot.SameStart(booking.BookingTime, slot) {
			return true
		}
	}

	return false
}
