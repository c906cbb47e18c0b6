package service

import (
	"context"
	"fmt"

	"homeserve/config"
	"homeserve/infras/metrics"
	"homeserve/infras/otel"
	"homeserve/internal/domains/booking/model"
	"homeserve/internal/domains/booking/model/dto"
	"homeserve/internal/domains/booking/repository"
	catalogRepo "homeserve/internal/domains/catalog/repository"
	outboxRepo "homeserve/internal/domains/outbox/repository"
	providerRepo "homeserve/internal/domains/provider/repository"
	scheduleRepo "homeserve/internal/domains/schedule/repository"
	"homeserve/shared"
	"homeserve/shared/cache"
	"homeserve/shared/constant"
	gDto "homeserve/shared/dto"
	"homeserve/shared/failure"
	"homeserve/shared/random"
	"homeserve/shared/timeslot"

	"github.com/rs/zerolog/log"
)

type Booking interface {
	// Create assigns a provider when none is given and commits a pending booking.
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	UpdateStatus(ctx context.Context, id int64, req dto.UpdateStatusRequest) (dto.BookingResponse, error)
	Get(ctx context.Context, id int64) (dto.BookingResponse, error)
	// List returns the bookings of the caller: made by a customer, or assigned to a provider.
	List(ctx context.Context, params gDto.QueryParams, req dto.ListBookingsRequest) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo         repository.Booking
	serviceRepo  catalogRepo.Service
	providerRepo providerRepo.Provider
	scheduleRepo scheduleRepo.Schedule
	outboxRepo   outboxRepo.Outbox
	cache        cache.RedisCache
	random       random.Source
	metrics      *metrics.BookingMetrics
	cfg          *config.Config
	otel         otel.Otel
}

func New(
	repo repository.Booking,
	serviceRepo catalogRepo.Service,
	providerRepo providerRepo.Provider,
	scheduleRepo scheduleRepo.Schedule,
	outboxRepo outboxRepo.Outbox,
	cache cache.RedisCache,
	random random.Source,
	bookingMetrics *metrics.BookingMetrics,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:         repo,
		serviceRepo:  serviceRepo,
		providerRepo: providerRepo,
		scheduleRepo: scheduleRepo,
		outboxRepo:   outboxRepo,
		cache:        cache,
		random:       random,
		metrics:      bookingMetrics,
		cfg:          cfg,
		otel:         otel,
	}
}

func (s *serviceImpl) invalidateSlots(ctx context.Context) {
	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, constant.CacheKeySlots)
}

func (s *serviceImpl) Get(ctx context.Context, id int64) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	userID, role := shared.ActorFromContext(ctx)

	if role != constant.RoleAdmin && booking.CustomerID != userID {
		provider, err := s.providerRepo.Get(ctx, booking.ProviderID)
		if err != nil {
			return res, fmt.Errorf("failed to get provider of booking: %w", err)
		}

		if provider.UserID != userID {
			return res, failure.NotFound("booking not found") // nolint:wrapcheck
		}
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) List(ctx context.Context, params gDto.QueryParams, req dto.ListBookingsRequest) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.List")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter, err := s.ownerFilter(ctx)
	if err != nil {
		return res, err
	}

	if req.Status != "" {
		filter.Add(gDto.Eq(model.TableName, model.FieldStatus, req.Status))
	}

	if req.Date != "" {
		date, err := timeslot.ParseDate(req.Date)
		if err != nil {
			return res, failure.BadRequest(err) // nolint:wrapcheck
		}

		filter.Add(gDto.Eq(model.TableName, model.FieldBookingDate, date.Format(timeslot.DateLayout)))
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

func (s *serviceImpl) ownerFilter(ctx context.Context) (gDto.FilterGroup, error) {
	filter := gDto.All()
	userID, role := shared.ActorFromContext(ctx)

	switch role {
	case constant.RoleAdmin:
	case constant.RoleProvider:
		provider, err := s.providerRepo.GetByUserID(ctx, userID)
		if err != nil {
			return filter, fmt.Errorf("failed to get provider of user: %w", err)
		}

		if provider.ID == 0 {
			return filter, failure.NotFound("provider profile not found") // nolint:wrapcheck
		}

		filter.Add(gDto.Eq(model.TableName, model.FieldProviderID, provider.ID))
	default:
		if userID == 0 {
			return filter, failure.Unauthorized("unauthorized") // nolint:wrapcheck
		}

		filter.Add(gDto.Eq(model.TableName, model.FieldCustomerID, userID))
	}

	return filter, nil
}
