package service

import (
	"context"
	"fmt"

	"homeserve/infras/otel"
	providerModel "homeserve/internal/domains/provider/model"
	providerRepo "homeserve/internal/domains/provider/repository"
	"homeserve/internal/domains/schedule/model/dto"
	"homeserve/internal/domains/schedule/repository"
	"homeserve/shared"
	"homeserve/shared/cache"
	"homeserve/shared/constant"
	"homeserve/shared/failure"

	"github.com/rs/zerolog/log"
)

type Schedule interface {
	Week(ctx context.Context, providerID int64) (dto.WeekResponse, error)
	UpdateWeek(ctx context.Context, providerID int64, req dto.UpdateScheduleRequest) error
}

type serviceImpl struct {
	repo         repository.Schedule
	providerRepo providerRepo.Provider
	cache        cache.RedisCache
	otel         otel.Otel
}

func New(repo repository.Schedule, providerRepo providerRepo.Provider, cache cache.RedisCache, otel otel.Otel) Schedule {
	return &serviceImpl{
		repo:         repo,
		providerRepo: providerRepo,
		cache:        cache,
		otel:         otel,
	}
}

func (s *serviceImpl) provider(ctx context.Context, providerID int64) (providerModel.Provider, error) {
	provider, err := s.providerRepo.Get(ctx, providerID)
	if err != nil {
		log.Error().Err(err).Int64("provider_id", providerID).Msg("failed to get provider")

		return provider, fmt.Errorf("failed to get provider: %w", err)
	}

	if provider.ID == 0 {
		return provider, failure.NotFound("provider not found") // nolint:wrapcheck
	}

	return provider, nil
}

func (s *serviceImpl) Week(ctx context.Context, providerID int64) (res dto.WeekResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".schedule.Week")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if _, err = s.provider(ctx, providerID); err != nil {
		return res, err
	}

	week, err := s.repo.Week(ctx, providerID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get week schedule")

		return res, fmt.Errorf("failed to get week schedule: %w", err)
	}

	res.FromModels(providerID, week)

	return res, nil
}

// UpdateWeek is allowed for the provider's owning user and admins.
func (s *serviceImpl) UpdateWeek(ctx context.Context, providerID int64, req dto.UpdateScheduleRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".schedule.UpdateWeek")
	defer scope.End()
	defer scope.TraceIfError(&err)

	provider, err := s.provider(ctx, providerID)
	if err != nil {
		return err
	}

	userID, role := shared.ActorFromContext(ctx)
	if role != constant.RoleAdmin && provider.UserID != userID {
		return failure.Forbidden("only the provider can change this schedule") // nolint:wrapcheck
	}

	days, err := req.ToModels(providerID)
	if err != nil {
		return failure.BadRequest(err) // nolint:wrapcheck
	}

	if err = s.repo.UpsertWeek(ctx, providerID, days); err != nil {
		log.Error().Err(err).Msg("failed to update schedule")

		return fmt.Errorf("failed to update schedule: %w", err)
	}

	go shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, constant.CacheKeySlots)

	return nil
}
