//go:build wireinject
// +build wireinject

package di

import (
	"homeserve/config"
	"homeserve/infras/jwt"
	"homeserve/infras/kafka"
	"homeserve/infras/metrics"
	"homeserve/infras/otel"
	"homeserve/infras/postgres"
	"homeserve/infras/redis"
	"homeserve/permissions"
	"homeserve/shared/cache"
	"homeserve/shared/random"
	"homeserve/transport/http"
	"homeserve/transport/http/middleware"
	"homeserve/transport/http/router"

	availabilityService "homeserve/internal/domains/availability/service"
	bookingRepository "homeserve/internal/domains/booking/repository"
	bookingService "homeserve/internal/domains/booking/service"
	catalogRepository "homeserve/internal/domains/catalog/repository"
	notificationRepository "homeserve/internal/domains/notification/repository"
	notificationService "homeserve/internal/domains/notification/service"
	outboxRepository "homeserve/internal/domains/outbox/repository"
	outboxService "homeserve/internal/domains/outbox/service"
	providerRepository "homeserve/internal/domains/provider/repository"
	scheduleRepository "homeserve/internal/domains/schedule/repository"
	scheduleService "homeserve/internal/domains/schedule/service"
	bookingHandler "homeserve/internal/handlers/booking"
	scheduleHandler "homeserve/internal/handlers/schedule"
	slotHandler "homeserve/internal/handlers/slot"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
	metrics.NewRegistry,
	wire.Bind(new(prometheus.Registerer), new(*prometheus.Registry)),
	metrics.NewBookingMetrics,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
	random.NewFromConfig,
)

var repositories = wire.NewSet(
	bookingRepository.New,
	catalogRepository.New,
	providerRepository.New,
	scheduleRepository.New,
	outboxRepository.New,
	notificationRepository.New,
)

var domains = wire.NewSet(
	bookingService.New,
	availabilityService.New,
	scheduleService.New,
	notificationService.New,
	outboxService.NewSinks,
	outboxService.NewRelay,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	wire.Struct(new(router.Dependencies), "*"),
	bookingHandler.New,
	slotHandler.New,
	scheduleHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		repositories,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
