package router

import (
	"context"
	"net/http"
	"time"

	"homeserve/config"
	"homeserve/infras/metrics"
	"homeserve/infras/postgres"
	"homeserve/internal/handlers/booking"
	"homeserve/internal/handlers/schedule"
	"homeserve/internal/handlers/slot"
	"homeserve/shared/constant"
	"homeserve/transport/http/middleware"
	"homeserve/transport/http/response"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "homeserve/docs" // registers the swagger document
)

const healthTimeout = 2 * time.Second

type DomainHandlers struct {
	Booking  booking.Handler
	Slot     slot.Handler
	Schedule schedule.Handler
}

// Dependencies are the collaborators of the non-domain routes.
type Dependencies struct {
	Config   *config.Config
	App      middleware.AppMiddleware
	AuthRole middleware.AuthRole
	Registry *prometheus.Registry
	DB       *postgres.Connection
	Redis    *goRedis.Client
}

type Router struct {
	DomainHandlers DomainHandlers
	Dependencies   Dependencies
}

func (r *Router) SetupRoutes(router chi.Router) {
	deps := r.Dependencies

	router.Use(chiMiddleware.RequestID, chiMiddleware.RealIP, chiMiddleware.Recoverer)

	if cfg := deps.Config.App.CORS; cfg.Enable {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   cfg.AllowedMethods,
			AllowedHeaders:   cfg.AllowedHeaders,
			AllowCredentials: cfg.AllowCredentials,
			MaxAge:           cfg.MaxAgeSeconds,
		}))
	}

	router.Get("/healthz", r.health)
	router.Handle("/metrics", metrics.Handler(deps.Registry))
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Route("/v1", func(routerGroup chi.Router) {
		routerGroup.Use(deps.App.Tracing, deps.App.RateLimit(), deps.AuthRole.APIKey, deps.AuthRole.Auth, deps.AuthRole.RBAC)

		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Slot.Router(routerGroup)
		r.DomainHandlers.Schedule.Router(routerGroup)
	})
}

func (r *Router) health(w http.ResponseWriter, req *http.Request) {
	ctx, cancel := context.WithTimeout(req.Context(), healthTimeout)
	defer cancel()

	if err := r.Dependencies.DB.Ping(ctx); err != nil {
		log.Error().Err(err).Msg("health check: database unreachable")
		response.WithUnhealthy(w)

		return
	}

	if err := r.Dependencies.Redis.Ping(ctx).Err(); err != nil {
		log.Error().Err(err).Msg("health check: redis unreachable")
		response.WithUnhealthy(w)

		return
	}

	response.WithMessage(w, http.StatusOK, constant.ResponseHealthy)
}

func New(domainHandlers DomainHandlers, dependencies Dependencies) Router {
	return Router{
		DomainHandlers: domainHandlers,
		Dependencies:   dependencies,
	}
}
