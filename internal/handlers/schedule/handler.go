package schedule

import (
	"net/http"

	"homeserve/infras/otel"
	"homeserve/internal/domains/schedule/model/dto"
	"homeserve/internal/domains/schedule/service"
	"homeserve/shared"
	"homeserve/shared/constant"
	"homeserve/shared/failure"
	"homeserve/shared/validator"
	"homeserve/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Schedule
	otel    otel.Otel
}

func New(service service.Schedule, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/providers/{id}/schedule", handler.GetSchedule)
	router.Put("/providers/{id}/schedule", handler.UpdateSchedule)
}

// GetSchedule returns the weekly schedule of a provider.
// @Summary Get provider schedule
// @Description Seven days from Monday. Days without a stored row show the default 09:00 to 17:00 window.
// @Tags Schedule
// @Produce json
// @Param id path int true "Provider ID"
// @Success 200 {object} response.Data[dto.WeekResponse] "Weekly schedule"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/providers/{id}/schedule [get]
// @Security BearerAuth
func (handler *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSchedule")
	defer scope.End()

	providerID, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	week, err := handler.service.Week(ctx, providerID)
	if err != nil {
		scope.TraceError(err)

		if failure.GetCode(err) >= http.StatusInternalServerError {
			log.Error().Err(err).Msg("failed to get schedule")
		}

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, week)
}

// UpdateSchedule stores the working hours of the given days.
// @Summary Update provider schedule
// @Tags Schedule
// @Accept json
// @Produce json
// @Param id path int true "Provider ID"
// @Param request body dto.UpdateScheduleRequest true "Schedule"
// @Success 200 {object} response.Message "Schedule updated successfully"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/providers/{id}/schedule [put]
// @Security BearerAuth
func (handler *Handler) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateSchedule")
	defer scope.End()

	providerID, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateScheduleRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	if err := handler.service.UpdateWeek(ctx, providerID, req); err != nil {
		scope.TraceError(err)

		if failure.GetCode(err) >= http.StatusInternalServerError {
			log.Error().Err(err).Msg("failed to update schedule")
		}

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Schedule updated")

	response.WithMessage(w, http.StatusOK, "Schedule updated successfully")
}
