package slot

import (
	"net/http"

	"homeserve/infras/otel"
	"homeserve/internal/domains/availability/model/dto"
	"homeserve/internal/domains/availability/service"
	"homeserve/shared/constant"
	"homeserve/shared/validator"
	"homeserve/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/slots", handler.GetSlots)
}

// GetSlots lists the open hourly slots of a date.
// @Summary List open slots
// @Description Hourly slots from 09:00 to 16:00 that at least one eligible provider can take. An empty list when nobody offers the service.
// @Tags Slot
// @Produce json
// @Param service_id query int false "Service ID"
// @Param provider_id query int false "Provider ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.SlotsResponse] "Open slots"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/slots [get]
func (handler *Handler) GetSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlots")
	defer scope.End()

	req := dto.SlotsRequest{}
	req.FromRequest(r)

	if err := validator.ValidateStruct(&req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	slots, err := handler.service.ListOpenSlots(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to list open slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slots)
}
