package booking

import (
	"net/http"

	"homeserve/infras/otel"
	"homeserve/internal/domains/booking/model"
	"homeserve/internal/domains/booking/model/dto"
	"homeserve/internal/domains/booking/service"
	"homeserve/shared"
	"homeserve/shared/constant"
	gDto "homeserve/shared/dto"
	"homeserve/shared/failure"
	"homeserve/shared/validator"
	"homeserve/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var sortableFields = []string{
	constant.FieldCreatedAt, model.FieldBookingDate, model.FieldBookingTime, model.FieldStatus,
}

type Handler struct {
	service service.Booking
	otel    otel.Otel
}

func New(service service.Booking, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/mybookings", handler.GetMyBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}/status", handler.UpdateBookingStatus)
	})
}

// logFailure logs only what the caller cannot fix: business rejections are expected traffic.
func logFailure(err error, msg string) {
	if failure.GetCode(err) >= http.StatusInternalServerError {
		log.Error().Err(err).Msg(msg)

		return
	}

	log.Debug().Err(err).Msg(msg)
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a booking
// @Description Book a service slot. Without provider_id a provider is assigned automatically.
// @Tags Booking
// @Accept json
// @Produce json
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.CreateBookingResponse] "Booking created"
// @Failure 400 {object} response.Error "InvalidInput or InvalidProvider"
// @Failure 409 {object} response.Error "NoProviders, AllBusy or SlotTaken"
// @Failure 422 {object} response.Error "OutsideWorkingHours"
// @Failure 500 {object} response.Error
// @Router /v1/bookings [post]
// @Security BearerAuth
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	req := dto.CreateBookingRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		logFailure(err, "failed to validate request body")

		response.WithError(writer, err)

		return
	}

	res, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		logFailure(err, "failed to create booking")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Booking created")

	response.WithJSON(writer, http.StatusCreated, res)
}

// GetMyBookings retrieves the bookings of the authenticated user.
// @Summary Get my bookings
// @Description Customers get the bookings they made, providers the bookings assigned to them, admins every booking.
// @Tags Booking
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status"
// @Param date query string false "Filter by booking date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetBookingsResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/mybookings [get]
// @Security BearerAuth
func (handler *Handler) GetMyBookings(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	if queryParams.SortBy == "" {
		queryParams.SortBy, queryParams.SortDir = constant.DefaultValueSortBy, constant.DefaultValueSortDir
	}

	if !queryParams.SortableBy(sortableFields...) {
		err := failure.InvalidInput("invalid sort_by parameter")
		response.WithError(w, err)

		return
	}

	req := dto.ListBookingsRequest{
		Status: r.URL.Query().Get(constant.RequestParamStatus),
		Date:   r.URL.Query().Get(constant.RequestParamDate),
	}

	bookings, err := handler.service.List(ctx, queryParams, req)
	if err != nil {
		scope.TraceError(err)
		logFailure(err, "failed to get user bookings")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, bookings)
}

// GetBookingByID retrieves a booking by its ID.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param id path int true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBookingByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	booking, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		logFailure(err, "failed to get booking by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, booking)
}

// UpdateBookingStatus moves a booking through its lifecycle.
// @Summary Update booking status
// @Description Customers may cancel. Providers may confirm, reject, cancel, start and complete.
// @Tags Booking
// @Accept json
// @Produce json
// @Param id path int true "Booking ID"
// @Param request body dto.UpdateStatusRequest true "New status"
// @Success 200 {object} response.Data[dto.BookingResponse] "Updated booking"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/bookings/{id}/status [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBookingStatus")
	defer scope.End()

	id, err := shared.ParseID(chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		response.WithError(w, err)

		return
	}

	req := dto.UpdateStatusRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		logFailure(err, "failed to validate request body")

		response.WithError(w, err)

		return
	}

	booking, err := handler.service.UpdateStatus(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		logFailure(err, "failed to update booking status")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Booking status updated to " + booking.Status)

	response.WithJSON(w, http.StatusOK, booking)
}
