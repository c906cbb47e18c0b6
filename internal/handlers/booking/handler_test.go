package booking_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homeserve/infras/otel/mocks"
	"homeserve/internal/domains/booking/model/dto"
	"homeserve/internal/handlers/booking"
	gDto "homeserve/shared/dto"
	"homeserve/shared/failure"
)

type fakeService struct {
	create       func(req dto.CreateBookingRequest) (dto.CreateBookingResponse, error)
	updateStatus func(id int64, req dto.UpdateStatusRequest) (dto.BookingResponse, error)
	list         func(params gDto.QueryParams, req dto.ListBookingsRequest) (dto.GetBookingsResponse, error)
}

func (f *fakeService) Create(_ context.Context, req dto.CreateBookingRequest) (dto.CreateBookingResponse, error) {
	return f.create(req)
}

func (f *fakeService) UpdateStatus(_ context.Context, id int64, req dto.UpdateStatusRequest) (dto.BookingResponse, error) {
	return f.updateStatus(id, req)
}

func (f *fakeService) Get(_ context.Context, id int64) (dto.BookingResponse, error) {
	return dto.BookingResponse{ID: id}, nil
}

func (f *fakeService) List(_ context.Context, params gDto.QueryParams, req dto.ListBookingsRequest) (dto.GetBookingsResponse, error) {
	return f.list(params, req)
}

func serve(svc *fakeService, method, target, body string) *httptest.ResponseRecorder {
	handler := booking.New(svc, mocks.NewOtel())
	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(method, target, strings.NewReader(body)))

	return rec
}

type errorBody struct {
	Error     string `json:"error"`
	ErrorKind string `json:"error_kind"`
}

const validBody = `{"service_id":1,"booking_date":"2025-06-02","booking_time":"11:00","address":"Jakarta","total_amount":150}`

func TestHandler_CreateBooking(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		result   error
		wantCode int
		wantKind string
	}{
		{name: "created", body: validBody, wantCode: http.StatusCreated},
		{name: "malformed time", body: strings.Replace(validBody, "11:00", "11am", 1), wantCode: http.StatusBadRequest, wantKind: "InvalidInput"},
		{name: "missing address", body: strings.Replace(validBody, `"address":"Jakarta",`, "", 1), wantCode: http.StatusBadRequest, wantKind: "InvalidInput"},
		{name: "slot taken", body: validBody, result: failure.SlotTaken("time slot already booked"), wantCode: http.StatusConflict, wantKind: "SlotTaken"},
		{name: "outside hours", body: validBody, result: failure.OutsideWorkingHours("closed"), wantCode: http.StatusUnprocessableEntity, wantKind: "OutsideWorkingHours"},
		{name: "internal", body: validBody, result: assert.AnError, wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{create: func(req dto.CreateBookingRequest) (dto.CreateBookingResponse, error) {
				if tt.result != nil {
					return dto.CreateBookingResponse{}, tt.result
				}

				return dto.CreateBookingResponse{BookingID: 101, Status: "pending", ProviderID: 7}, nil
			}}

			rec := serve(svc, http.MethodPost, "/v1/bookings/", tt.body)
			require.Equal(t, tt.wantCode, rec.Code)

			if tt.wantCode == http.StatusCreated {
				var body struct {
					Data dto.CreateBookingResponse `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, dto.CreateBookingResponse{BookingID: 101, Status: "pending", ProviderID: 7}, body.Data)

				return
			}

			var body errorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKind, body.ErrorKind)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestHandler_UpdateBookingStatus(t *testing.T) {
	svc := &fakeService{updateStatus: func(id int64, req dto.UpdateStatusRequest) (dto.BookingResponse, error) {
		return dto.BookingResponse{ID: id, Status: req.Status}, nil
	}}

	rec := serve(svc, http.MethodPatch, "/v1/bookings/9/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"confirmed"`)

	rec = serve(svc, http.MethodPatch, "/v1/bookings/9/status", `{"status":"paid"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(svc, http.MethodPatch, "/v1/bookings/abc/status", `{"status":"confirmed"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetMyBookings(t *testing.T) {
	svc := &fakeService{list: func(params gDto.QueryParams, req dto.ListBookingsRequest) (dto.GetBookingsResponse, error) {
		assert.Equal(t, 2, params.Page)
		assert.Equal(t, "created_at", params.SortBy)
		assert.Equal(t, gDto.SortDirDesc, params.SortDir)
		assert.Equal(t, "pending", req.Status)
		assert.Equal(t, "2025-06-02", req.Date)

		return dto.GetBookingsResponse{Bookings: []dto.BookingResponse{}, TotalPage: 1}, nil
	}}

	rec := serve(svc, http.MethodGet, "/v1/bookings/mybookings?page=2&status=pending&date=2025-06-02", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(svc, http.MethodGet, "/v1/bookings/mybookings?sort_by=password", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
