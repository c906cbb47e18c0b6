package dto

import (
	"homeserve/internal/domains/booking/model"
	"homeserve/shared"
	gDto "homeserve/shared/dto"
	"homeserve/shared/timeslot"
)

type CreateBookingRequest struct {
	ServiceID     int64    `json:"service_id"     validate:"required,gt=0"`
	ProviderID    *int64   `json:"provider_id"    validate:"omitempty,gt=0"`
	BookingDate   string   `json:"booking_date"   validate:"required,date"`
	BookingTime   string   `json:"booking_time"   validate:"required,clock"`
	DurationHours *float64 `json:"duration_hours" validate:"omitempty,gt=0,lte=24"`
	Address       string   `json:"address"        validate:"required,max=500"`
	TotalAmount   float64  `json:"total_amount"   validate:"required,gt=0"`
	Description   string   `json:"description"    validate:"omitempty,max=2000"`
}

type CreateBookingResponse struct {
	BookingID  int64  `json:"booking_id"`
	Status     string `json:"status"`
	ProviderID int64  `json:"provider_id"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=confirmed rejected cancelled in_progress completed"`
}

// ListBookingsRequest narrows the caller's own bookings. Empty fields are ignored.
type ListBookingsRequest struct {
	Status string
	Date   string
}

type BookingResponse struct {
	ID            int64    `json:"id"`
	CustomerID    int64    `json:"customer_id"`
	ProviderID    int64    `json:"provider_id"`
	ServiceID     int64    `json:"service_id"`
	BookingDate   string   `json:"booking_date"`
	BookingTime   string   `json:"booking_time"`
	DurationHours *float64 `json:"duration_hours,omitempty"`
	Status        string   `json:"status"`
	TotalAmount   float64  `json:"total_amount"`
	Address       string   `json:"address"`
	Description   string   `json:"description,omitempty"`
	PaymentStatus string   `json:"payment_status"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.CustomerID = model.CustomerID
	r.ProviderID = model.ProviderID
	r.ServiceID = model.ServiceID
	r.BookingDate = model.BookingDate.Format(timeslot.DateLayout)
	r.BookingTime = model.BookingTime.String()
	r.DurationHours = model.DurationHours
	r.Status = model.Status
	r.TotalAmount = model.TotalAmount
	r.Address = model.Address
	r.Description = model.Description.String
	r.PaymentStatus = model.PaymentStatus
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
