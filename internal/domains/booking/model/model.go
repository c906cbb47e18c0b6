package model

import (
	"database/sql"
	"time"

	"homeserve/shared/model"
	"homeserve/shared/timeslot"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID            = "id"
	FieldCustomerID    = "customer_id"
	FieldProviderID    = "provider_id"
	FieldServiceID     = "service_id"
	FieldBookingDate   = "booking_date"
	FieldBookingTime   = "booking_time"
	FieldDurationHours = "duration_hours"
	FieldStatus        = "status"
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"

	// StatusRejected is accepted from providers and stored as cancelled.
	StatusRejected = "rejected"
)

const (
	PaymentStatusUnpaid = "unpaid"
)

// ActiveStatuses occupy provider time. Cancelled bookings never block a slot.
var ActiveStatuses = []string{StatusPending, StatusConfirmed, StatusInProgress, StatusCompleted}

type Booking struct {
	ID               int64          `db:"id"                insert:"-"`
	CustomerID       int64          `db:"customer_id"`
	ProviderID       int64          `db:"provider_id"`
	ServiceID        int64          `db:"service_id"`
	BookingDate      time.Time      `db:"booking_date"`
	BookingTime      timeslot.Clock `db:"booking_time"`
	DurationHours    *float64       `db:"duration_hours"`
	Status           string         `db:"status"`
	TotalAmount      float64        `db:"total_amount"`
	Address          string         `db:"address"`
	Description      sql.NullString `db:"description"`
	PaymentStatus    string         `db:"payment_status"`
	PaymentReference sql.NullString `db:"payment_reference"`
	model.Metadata
}

// Duration applies the one-hour default to bookings stored without a duration.
func (b Booking) Duration() time.Duration {
	return timeslot.EffectiveDuration(b.DurationHours)
}

// Overlaps reports whether the booking occupies any part of [start, start+dur).
func (b Booking) Overlaps(start timeslot.Clock, dur time.Duration) bool {
	return timeslot.Overlaps(b.BookingTime, b.Duration(), start, dur)
}

func IsActive(status string) bool {
	for _, active := range ActiveStatuses {
		if status == active {
			return true
		}
	}

	return false
}
