package model_test

import (
	"testing"
	"time"

	"homeserve/internal/domains/booking/model"
	"homeserve/shared/timeslot"

	"github.com/stretchr/testify/assert"
)

func hours(h float64) *float64 {
	return &h
}

func TestBooking_Duration(t *testing.T) {
	assert.Equal(t, time.Hour, model.Booking{}.Duration())
	assert.Equal(t, 150*time.Minute, model.Booking{DurationHours: hours(2.5)}.Duration())
	assert.Equal(t, time.Hour, model.Booking{DurationHours: hours(0)}.Duration())
}

func TestBooking_Overlaps(t *testing.T) {
	existing := model.Booking{BookingTime: timeslot.NewClock(10, 0)}

	assert.True(t, existing.Overlaps(timeslot.NewClock(10, 30), time.Hour))
	assert.False(t, existing.Overlaps(timeslot.NewClock(11, 0), time.Hour))
	assert.False(t, existing.Overlaps(timeslot.NewClock(9, 0), time.Hour))
	assert.True(t, existing.Overlaps(timeslot.NewClock(8, 0), 3*time.Hour))

	long := model.Booking{BookingTime: timeslot.NewClock(10, 0), DurationHours: hours(3)}
	assert.True(t, long.Overlaps(timeslot.NewClock(12, 0), time.Hour))
}

func TestIsActive(t *testing.T) {
	for _, status := range []string{"pending", "confirmed", "in_progress", "completed"} {
		assert.True(t, model.IsActive(status), status)
	}

	assert.False(t, model.IsActive("cancelled"))
	assert.False(t, model.IsActive("rejected"))
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name      string
		actor     model.Actor
		current   string
		requested string
		want      string
		wantErr   error
	}{
		{"customer cancels pending", model.ActorCustomer, "pending", "cancelled", "cancelled", nil},
		{"customer cancels confirmed", model.ActorCustomer, "confirmed", "cancelled", "cancelled", nil},
		{"customer cannot cancel completed", model.ActorCustomer, "completed", "cancelled", "", model.ErrInvalidTransition},
		{"customer cannot confirm", model.ActorCustomer, "pending", "confirmed", "", model.ErrTransitionDenied},
		{"provider confirms", model.ActorProvider, "pending", "confirmed", "confirmed", nil},
		{"provider rejects", model.ActorProvider, "pending", "rejected", "cancelled", nil},
		{"provider cannot reject confirmed", model.ActorProvider, "confirmed", "rejected", "", model.ErrInvalidTransition},
		{"provider starts", model.ActorProvider, "confirmed", "in_progress", "in_progress", nil},
		{"provider completes confirmed", model.ActorProvider, "confirmed", "completed", "completed", nil},
		{"provider completes in progress", model.ActorProvider, "in_progress", "completed", "completed", nil},
		{"provider cannot complete pending", model.ActorProvider, "pending", "completed", "", model.ErrInvalidTransition},
		{"nobody moves back to pending", model.ActorProvider, "confirmed", "pending", "", model.ErrTransitionDenied},
		{"unknown status", model.ActorProvider, "pending", "archived", "", model.ErrUnknownStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := model.NextStatus(tt.actor, tt.current, tt.requested)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}
