package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"homeserve/internal/domains/booking/model"
	"homeserve/internal/domains/booking/model/dto"
	catalogModel "homeserve/internal/domains/catalog/model"
	outboxModel "homeserve/internal/domains/outbox/model"
	providerModel "homeserve/internal/domains/provider/model"
	"homeserve/shared"
	"homeserve/shared/constant"
	"homeserve/shared/failure"
	"homeserve/shared/timeslot"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

const outcomeCreated = "created"

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.CreateBookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	started := time.Now()
	autoAssign := req.ProviderID == nil

	defer func() {
		s.metrics.ObserveAttempt(attemptOutcome(err), autoAssign)
		s.metrics.ObserveCreateLatency(time.Since(started).Seconds())
	}()

	slot, err := s.parse(ctx, req)
	if err != nil {
		return res, err
	}

	var provider providerModel.Provider

	if autoAssign {
		provider, err = s.assign(ctx, slot)
	} else {
		var providers []providerModel.Provider

		providers, err = s.candidates(ctx, slot)
		if err == nil {
			provider = providers[0]
		}
	}

	if err != nil {
		return res, err
	}

	customerID, _ := shared.ActorFromContext(ctx)
	booking := newBooking(customerID, provider.ID, slot, req)

	err = s.repo.Transaction(ctx, provider.ID, func(tx *sqlx.Tx) error {
		if err := s.recheck(ctx, tx, provider.ID, slot); err != nil {
			return err
		}

		id, err := s.repo.InsertTx(ctx, tx, booking)
		if err != nil {
			if errors.Is(err, failure.ErrConstraintViolation) {
				return failure.SlotTaken("time slot already booked") // nolint:wrapcheck
			}

			return fmt.Errorf("failed to insert booking: %w", err)
		}

		booking.ID = id

		event := outboxModel.NewEvent(outboxModel.TypeBookingNew, newBookingPayload(booking, provider.UserID))

		return s.outboxRepo.InsertTx(ctx, tx, event) // nolint:wrapcheck
	})
	if err != nil {
		if failure.GetKind(err) == "" {
			log.Error().Err(err).Int64("provider_id", provider.ID).Msg("failed to create booking")
		}

		return res, err
	}

	s.invalidateSlots(ctx)

	res = dto.CreateBookingResponse{BookingID: booking.ID, Status: booking.Status, ProviderID: provider.ID}

	return res, nil
}

// parse validates the request fields the struct tags cannot express and checks that the service exists.
func (s *serviceImpl) parse(ctx context.Context, req dto.CreateBookingRequest) (slotRequest, error) {
	date, err := timeslot.ParseDate(req.BookingDate)
	if err != nil {
		return slotRequest{}, failure.InvalidInput(err.Error()) // nolint:wrapcheck
	}

	start, err := timeslot.ParseClock(req.BookingTime)
	if err != nil {
		return slotRequest{}, failure.InvalidInput(err.Error()) // nolint:wrapcheck
	}

	if req.DurationHours != nil && *req.DurationHours <= 0 {
		return slotRequest{}, failure.InvalidInput("duration_hours must be positive") // nolint:wrapcheck
	}

	if req.DurationHours != nil && *req.DurationHours > timeslot.MaxDuration.Hours() {
		return slotRequest{}, failure.InvalidInput("duration_hours must not exceed 24") // nolint:wrapcheck
	}

	address := strings.TrimSpace(req.Address)
	if address == "" {
		return slotRequest{}, failure.InvalidInput("address is required") // nolint:wrapcheck
	}

	if req.ServiceID <= 0 {
		return slotRequest{}, failure.InvalidInput("service_id is required") // nolint:wrapcheck
	}

	exist, err := s.serviceRepo.Exist(ctx, shared.FilterByID(req.ServiceID, catalogModel.FieldID, catalogModel.TableName))
	if err != nil {
		return slotRequest{}, fmt.Errorf("failed to check service: %w", err)
	}

	if !exist {
		return slotRequest{}, failure.InvalidInput("service not found") // nolint:wrapcheck
	}

	slot := slotRequest{
		serviceID: req.ServiceID,
		date:      date,
		start:     start,
		duration:  timeslot.EffectiveDuration(req.DurationHours),
		address:   address,
	}

	if req.ProviderID != nil {
		slot.providerID = *req.ProviderID
	}

	return slot, nil
}

// recheck re-validates the slot under the provider lock, with full interval semantics.
func (s *serviceImpl) recheck(ctx context.Context, tx *sqlx.Tx, providerID int64, slot slotRequest) error {
	schedule, err := s.scheduleRepo.DayScheduleTx(ctx, tx, providerID, slot.date.Weekday())
	if err != nil {
		return fmt.Errorf("failed to get schedule: %w", err)
	}

	if !schedule.Admits(slot.start, slot.duration) {
		return failure.OutsideWorkingHours("requested time is outside provider working hours") // nolint:wrapcheck
	}

	bookings, err := s.repo.ListActiveTx(ctx, tx, providerID, slot.date)
	if err != nil {
		return fmt.Errorf("failed to list bookings: %w", err)
	}

	if conflicts(bookings, slot.start, slot.duration) {
		return failure.SlotTaken("time slot already booked") // nolint:wrapcheck
	}

	return nil
}

func newBooking(customerID, providerID int64, slot slotRequest, req dto.CreateBookingRequest) model.Booking {
	hours := slot.duration.Hours()
	createdBy := strconv.FormatInt(customerID, 10)
	now := time.Now()

	booking := model.Booking{
		CustomerID:    customerID,
		ProviderID:    providerID,
		ServiceID:     slot.serviceID,
		BookingDate:   slot.date,
		BookingTime:   slot.start,
		DurationHours: &hours,
		Status:        model.StatusPending,
		TotalAmount:   req.TotalAmount,
		Address:       slot.address,
		PaymentStatus: model.PaymentStatusUnpaid,
	}

	booking.CreatedAt, booking.ModifiedAt = now, now
	booking.CreatedBy, booking.ModifiedBy = createdBy, createdBy

	if desc := strings.TrimSpace(req.Description); desc != "" {
		booking.Description.String, booking.Description.Valid = desc, true
	}

	return booking
}

func newBookingPayload(booking model.Booking, recipientID int64) outboxModel.Payload {
	return outboxModel.Payload{
		BookingID:   booking.ID,
		RecipientID: recipientID,
		ProviderID:  booking.ProviderID,
		CustomerID:  booking.CustomerID,
		ServiceID:   booking.ServiceID,
		BookingDate: booking.BookingDate.Format(timeslot.DateLayout),
		BookingTime: booking.BookingTime.String(),
		Status:      booking.Status,
		Message: fmt.Sprintf("New booking request for %s at %s",
			booking.BookingDate.Format(timeslot.DateLayout), booking.BookingTime),
	}
}

func attemptOutcome(err error) string {
	if err == nil {
		return outcomeCreated
	}

	if kind := failure.GetKind(err); kind != "" {
		return string(kind)
	}

	return "error"
}
