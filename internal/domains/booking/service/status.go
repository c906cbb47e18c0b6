package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"homeserve/internal/domains/booking/model"
	"homeserve/internal/domains/booking/model/dto"
	outboxModel "homeserve/internal/domains/outbox/model"
	"homeserve/shared"
	"homeserve/shared/constant"
	"homeserve/shared/failure"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

func (s *serviceImpl) UpdateStatus(ctx context.Context, id int64, req dto.UpdateStatusRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get booking")

		return res, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == 0 {
		return res, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	provider, err := s.providerRepo.Get(ctx, booking.ProviderID)
	if err != nil {
		return res, fmt.Errorf("failed to get provider of booking: %w", err)
	}

	userID, role := shared.ActorFromContext(ctx)

	var (
		actor       model.Actor
		recipientID int64
	)

	switch {
	case role == constant.RoleCustomer && booking.CustomerID == userID:
		actor, recipientID = model.ActorCustomer, provider.UserID
	case role == constant.RoleProvider && provider.ID != 0 && provider.UserID == userID:
		actor, recipientID = model.ActorProvider, booking.CustomerID
	default:
		return res, failure.Forbidden("you cannot update this booking") // nolint:wrapcheck
	}

	var previous string

	err = s.repo.Transaction(ctx, booking.ProviderID, func(tx *sqlx.Tx) error {
		current, err := s.repo.GetTx(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("failed to reload booking: %w", err)
		}

		next, err := model.NextStatus(actor, current.Status, req.Status)
		if err != nil {
			if errors.Is(err, model.ErrTransitionDenied) {
				return failure.Forbidden(err.Error()) // nolint:wrapcheck
			}

			return failure.InvalidInput(err.Error()) // nolint:wrapcheck
		}

		if err := s.repo.UpdateStatusTx(ctx, tx, id, next, strconv.FormatInt(userID, 10)); err != nil {
			if errors.Is(err, failure.ErrConstraintViolation) {
				return failure.SlotTaken("time slot already booked") // nolint:wrapcheck
			}

			return fmt.Errorf("failed to update booking status: %w", err)
		}

		previous = current.Status
		booking = current
		booking.Status = next

		payload := newBookingPayload(booking, recipientID)
		payload.Message = fmt.Sprintf("Booking #%d is now %s", booking.ID, next)

		return s.outboxRepo.InsertTx(ctx, tx, outboxModel.NewEvent(outboxModel.TypeForStatus(next), payload)) // nolint:wrapcheck
	})
	if err != nil {
		if failure.GetKind(err) == "" && failure.GetCode(err) >= 500 {
			log.Error().Err(err).Int64("booking_id", id).Msg("failed to update booking status")
		}

		return res, err
	}

	s.metrics.ObserveStatusChange(previous, booking.Status)
	s.invalidateSlots(ctx)

	res.FromModel(booking)

	return res, nil
}
