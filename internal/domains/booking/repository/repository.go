package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"homeserve/infras/otel"
	"homeserve/infras/postgres"
	"homeserve/internal/domains/booking/model"
	"homeserve/shared"
	"homeserve/shared/constant"
	gDto "homeserve/shared/dto"
	"homeserve/shared/failure"
	"homeserve/shared/logger"
	gRepo "homeserve/shared/repository"
	"homeserve/shared/timeslot"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const lockProviderQuery = "SELECT id FROM providers WHERE id = $1 FOR UPDATE"

type Booking interface {
	Get(ctx context.Context, id int64) (model.Booking, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, id int64) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	// ListActive returns the bookings of providerID on date that still occupy provider time.
	ListActive(ctx context.Context, providerID int64, date time.Time) ([]model.Booking, error)
	ListActiveTx(ctx context.Context, sqltx *sqlx.Tx, providerID int64, date time.Time) ([]model.Booking, error)
	// Transaction runs fn while holding the row lock of providerID. fn's error is returned as is.
	Transaction(ctx context.Context, providerID int64, fn func(tx *sqlx.Tx) error) error
	// InsertTx returns failure.ErrConstraintViolation when the database rejects an overlapping booking.
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) (int64, error)
	UpdateStatusTx(ctx context.Context, sqltx *sqlx.Tx, id int64, status, modifiedBy string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db          *postgres.Connection
	otel        otel.Otel
	insertQuery string
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	repo := gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel)

	return &repositoryImpl{
		Repository:  repo,
		db:          db,
		otel:        otel,
		insertQuery: repo.InsertQuery("RETURNING id"),
	}
}

func activeFilter(providerID int64, date time.Time) gDto.FilterGroup {
	return gDto.All(
		gDto.Eq(model.TableName, model.FieldProviderID, providerID),
		gDto.Eq(model.TableName, model.FieldBookingDate, date.Format(timeslot.DateLayout)),
		gDto.In(model.TableName, model.FieldStatus, model.ActiveStatuses),
	)
}

var activeOrder = gDto.QueryParams{SortBy: model.FieldBookingTime, SortDir: gDto.SortDirAsc}

func (r *repositoryImpl) Get(ctx context.Context, id int64) (res model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res, err = r.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to get booking %d: %w", id, err)
	}

	return res, nil
}

func (r *repositoryImpl) GetTx(ctx context.Context, sqltx *sqlx.Tx, id int64) (res model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.GetTx")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res, err = r.Repository.GetTx(ctx, sqltx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to get booking %d: %w", id, err)
	}

	return res, nil
}

func (r *repositoryImpl) ListActive(ctx context.Context, providerID int64, date time.Time) (res []model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListActive")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res, err = r.Repository.GetAll(ctx, activeOrder, activeFilter(providerID, date))
	if err != nil {
		return res, fmt.Errorf("failed to list active bookings of provider %d: %w", providerID, err)
	}

	return res, nil
}

func (r *repositoryImpl) ListActiveTx(ctx context.Context, sqltx *sqlx.Tx, providerID int64, date time.Time) (res []model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ListActiveTx")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res, err = r.Repository.GetAllTx(ctx, sqltx, activeOrder, activeFilter(providerID, date))
	if err != nil {
		return res, fmt.Errorf("failed to list active bookings of provider %d: %w", providerID, err)
	}

	return res, nil
}

func (r *repositoryImpl) Transaction(ctx context.Context, providerID int64, fn func(tx *sqlx.Tx) error) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Transaction")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, lockProviderQuery)

	return postgres.WithTransaction(ctx, r.db.Write, nil, func(tx *sqlx.Tx) error {
		var locked int64

		if err := tx.GetContext(ctx, &locked, lockProviderQuery, providerID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return failure.NotFound("provider not found") // nolint:wrapcheck
			}

			logger.ErrorWithStack(err)

			return fmt.Errorf("failed to lock provider %d: %w", providerID, err)
		}

		return fn(tx)
	})
}

func (r *repositoryImpl) InsertTx(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) (id int64, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertTx")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, r.insertQuery)

	stmt, err := sqltx.PrepareNamedContext(ctx, r.insertQuery)
	if err != nil {
		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to prepare booking insert: %w", err)
	}
	defer stmt.Close()

	if err = stmt.GetContext(ctx, &id, booking); err != nil {
		if isOverlapViolation(err) {
			return 0, fmt.Errorf("failed to insert booking: %w", failure.ErrConstraintViolation)
		}

		logger.ErrorWithStack(err)

		return 0, fmt.Errorf("failed to insert booking: %w", err)
	}

	return id, nil
}

func (r *repositoryImpl) UpdateStatusTx(ctx context.Context, sqltx *sqlx.Tx, id int64, status, modifiedBy string) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.UpdateStatusTx")
	defer scope.End()
	defer scope.TraceIfError(&err)

	fields := map[string]any{
		model.FieldStatus:        status,
		constant.FieldModifiedAt: time.Now(),
		constant.FieldModifiedBy: modifiedBy,
	}

	err = r.Repository.UpdateTx(ctx, sqltx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		if isOverlapViolation(err) {
			return fmt.Errorf("failed to update booking %d: %w", id, failure.ErrConstraintViolation)
		}

		return fmt.Errorf("failed to update booking %d: %w", id, err)
	}

	return nil
}

// isOverlapViolation matches the unique index on active slots and the tsrange exclusion constraint.
func isOverlapViolation(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code == constant.PqErrorCodeUniqueViolation || pqErr.Code == constant.PqErrorCodeExclusionViolation
}
