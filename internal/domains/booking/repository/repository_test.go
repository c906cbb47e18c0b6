package repository_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"homeserve/infras/otel/mocks"
	"homeserve/infras/postgres"
	"homeserve/internal/domains/booking/model"
	"homeserve/internal/domains/booking/repository"
	"homeserve/shared/failure"
	"homeserve/shared/timeslot"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (repository.Booking, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	conn := &postgres.Connection{Read: sqlx.NewDb(db, "postgres"), Write: sqlx.NewDb(db, "postgres")}

	return repository.New(conn, mocks.NewOtel()), mock
}

var monday = time.Date(2025, time.June, 2, 0, 0, 0, 0, time.UTC)

func TestBooking_ListActive(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(`WHERE \(bookings\.provider_id = \$1 AND bookings\.booking_date = \$2 AND bookings\.status IN \(\$3, \$4, \$5, \$6\)\s*\)\s+ORDER BY bookings\.booking_time ASC`).
		ExpectQuery().
		WithArgs(int64(7), "2025-06-02", "pending", "confirmed", "in_progress", "completed").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_time", "duration_hours", "status"}).
			AddRow(1, "10:00:00", nil, "confirmed").
			AddRow(2, "13:30:00", 2.0, "pending"))

	bookings, err := repo.ListActive(context.Background(), 7, monday)
	require.NoError(t, err)
	require.Len(t, bookings, 2)

	assert.Equal(t, timeslot.NewClock(10, 0), bookings[0].BookingTime)
	assert.Nil(t, bookings[0].DurationHours)
	assert.Equal(t, time.Hour, bookings[0].Duration())
	assert.Equal(t, 2*time.Hour, bookings[1].Duration())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBooking_ListActiveError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare("FROM bookings").WillReturnError(errors.New("connection refused"))

	_, err := repo.ListActive(context.Background(), 7, monday)
	assert.Error(t, err)
}

func TestBooking_TransactionInsert(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM providers WHERE id = \$1 FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectPrepare(`INSERT INTO bookings \(customer_id, provider_id, .*\) VALUES \(\$1, .*\) RETURNING id`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectCommit()

	var id int64

	err := repo.Transaction(context.Background(), 7, func(tx *sqlx.Tx) error {
		var err error

		id, err = repo.InsertTx(context.Background(), tx, model.Booking{
			CustomerID:  9,
			ProviderID:  7,
			ServiceID:   1,
			BookingDate: monday,
			BookingTime: timeslot.NewClock(11, 0),
			Status:      model.StatusPending,
		})

		return err
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBooking_InsertConstraintViolation(t *testing.T) {
	for _, code := range []pq.ErrorCode{"23505", "23P01"} {
		t.Run(string(code), func(t *testing.T) {
			repo, mock := newRepo(t)

			mock.ExpectBegin()
			mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
			mock.ExpectPrepare("INSERT INTO bookings").
				ExpectQuery().
				WillReturnError(&pq.Error{Code: code, Constraint: "bookings_no_overlap"})
			mock.ExpectRollback()

			err := repo.Transaction(context.Background(), 7, func(tx *sqlx.Tx) error {
				_, err := repo.InsertTx(context.Background(), tx, model.Booking{ProviderID: 7})

				return err
			})

			require.ErrorIs(t, err, failure.ErrConstraintViolation)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBooking_TransactionUnknownProvider(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	called := false
	err := repo.Transaction(context.Background(), 7, func(*sqlx.Tx) error {
		called = true

		return nil
	})

	require.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, http.StatusNotFound, failure.GetCode(err))
}

func TestBooking_UpdateStatusTx(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectExec(`UPDATE bookings SET .*status = .* WHERE \(bookings\.id = `).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Transaction(context.Background(), 7, func(tx *sqlx.Tx) error {
		return repo.UpdateStatusTx(context.Background(), tx, 42, model.StatusConfirmed, "provider:70")
	})

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
