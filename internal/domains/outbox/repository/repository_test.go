package repository_test

import (
	"context"
	"errors"
	"testing"

	"homeserve/infras/otel/mocks"
	"homeserve/infras/postgres"
	"homeserve/internal/domains/outbox/model"
	"homeserve/internal/domains/outbox/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepo(t *testing.T) (repository.Outbox, *sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	conn := &postgres.Connection{Read: sqlxDB, Write: sqlxDB}

	return repository.New(conn, mocks.NewOtel()), sqlxDB, mock
}

func TestOutbox_InsertTx(t *testing.T) {
	repo, db, mock := newRepo(t)

	event := model.NewEvent(model.TypeBookingNew, model.Payload{BookingID: 42, RecipientID: 70, Status: "pending"})

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO booking_outbox \(id, aggregate_id, type, payload, created_at\)`).
		WithArgs(event.ID, int64(42), "booking_new", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.Beginx()
	require.NoError(t, err)
	require.NoError(t, repo.InsertTx(context.Background(), tx, event))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutbox_FetchPending(t *testing.T) {
	repo, _, mock := newRepo(t)

	id := uuid.New()

	mock.ExpectPrepare(`WHERE \(booking_outbox\.delivered_at IS NULL AND booking_outbox\.attempts <= \$1\)\s+ORDER BY booking_outbox\.created_at ASC LIMIT \$2`).
		ExpectQuery().
		WithArgs(9, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "aggregate_id", "type", "payload", "attempts"}).
			AddRow(id.String(), 42, "booking_new", []byte(`{"booking_id":42,"recipient_id":70,"message":"hi"}`), 1))

	events, err := repo.FetchPending(context.Background(), 50, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, id, events[0].ID)
	assert.Equal(t, int64(70), events[0].Payload.RecipientID)
	assert.Equal(t, "hi", events[0].Payload.Message)
	assert.Equal(t, 1, events[0].Attempts)
}

func TestOutbox_MarkFailed(t *testing.T) {
	repo, _, mock := newRepo(t)

	id := uuid.New()

	mock.ExpectExec(`UPDATE booking_outbox SET attempts = attempts \+ 1, last_error = \$2 WHERE id = \$1`).
		WithArgs(id, "kafka unavailable").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkFailed(context.Background(), id, errors.New("kafka unavailable")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOutbox_MarkDelivered(t *testing.T) {
	repo, _, mock := newRepo(t)

	id := uuid.New()

	mock.ExpectExec(`UPDATE booking_outbox SET delivered_at = \$1\s+WHERE \(booking_outbox\.id = \$2\)`).
		WithArgs(sqlmock.AnyArg(), id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkDelivered(context.Background(), id))
	require.NoError(t, mock.ExpectationsWereMet())
}
