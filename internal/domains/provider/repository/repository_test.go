package repository_test

import (
	"context"
	"regexp"
	"testing"

	"homeserve/infras/otel/mocks"
	"homeserve/infras/postgres"
	"homeserve/internal/domains/provider/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var providerColumns = []string{"id", "user_id", "service_id", "hourly_rate", "is_verified", "rating", "location"}

func newRepo(t *testing.T) (repository.Provider, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	conn := &postgres.Connection{Read: sqlx.NewDb(db, "postgres"), Write: sqlx.NewDb(db, "postgres")}

	return repository.New(conn, mocks.NewOtel()), mock
}

func TestProvider_ListByService(t *testing.T) {
	repo, mock := newRepo(t)

	query := "SELECT providers.id, providers.user_id, providers.service_id, providers.hourly_rate, providers.is_verified, providers.rating, users.location " +
		"FROM providers JOIN users ON users.id = providers.user_id"

	mock.ExpectPrepare(regexp.QuoteMeta(query) + `.*WHERE \(providers\.service_id = \$1\).*ORDER BY providers\.id ASC`).
		ExpectQuery().
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(providerColumns).
			AddRow(1, 10, 3, 20.0, true, 4.5, "Downtown, Springfield").
			AddRow(2, 11, 3, 25.0, false, 0, nil))

	providers, err := repo.ListByService(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, providers, 2)

	assert.Equal(t, "Downtown, Springfield", providers[0].Location.String)
	assert.False(t, providers[1].Location.Valid)
	assert.True(t, providers[0].Offers(3))
	assert.False(t, providers[0].Offers(4))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProvider_GetUnknownReturnsZero(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(`WHERE \(providers\.id = \$1\)`).
		ExpectQuery().
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(providerColumns))

	provider, err := repo.Get(context.Background(), 99)
	require.NoError(t, err)
	assert.Zero(t, provider.ID)
	assert.False(t, provider.Offers(0))
}
