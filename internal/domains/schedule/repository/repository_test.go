package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"homeserve/config"
	"homeserve/infras/otel/mocks"
	"homeserve/infras/postgres"
	"homeserve/internal/domains/schedule/model"
	"homeserve/internal/domains/schedule/repository"
	"homeserve/shared/timeslot"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scheduleColumns = []string{"provider_id", "day_of_week", "start_time", "end_time", "is_active"}

func newRepo(t *testing.T) (repository.Schedule, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() { _ = db.Close() })

	conn := &postgres.Connection{Read: sqlx.NewDb(db, "postgres"), Write: sqlx.NewDb(db, "postgres")}

	return repository.New(conn, mocks.NewOtel(), &config.Config{}), mock
}

func TestSchedule_DayScheduleDefaultsWhenMissing(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare(`FROM provider_schedules\s+WHERE \(provider_schedules\.provider_id = \$1 AND provider_schedules\.day_of_week = \$2\)`).
		ExpectQuery().
		WithArgs(int64(5), "Monday").
		WillReturnRows(sqlmock.NewRows(scheduleColumns))

	schedule, err := repo.DaySchedule(context.Background(), 5, time.Monday)
	require.NoError(t, err)
	assert.Equal(t, model.Default(5, time.Monday, time.Sunday), schedule)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchedule_DayScheduleStoredOverride(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare("FROM provider_schedules").
		ExpectQuery().
		WithArgs(int64(5), "Sunday").
		WillReturnRows(sqlmock.NewRows(scheduleColumns).AddRow(5, "Sunday", "10:00:00", "14:00:00", true))

	schedule, err := repo.DaySchedule(context.Background(), 5, time.Sunday)
	require.NoError(t, err)
	assert.True(t, schedule.IsActive)
	assert.False(t, schedule.IsDefault)
	assert.Equal(t, "10:00", schedule.StartTime.String())
	assert.Equal(t, "14:00", schedule.EndTime.String())
}

func TestSchedule_DayScheduleError(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare("FROM provider_schedules").WillReturnError(errors.New("connection reset"))

	_, err := repo.DaySchedule(context.Background(), 5, time.Monday)
	assert.Error(t, err)
}

func TestSchedule_WeekMergesStoredRows(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectPrepare("FROM provider_schedules").
		ExpectQuery().
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(scheduleColumns).
			AddRow(5, "Saturday", "08:00:00", "12:00:00", false).
			AddRow(5, "Tuesday", "12:00:00", "20:00:00", true))

	week, err := repo.Week(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, week, 7)

	assert.Equal(t, "Monday", week[0].DayOfWeek)
	assert.True(t, week[0].IsDefault)
	assert.Equal(t, "12:00", week[1].StartTime.String())
	assert.False(t, week[1].IsDefault)
	assert.False(t, week[5].IsActive)
	assert.Equal(t, "Sunday", week[6].DayOfWeek)
	assert.False(t, week[6].IsActive)
}

func TestSchedule_UpsertWeek(t *testing.T) {
	repo, mock := newRepo(t)

	days := []model.Schedule{
		{DayOfWeek: "Monday", StartTime: timeslot.NewClock(8, 0), EndTime: timeslot.NewClock(16, 0), IsActive: true},
		{DayOfWeek: "Sunday", StartTime: timeslot.NewClock(9, 0), EndTime: timeslot.NewClock(17, 0), IsActive: false},
	}

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO provider_schedules .* ON CONFLICT \(provider_id, day_of_week\) DO UPDATE`).
		WithArgs(int64(5), "Monday", "08:00:00", "16:00:00", true).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO provider_schedules").
		WithArgs(int64(5), "Sunday", "09:00:00", "17:00:00", false).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.UpsertWeek(context.Background(), 5, days))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSchedule_UpsertWeekRollsBack(t *testing.T) {
	repo, mock := newRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO provider_schedules").WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	err := repo.UpsertWeek(context.Background(), 5, []model.Schedule{{DayOfWeek: "Monday", StartTime: 1, EndTime: 2}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
