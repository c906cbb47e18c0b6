package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"homeserve/config"
	"homeserve/infras/otel"
	"homeserve/infras/postgres"
	"homeserve/internal/domains/schedule/model"
	"homeserve/shared/constant"
	gDto "homeserve/shared/dto"
	"homeserve/shared/logger"
	gRepo "homeserve/shared/repository"

	"github.com/jmoiron/sqlx"
)

const upsertQuery = `INSERT INTO provider_schedules (provider_id, day_of_week, start_time, end_time, is_active)
VALUES (:provider_id, :day_of_week, :start_time, :end_time, :is_active)
ON CONFLICT (provider_id, day_of_week) DO UPDATE
SET start_time = EXCLUDED.start_time, end_time = EXCLUDED.end_time, is_active = EXCLUDED.is_active`

type Schedule interface {
	// DaySchedule never fails for a missing row; the default schedule is returned instead.
	DaySchedule(ctx context.Context, providerID int64, day time.Weekday) (model.Schedule, error)
	DayScheduleTx(ctx context.Context, sqltx *sqlx.Tx, providerID int64, day time.Weekday) (model.Schedule, error)
	// Week returns Monday..Sunday, stored rows overriding defaults.
	Week(ctx context.Context, providerID int64) ([]model.Schedule, error)
	UpsertWeek(ctx context.Context, providerID int64, days []model.Schedule) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Schedule]
	db      *postgres.Connection
	otel    otel.Otel
	restDay time.Weekday
}

func New(db *postgres.Connection, otel otel.Otel, cfg *config.Config) Schedule {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Schedule](model.EntityName, model.TableName, model.FieldProviderID, db, otel),
		db:         db,
		otel:       otel,
		restDay:    cfg.RestDay(),
	}
}

func dayFilter(providerID int64, day time.Weekday) gDto.FilterGroup {
	return gDto.All(
		gDto.Eq(model.TableName, model.FieldProviderID, providerID),
		gDto.Eq(model.TableName, model.FieldDayOfWeek, day.String()),
	)
}

func (r *repositoryImpl) orDefault(found model.Schedule, providerID int64, day time.Weekday) model.Schedule {
	if found.DayOfWeek == "" {
		return model.Default(providerID, day, r.restDay)
	}

	return found
}

func (r *repositoryImpl) DaySchedule(ctx context.Context, providerID int64, day time.Weekday) (res model.Schedule, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".schedule.DaySchedule")
	defer scope.End()
	defer scope.TraceIfError(&err)

	found, err := r.Repository.Get(ctx, dayFilter(providerID, day))
	if err != nil {
		return res, fmt.Errorf("failed to get schedule of provider %d: %w", providerID, err)
	}

	return r.orDefault(found, providerID, day), nil
}

func (r *repositoryImpl) DayScheduleTx(ctx context.Context, sqltx *sqlx.Tx, providerID int64, day time.Weekday) (res model.Schedule, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".schedule.DayScheduleTx")
	defer scope.End()
	defer scope.TraceIfError(&err)

	found, err := r.Repository.GetTx(ctx, sqltx, dayFilter(providerID, day))
	if err != nil {
		return res, fmt.Errorf("failed to get schedule of provider %d: %w", providerID, err)
	}

	return r.orDefault(found, providerID, day), nil
}

func (r *repositoryImpl) Week(ctx context.Context, providerID int64) (res []model.Schedule, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".schedule.Week")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := gDto.All(gDto.Eq(model.TableName, model.FieldProviderID, providerID))

	stored, err := r.Repository.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to get week schedule of provider %d: %w", providerID, err)
	}

	byDay := make(map[time.Weekday]model.Schedule, len(stored))

	for _, schedule := range stored {
		day, err := model.ParseWeekday(schedule.DayOfWeek)
		if err != nil {
			logger.ErrorWithStack(err)

			continue
		}

		byDay[day] = schedule
	}

	res = make([]model.Schedule, 0, len(model.Weekdays))
	for _, day := range model.Weekdays {
		res = append(res, r.orDefault(byDay[day], providerID, day))
	}

	return res, nil
}

func (r *repositoryImpl) UpsertWeek(ctx context.Context, providerID int64, days []model.Schedule) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".schedule.UpsertWeek")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, upsertQuery)

	return postgres.WithTransaction(ctx, r.db.Write, nil, func(tx *sqlx.Tx) error {
		for _, day := range days {
			day.ProviderID = providerID

			if _, err := tx.NamedExecContext(ctx, upsertQuery, day); err != nil {
				logger.ErrorWithStack(err)

				return fmt.Errorf("failed to upsert %s schedule of provider %d: %w", day.DayOfWeek, providerID, err)
			}
		}

		return nil
	})
}
