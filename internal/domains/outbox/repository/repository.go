package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"homeserve/infras/otel"
	"homeserve/infras/postgres"
	"homeserve/internal/domains/outbox/model"
	"homeserve/shared"
	"homeserve/shared/constant"
	gDto "homeserve/shared/dto"
	"homeserve/shared/logger"
	gRepo "homeserve/shared/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const markFailedQuery = `UPDATE booking_outbox SET attempts = attempts + 1, last_error = $2 WHERE id = $1`

type Outbox interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, events ...model.Event) error
	// FetchPending returns undelivered events that have been tried fewer than maxAttempts times, oldest first.
	FetchPending(ctx context.Context, limit, maxAttempts int) ([]model.Event, error)
	CountPending(ctx context.Context) (int, error)
	MarkDelivered(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause error) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Event]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Outbox {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Event](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

var pendingFilter = gDto.IsNull(model.TableName, model.FieldDeliveredAt)

func (r *repositoryImpl) InsertTx(ctx context.Context, sqltx *sqlx.Tx, events ...model.Event) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".outbox.InsertTx")
	defer scope.End()
	defer scope.TraceIfError(&err)

	for _, event := range events {
		if err = r.Repository.InsertTx(ctx, sqltx, event); err != nil {
			return fmt.Errorf("failed to enqueue %s event: %w", event.Type, err)
		}
	}

	return nil
}

func (r *repositoryImpl) FetchPending(ctx context.Context, limit, maxAttempts int) (res []model.Event, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".outbox.FetchPending")
	defer scope.End()
	defer scope.TraceIfError(&err)

	filter := gDto.All(pendingFilter, gDto.LessEq(model.TableName, model.FieldAttempts, maxAttempts-1))
	params := gDto.QueryParams{Limit: limit, SortBy: model.FieldCreatedAt, SortDir: gDto.SortDirAsc}

	res, err = r.Repository.GetAll(ctx, params, filter)
	if err != nil {
		return res, fmt.Errorf("failed to fetch pending events: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) CountPending(ctx context.Context) (res int, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".outbox.CountPending")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res, err = r.Repository.Count(ctx, gDto.FilterGroup{Filters: []any{pendingFilter}})
	if err != nil {
		return 0, fmt.Errorf("failed to count pending events: %w", err)
	}

	return res, nil
}

func (r *repositoryImpl) MarkDelivered(ctx context.Context, id uuid.UUID) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".outbox.MarkDelivered")
	defer scope.End()
	defer scope.TraceIfError(&err)

	fields := map[string]any{model.FieldDeliveredAt: time.Now()}

	if err = r.Repository.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		return fmt.Errorf("failed to mark event %s delivered: %w", id, err)
	}

	return nil
}

func (r *repositoryImpl) MarkFailed(ctx context.Context, id uuid.UUID, cause error) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".outbox.MarkFailed")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, markFailedQuery)

	if _, err = r.db.Write.ExecContext(ctx, markFailedQuery, id, cause.Error()); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to record failure of event %s: %w", id, err)
	}

	return nil
}
