package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"homeserve/infras/otel"
	"homeserve/infras/postgres"
	"homeserve/internal/domains/notification/model"
	"homeserve/shared/constant"
	"homeserve/shared/logger"
	gRepo "homeserve/shared/repository"
)

type Notification interface {
	// Insert ignores a notification whose event was already recorded.
	Insert(ctx context.Context, notification model.Notification) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Notification]
	db          *postgres.Connection
	otel        otel.Otel
	insertQuery string
}

func New(db *postgres.Connection, otel otel.Otel) Notification {
	repo := gRepo.NewRepository[model.Notification](model.EntityName, model.TableName, model.FieldID, db, otel)

	return &repositoryImpl{
		Repository:  repo,
		db:          db,
		otel:        otel,
		insertQuery: repo.InsertQuery("ON CONFLICT (" + model.FieldEventID + ") DO NOTHING"),
	}
}

func (r *repositoryImpl) Insert(ctx context.Context, notification model.Notification) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.Insert")
	defer scope.End()
	defer scope.TraceIfError(&err)

	scope.SetAttribute(constant.OtelQueryAttributeKey, r.insertQuery)

	if _, err = r.db.Write.NamedExecContext(ctx, r.insertQuery, notification); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert notification for user %d: %w", notification.UserID, err)
	}

	return nil
}
