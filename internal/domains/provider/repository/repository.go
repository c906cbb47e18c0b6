package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"homeserve/infras/otel"
	"homeserve/infras/postgres"
	"homeserve/internal/domains/provider/model"
	"homeserve/shared"
	"homeserve/shared/constant"
	gDto "homeserve/shared/dto"
	gRepo "homeserve/shared/repository"
)

type Provider interface {
	// Get returns the zero Provider when id is unknown.
	Get(ctx context.Context, id int64) (model.Provider, error)
	GetByUserID(ctx context.Context, userID int64) (model.Provider, error)
	// ListByService returns every provider of the service ordered by id.
	ListByService(ctx context.Context, serviceID int64) ([]model.Provider, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Provider]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Provider {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Provider](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

func (r *repositoryImpl) Get(ctx context.Context, id int64) (res model.Provider, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".provider.Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res, err = r.Repository.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to get provider %d: %w", id, err)
	}

	return res, nil
}

func (r *repositoryImpl) GetByUserID(ctx context.Context, userID int64) (res model.Provider, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".provider.GetByUserID")
	defer scope.End()
	defer scope.TraceIfError(&err)

	res, err = r.Repository.Get(ctx, shared.FilterByID(userID, model.FieldUserID, model.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to get provider by user %d: %w", userID, err)
	}

	return res, nil
}

func (r *repositoryImpl) ListByService(ctx context.Context, serviceID int64) (res []model.Provider, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".provider.ListByService")
	defer scope.End()
	defer scope.TraceIfError(&err)

	params := gDto.QueryParams{SortBy: model.FieldID, SortDir: gDto.SortDirAsc}

	res, err = r.Repository.GetAll(ctx, params, shared.FilterByID(serviceID, model.FieldServiceID, model.TableName))
	if err != nil {
		return res, fmt.Errorf("failed to list providers of service %d: %w", serviceID, err)
	}

	return res, nil
}
