// Package repository holds the table gateway embedded by the domain repositories.
//
// Columns are read from the model's struct tags once, at construction:
//
//	db:"name"      column (or alias, with column:"...")
//	table:"other"  column of a joined table, never inserted
//	insert:"-"     column filled by the database
//
// A model exposing GetJoinQuery() string gets that clause appended to every read.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"homeserve/infras/otel"
	"homeserve/infras/postgres"
	"homeserve/shared/constant"
	"homeserve/shared/dto"
	"homeserve/shared/logger"

	"github.com/jmoiron/sqlx"
)

var errRequiredFilter = errors.New("required filter")

type column struct {
	name  string
	table string
	alias string
}

func (c column) selector() string {
	if c.alias != "" {
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	}

	return fmt.Sprintf("%s.%s", c.table, c.name)
}

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg interface{}) (sql.Result, error)
}

// preparer is satisfied by both *sqlx.DB and *sqlx.Tx.
type preparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	join          string
	InsertColumns []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	join := ""
	if joiner, ok := any(zero).(interface{ GetJoinQuery() string }); ok {
		join = joiner.GetJoinQuery()
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          join,
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, op))
}

// InsertQuery renders the named INSERT statement for the model's insertable columns, followed by suffix
// (an ON CONFLICT or RETURNING clause, or nothing).
func (repo *Repository[T]) InsertQuery(suffix string) string {
	placeholders := make([]string, len(repo.InsertColumns))
	for i, col := range repo.InsertColumns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))
	if suffix != "" {
		query += " " + suffix
	}

	return query
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	return repo.insert(ctx, repo.db.Write, model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	return repo.insert(ctx, sqltx, model)
}

func (repo *Repository[T]) insert(ctx context.Context, exec execer, model T) (err error) {
	ctx, scope := repo.scope(ctx, "insert")
	defer scope.End()
	defer scope.TraceIfError(&err)

	query := repo.InsertQuery("")
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err = exec.NamedExecContext(ctx, query, model); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to insert %s: %w", repo.entity, err)
	}

	return nil
}

// Exist refuses to run without a filter.
func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (exist bool, err error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()
	defer scope.TraceIfError(&err)

	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s%s)", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = getOne(ctx, repo.db.Read, query, args, &exist); err != nil {
		return false, fmt.Errorf("failed to check %s existence: %w", repo.entity, err)
	}

	return exist, nil
}

// Get returns the zero T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, repo.db.Read, filter, columns...)
}

// GetTx reads inside sqltx so the row reflects writes and locks taken by the same transaction.
func (repo *Repository[T]) GetTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	return repo.get(ctx, sqltx, filter, columns...)
}

func (repo *Repository[T]) get(ctx context.Context, prep preparer, filter dto.FilterGroup, columns ...string) (model T, err error) {
	ctx, scope := repo.scope(ctx, "get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s%s%s", repo.selectList(columns), repo.table, repo.joinClause(), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = getOne(ctx, prep, query, args, &model)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, fmt.Errorf("failed to get %s: %w", repo.entity, err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	return repo.getAll(ctx, repo.db.Read, params, filter, columns...)
}

func (repo *Repository[T]) GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	return repo.getAll(ctx, sqltx, params, filter, columns...)
}

func (repo *Repository[T]) getAll(ctx context.Context, prep preparer, params dto.QueryParams, filter dto.FilterGroup, columns ...string) (models []T, err error) {
	ctx, scope := repo.scope(ctx, "getAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	where, args := whereClause(filter)

	var b strings.Builder

	fmt.Fprintf(&b, "SELECT %s FROM %s%s%s", repo.selectList(columns), repo.table, repo.joinClause(), where)

	if sortBy, ok := repo.sortColumn(params.SortBy); ok && params.SortDir != "" {
		fmt.Fprintf(&b, " ORDER BY %s %s", sortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		b.WriteString(" LIMIT :limit")

		if params.Page > 0 {
			args["offset"] = (params.Page - 1) * params.Limit
			b.WriteString(" OFFSET :offset")
		}
	}

	query := b.String()
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	models = []T{}

	stmt, err := prep.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return models, fmt.Errorf("failed to prepare %s list: %w", repo.entity, err)
	}
	defer stmt.Close()

	if err = stmt.SelectContext(ctx, &models, args); err != nil {
		logger.ErrorWithStack(err)

		return models, fmt.Errorf("failed to list %s: %w", repo.entity, err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (count int, err error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s%s%s", repo.table, repo.primaryColumn, repo.table, repo.joinClause(), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if err = getOne(ctx, repo.db.Read, query, args, &count); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", repo.entity, err)
	}

	return count, nil
}

// Update sets the columns of changes on every row matching filter. Filter values win over
// change values sharing a name, so a filter cannot be widened by the payload.
func (repo *Repository[T]) Update(ctx context.Context, changes map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, repo.db.Write, changes, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, changes map[string]any, filter dto.FilterGroup) error {
	return repo.update(ctx, sqltx, changes, filter)
}

func (repo *Repository[T]) update(ctx context.Context, exec execer, changes map[string]any, filter dto.FilterGroup) (err error) {
	ctx, scope := repo.scope(ctx, "update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	assignments := make([]string, 0, len(changes))
	for _, col := range slices.Sorted(maps.Keys(changes)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s", col, col))
	}

	query := fmt.Sprintf("UPDATE %s SET %s%s", repo.table, strings.Join(assignments, ", "), where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	params := maps.Clone(changes)
	maps.Copy(params, args)

	if _, err = exec.NamedExecContext(ctx, query, params); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to update %s: %w", repo.entity, err)
	}

	return nil
}

func getOne(ctx context.Context, prep preparer, query string, args map[string]any, dest any) error {
	stmt, err := prep.PrepareNamedContext(ctx, query)
	if err != nil {
		logger.ErrorWithStack(err)

		return err //nolint:wrapcheck
	}
	defer stmt.Close()

	err = stmt.GetContext(ctx, dest, args)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		logger.ErrorWithStack(err)
	}

	return err //nolint:wrapcheck
}

// sortColumn only accepts columns the model maps, qualified with their table.
func (repo *Repository[T]) sortColumn(name string) (string, bool) {
	if name == "" {
		return "", false
	}

	for _, col := range repo.columns {
		if col.name == name || (col.alias != "" && col.alias == name) {
			return fmt.Sprintf("%s.%s", col.table, col.name), true
		}
	}

	return "", false
}

func (repo *Repository[T]) selectList(only []string) string {
	selected := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		selected = append(selected, col.selector())
	}

	return strings.Join(selected, ", ")
}

func (repo *Repository[T]) joinClause() string {
	if repo.join == "" {
		return ""
	}

	return " " + repo.join
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	clause, args := filter.GetWhereClause()
	if clause == "" {
		return "", map[string]any{}
	}

	return " WHERE " + clause, args
}

func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded, embeddedInsert := getColumns(table, field.Type)
			columns = append(columns, embedded...)
			insertColumns = append(insertColumns, embeddedInsert...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" || dbTag == "-" {
			continue
		}

		owner := field.Tag.Get("table")
		if owner == "" {
			owner = table
		}

		if owner == table && field.Tag.Get("insert") != "-" {
			insertColumns = append(insertColumns, dbTag)
		}

		if name := field.Tag.Get("column"); name != "" {
			columns = append(columns, column{name: name, table: owner, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: owner})
		}
	}

	return columns, insertColumns
}
