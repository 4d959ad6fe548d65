package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/attribute"

	"todoapp/internal/adapter/database/postgres"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/port"
	"todoapp/pkg/db/cursor"
	"todoapp/pkg/tracing"
)

const todoColumns = "id, uuid, content, status, priority, due_date, user_id, created_at, updated_at"

type TodoRepository struct {
	db *postgres.DB
}

func NewTodoRepository(db *postgres.DB) port.TodoRepository {
	return &TodoRepository{db: db}
}

func scanTodo(row interface{ Scan(...any) error }) (domain.Todo, error) {
	var todo domain.Todo

	err := row.Scan(
		&todo.ID,
		&todo.UUID,
		&todo.Content,
		&todo.Status,
		&todo.Priority,
		&todo.DueDate,
		&todo.UserId,
		&todo.CreatedAt,
		&todo.UpdatedAt,
	)

	return todo, err
}

func (tr *TodoRepository) Create(ctx context.Context, todo domain.Todo) (domain.Todo, error) {
	query := tr.db.QueryBuilder.Insert("todos").
		Columns("uuid", "content", "status", "priority", "due_date", "user_id", "created_at", "updated_at").
		Values(todo.UUID, todo.Content, todo.Status, todo.Priority, todo.DueDate, todo.UserId, todo.CreatedAt, todo.UpdatedAt).
		Suffix("RETURNING " + todoColumns)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	saved, err := scanTodo(tr.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		slog.Error("Error creating todo", "error", err)
		return domain.Todo{}, err
	}

	return saved, nil
}

func (tr *TodoRepository) GetByID(ctx context.Context, id int) (domain.Todo, error) {
	query := tr.db.QueryBuilder.Select(todoColumns).
		From("todos").
		Where(sq.Eq{"id": id}).
		Limit(1)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	todo, err := scanTodo(tr.db.QueryRow(ctx, stmt, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	if err != nil {
		slog.Error("Error getting todo by id", "error", err, "id", id)
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) ListByUser(ctx context.Context, userID int, order domain.ListOrder) ([]domain.Todo, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.todos.ListByUser", []attribute.KeyValue{
		attribute.String("db.table", "todos"),
		attribute.String("db.operation", "SELECT"),
		attribute.Int("user.id", userID),
	})

	defer span.End()

	query := tr.db.QueryBuilder.Select(todoColumns).
		From("todos").
		Where(sq.Eq{"user_id": userID}).
		OrderBy(string(order))

	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := tr.db.Query(ctx, stmt, args...)

	if err != nil {
		tracing.AddSpanError(span, err)
		slog.Error("Error listing todos", "error", err)
		return nil, err
	}

	defer rows.Close()

	data := []domain.Todo{}

	for rows.Next() {
		todo, err := scanTodo(rows)

		if err != nil {
			return nil, err
		}

		data = append(data, todo)
	}

	span.SetAttributes(attribute.Int("db.rows_returned", len(data)))

	return data, rows.Err()
}

func (tr *TodoRepository) ListPage(ctx context.Context, userID int, limit int, token string) ([]domain.Todo, bool, error) {
	ctx, span := tracing.CreateChildSpan(ctx, "db.todos.ListPage", []attribute.KeyValue{
		attribute.String("db.table", "todos"),
		attribute.String("db.operation", "SELECT"),
		attribute.Int("user.id", userID),
		attribute.Int("pagination.limit", limit),
	})

	defer span.End()

	actualLimit := limit + 1

	query := tr.db.QueryBuilder.Select(todoColumns).
		From("todos").
		Where(sq.Eq{"user_id": userID}).
		OrderBy(string(domain.OrderCreatedDesc)).
		Limit(uint64(actualLimit))

	if token != "" {
		datetimeStr, id, err := cursor.Decode(token)

		if err != nil {
			tracing.AddSpanError(span, err)
			return []domain.Todo{}, false, domain.ErrInvalidCursor
		}

		// RFC3339Nano keeps sub-second precision; truncating here would
		// let the keyset predicate skip rows sharing the boundary second.
		datetime, err := time.Parse(time.RFC3339Nano, datetimeStr)

		if err != nil {
			return []domain.Todo{}, false, domain.ErrInvalidCursor
		}

		query = query.Where(sq.Or{
			sq.Lt{"created_at": datetime},
			sq.And{
				sq.Eq{"created_at": datetime},
				sq.Lt{"id": id},
			},
		})
	}

	stmt, args, err := query.ToSql()

	if err != nil {
		return []domain.Todo{}, false, err
	}

	rows, err := tr.db.Query(ctx, stmt, args...)

	if err != nil {
		tracing.AddSpanError(span, err)
		return []domain.Todo{}, false, err
	}

	defer rows.Close()

	data := []domain.Todo{}

	for rows.Next() {
		todo, err := scanTodo(rows)

		if err != nil {
			return []domain.Todo{}, false, err
		}

		data = append(data, todo)
	}

	hasNext := len(data) == actualLimit

	if hasNext {
		data = data[:limit]
	}

	span.SetAttributes(
		attribute.Int("db.rows_returned", len(data)),
		attribute.Bool("db.has_next", hasNext),
	)

	return data, hasNext, rows.Err()
}

func (tr *TodoRepository) Update(ctx context.Context, id int, changes domain.TodoChanges) (domain.Todo, error) {
	if changes.IsEmpty() {
		return tr.GetByID(ctx, id)
	}

	setMap := map[string]interface{}{
		"updated_at": time.Now(),
	}

	if changes.Content != nil {
		setMap["content"] = *changes.Content
	}

	if changes.Status != nil {
		setMap["status"] = *changes.Status
	}

	if changes.Priority != nil {
		setMap["priority"] = *changes.Priority
	}

	if changes.SetDueDate {
		setMap["due_date"] = changes.DueDate
	}

	query := tr.db.QueryBuilder.Update("todos").
		SetMap(setMap).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + todoColumns)

	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.Todo{}, err
	}

	todo, err := scanTodo(tr.db.QueryRow(ctx, stmt, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	if err != nil {
		slog.Error("Error updating todo", "error", err, "id", id)
		return domain.Todo{}, err
	}

	return todo, nil
}

func (tr *TodoRepository) Delete(ctx context.Context, id int) error {
	query := tr.db.QueryBuilder.Delete("todos").
		Where(sq.Eq{"id": id})

	stmt, args, err := query.ToSql()

	if err != nil {
		return err
	}

	result, err := tr.db.Exec(ctx, stmt, args...)

	if err != nil {
		slog.Error("Error deleting todo", "error", err, "id", id)
		return err
	}

	if result.RowsAffected() == 0 {
		return domain.ErrTodoNotFound
	}

	return nil
}
