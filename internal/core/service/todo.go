package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/response"
	"todoapp/internal/core/port"
	"todoapp/internal/core/util"
	"todoapp/pkg/db/cursor"
)

type TodoService struct {
	repo port.TodoRepository
}

func NewTodoService(repo port.TodoRepository) *TodoService {
	return &TodoService{repo}
}

// getOwned loads a todo and applies the ownership gate. A todo owned by
// someone else is reported as not found, never as forbidden.
func (ts *TodoService) getOwned(ctx context.Context, id int, userID int) (domain.Todo, error) {
	todo, err := ts.repo.GetByID(ctx, id)

	if err != nil {
		return domain.Todo{}, err
	}

	if !todo.BelongsToUser(userID) {
		return domain.Todo{}, domain.ErrTodoNotFound
	}

	return todo, nil
}

// CreateForUser persists a new todo owned by userID. Any owner carried
// in the payload has already been discarded by the handlers; the
// authenticated caller always wins.
func (ts *TodoService) CreateForUser(ctx context.Context, userID int, todo domain.Todo) (domain.Todo, error) {
	if userID == 0 {
		return domain.Todo{}, domain.ErrMissingOwner
	}

	if strings.TrimSpace(todo.Content) == "" {
		return domain.Todo{}, domain.ErrEmptyContent
	}

	now := time.Now()

	createdAt := todo.CreatedAt

	if createdAt.IsZero() {
		createdAt = now
	}

	newTodo := domain.Todo{
		UUID:      uuid.New(),
		Content:   todo.Content,
		Status:    todo.Status,
		Priority:  todo.Priority,
		DueDate:   todo.DueDate,
		UserId:    userID,
		CreatedAt: createdAt,
		UpdatedAt: now,
	}

	saved, err := ts.repo.Create(ctx, newTodo)

	if err != nil {
		slog.Error("Todo#CreateForUser repository create failed", "error", err, "user_id", userID)
		return domain.Todo{}, err
	}

	return saved, nil
}

func (ts *TodoService) GetForUser(ctx context.Context, id int, userID int) (domain.Todo, error) {
	return ts.getOwned(ctx, id, userID)
}

func (ts *TodoService) ListForUser(ctx context.Context, userID int, order domain.ListOrder) ([]domain.Todo, error) {
	return ts.repo.ListByUser(ctx, userID, order)
}

// ListPageForUser returns one newest-first page of the caller's todos
// wrapped in the cursor envelope.
func (ts *TodoService) ListPageForUser(ctx context.Context, userID int, limit int, token string) (*response.CursorResponse, error) {
	rows, hasNext, err := ts.repo.ListPage(ctx, userID, limit, token)

	data := make([]response.TodoResponse, 0)

	if err != nil {
		dataBytes, _ := util.Serialize(data)

		resp := response.CursorResponse{
			Size: 0,
			Data: dataBytes,
		}

		return &resp, err
	}

	for _, todo := range rows {
		data = append(data, response.NewTodoResponse(todo))
	}

	var nextCursor string

	if hasNext && len(rows) > 0 {
		lastTodo := rows[len(rows)-1]
		nextCursor = cursor.Encode(lastTodo.CreatedAt.Format(time.RFC3339Nano), lastTodo.ID)
	}

	dataBytes, _ := util.Serialize(data)

	resp := response.CursorResponse{
		Size: len(data),
		Data: dataBytes,
	}
	resp.Pagination.HasNext = hasNext
	resp.Pagination.NextCursor = nextCursor

	return &resp, nil
}

// FullUpdate applies replace semantics: every mutable field takes the
// value from replacement, including clearing the due date when absent.
// The stored owner and creation time are untouched.
func (ts *TodoService) FullUpdate(ctx context.Context, id int, userID int, replacement domain.Todo) (domain.Todo, error) {
	if _, err := ts.getOwned(ctx, id, userID); err != nil {
		return domain.Todo{}, err
	}

	if strings.TrimSpace(replacement.Content) == "" {
		return domain.Todo{}, domain.ErrEmptyContent
	}

	changes := domain.TodoChanges{
		Content:    &replacement.Content,
		Status:     &replacement.Status,
		Priority:   &replacement.Priority,
		DueDate:    replacement.DueDate,
		SetDueDate: true,
	}

	return ts.repo.Update(ctx, id, changes)
}

// PartialUpdate applies patch semantics: nil fields keep their stored
// values.
func (ts *TodoService) PartialUpdate(ctx context.Context, id int, userID int, changes domain.TodoChanges) (domain.Todo, error) {
	if _, err := ts.getOwned(ctx, id, userID); err != nil {
		return domain.Todo{}, err
	}

	if changes.Content != nil && strings.TrimSpace(*changes.Content) == "" {
		return domain.Todo{}, domain.ErrEmptyContent
	}

	return ts.repo.Update(ctx, id, changes)
}

// Delete removes the todo permanently. Deleting the same id twice
// reports not found on the second call.
func (ts *TodoService) Delete(ctx context.Context, id int, userID int) error {
	if _, err := ts.getOwned(ctx, id, userID); err != nil {
		return err
	}

	return ts.repo.Delete(ctx, id)
}

func (ts *TodoService) MarkCompleted(ctx context.Context, id int, userID int) (domain.Todo, error) {
	completed := false

	return ts.PartialUpdate(ctx, id, userID, domain.TodoChanges{Status: &completed})
}

func (ts *TodoService) MarkHighPriority(ctx context.Context, id int, userID int) (domain.Todo, error) {
	high := true

	return ts.PartialUpdate(ctx, id, userID, domain.TodoChanges{Priority: &high})
}

// ToggleStatus flips the open/completed flag; the web surface uses it
// for its one-click partial update.
func (ts *TodoService) ToggleStatus(ctx context.Context, id int, userID int) (domain.Todo, error) {
	todo, err := ts.getOwned(ctx, id, userID)

	if err != nil {
		return domain.Todo{}, err
	}

	flipped := !todo.Status

	return ts.repo.Update(ctx, id, domain.TodoChanges{Status: &flipped})
}
