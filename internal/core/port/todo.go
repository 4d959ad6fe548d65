package port

import (
	"context"

	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/response"
)

type TodoRepository interface {
	Create(ctx context.Context, todo domain.Todo) (domain.Todo, error)
	GetByID(ctx context.Context, id int) (domain.Todo, error)
	ListByUser(ctx context.Context, userID int, order domain.ListOrder) ([]domain.Todo, error)
	ListPage(ctx context.Context, userID int, limit int, cursor string) ([]domain.Todo, bool, error)
	Update(ctx context.Context, id int, changes domain.TodoChanges) (domain.Todo, error)
	Delete(ctx context.Context, id int) error
}

type TodoService interface {
	CreateForUser(ctx context.Context, userID int, todo domain.Todo) (domain.Todo, error)
	GetForUser(ctx context.Context, id int, userID int) (domain.Todo, error)
	ListForUser(ctx context.Context, userID int, order domain.ListOrder) ([]domain.Todo, error)
	ListPageForUser(ctx context.Context, userID int, limit int, cursor string) (*response.CursorResponse, error)
	FullUpdate(ctx context.Context, id int, userID int, replacement domain.Todo) (domain.Todo, error)
	PartialUpdate(ctx context.Context, id int, userID int, changes domain.TodoChanges) (domain.Todo, error)
	Delete(ctx context.Context, id int, userID int) error
	MarkCompleted(ctx context.Context, id int, userID int) (domain.Todo, error)
	MarkHighPriority(ctx context.Context, id int, userID int) (domain.Todo, error)
	ToggleStatus(ctx context.Context, id int, userID int) (domain.Todo, error)
}
