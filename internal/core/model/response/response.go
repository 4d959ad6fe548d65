package response

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"todoapp/internal/core/domain"
)

type UserResponse struct {
	UUID      uuid.UUID `json:"uuid"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TodoResponse struct {
	ID        int        `json:"id"`
	UUID      uuid.UUID  `json:"uuid"`
	Content   string     `json:"content"`
	Status    bool       `json:"status"`
	Priority  bool       `json:"priority"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewTodoResponse(todo domain.Todo) TodoResponse {
	return TodoResponse{
		ID:        todo.ID,
		UUID:      todo.UUID,
		Content:   todo.Content,
		Status:    todo.Status,
		Priority:  todo.Priority,
		DueDate:   todo.DueDate,
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}
}

type CursorResponse struct {
	Size       int             `json:"size"`
	Data       json.RawMessage `json:"data"`
	Pagination struct {
		HasNext    bool   `json:"has_next"`
		NextCursor string `json:"next_cursor"`
	} `json:"pagination"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ResponseError struct {
	Code    string            `json:"code"`
	Errors  []ValidationError `json:"errors"`
	Details any               `json:"details,omitempty"`
}

type SuccessResponse struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error ResponseError `json:"error"`
}
