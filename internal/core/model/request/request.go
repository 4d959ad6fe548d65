package request

import "time"

type SignUpRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email,max=255"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=100"`
}

type LoginRequest struct {
	Email    string `json:"email,omitempty" validate:"required,email,max=255"`
	Password string `json:"password,omitempty" validate:"required,min=6,max=100"`
}

// CreateTodoRequest creates a todo. Status is optional and defaults to
// open. CreatedAt may be supplied to backdate a record. UserID is
// accepted but ignored; the owner is always the authenticated caller.
type CreateTodoRequest struct {
	Content   string     `json:"content" validate:"required,max=1000"`
	Status    *bool      `json:"status,omitempty"`
	Priority  bool       `json:"priority,omitempty"`
	DueDate   *time.Time `json:"due_date,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UserID    int        `json:"user_id,omitempty"`
}

// ReplaceTodoRequest carries PUT semantics: every mutable field takes
// the payload value, so omitted fields fall back to their zero value.
type ReplaceTodoRequest struct {
	Content  string     `json:"content" validate:"required,max=1000"`
	Status   bool       `json:"status"`
	Priority bool       `json:"priority"`
	DueDate  *time.Time `json:"due_date"`
	UserID   int        `json:"user_id,omitempty"`
}

// PatchTodoRequest carries PATCH semantics: nil fields keep their
// stored values.
type PatchTodoRequest struct {
	Content  *string    `json:"content,omitempty" validate:"omitempty,max=1000"`
	Status   *bool      `json:"status,omitempty"`
	Priority *bool      `json:"priority,omitempty"`
	DueDate  *time.Time `json:"due_date,omitempty"`
	UserID   int        `json:"user_id,omitempty"`
}
