package domain

import (
	"time"

	"github.com/google/uuid"
)

// ListOrder is the ordering applied to owner-scoped listings. The web
// page reads oldest-first, the API collection newest-first; both are
// explicit options rather than a hardcoded default.
type ListOrder string

const (
	OrderCreatedAsc  ListOrder = "created_at ASC, id ASC"
	OrderCreatedDesc ListOrder = "created_at DESC, id DESC"
)

// RecentWindow is how far back a todo still counts as recently created.
const RecentWindow = 24 * time.Hour

// Todo is the sole entity owned by this application. Status is true
// while the todo is open and false once completed. UserId is fixed at
// creation and never changed by updates.
type Todo struct {
	ID        int
	UUID      uuid.UUID
	Content   string `validate:"required,max=1000"`
	Status    bool
	Priority  bool
	DueDate   *time.Time
	UserId    int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TodoChanges is a sparse change set applied by repository updates.
// Nil fields are left untouched. DueDate applies only when SetDueDate
// is true, so a replace-style update can clear it to NULL.
// There is deliberately no owner field here.
type TodoChanges struct {
	Content    *string
	Status     *bool
	Priority   *bool
	DueDate    *time.Time
	SetDueDate bool
}

// IsEmpty reports whether the change set would touch no columns.
func (c TodoChanges) IsEmpty() bool {
	return c.Content == nil && c.Status == nil && c.Priority == nil && !c.SetDueDate
}

// Label is the display string for a todo.
func (t *Todo) Label() string {
	return t.Content
}

// BelongsToUser is the ownership gate. Callers that fail this check
// must behave exactly as if the todo did not exist.
func (t *Todo) BelongsToUser(userID int) bool {
	return t.UserId == userID
}

// WasCreatedRecently reports whether the todo was created strictly less
// than RecentWindow before now. A todo created exactly 24h ago is not
// recent.
func (t *Todo) WasCreatedRecently(now time.Time) bool {
	return now.Sub(t.CreatedAt) < RecentWindow
}

func (t *Todo) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":         t.ID,
		"uuid":       t.UUID,
		"content":    t.Content,
		"status":     t.Status,
		"priority":   t.Priority,
		"due_date":   t.DueDate,
		"user_id":    t.UserId,
		"created_at": t.CreatedAt,
		"updated_at": t.UpdatedAt,
	}
}
