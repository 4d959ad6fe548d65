package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"todoapp/internal/adapter/http/middleware"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/request"
	"todoapp/internal/core/port"
	"todoapp/internal/core/telemetry"
	"todoapp/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

// WebHandler serves the server-rendered surface. Every response is a
// full page or an HTML fragment, never a JSON envelope.
type WebHandler struct {
	todos    port.TodoService
	auth     port.AuthService
	sessions port.SessionService
	policy   *bluemonday.Policy
	Logger   *config.AppLogger

	// Metrics is optional; tests leave it nil.
	Metrics *telemetry.AppMetrics
}

func NewWebHandler(todos port.TodoService, auth port.AuthService, sessions port.SessionService, logger *config.AppLogger) *WebHandler {
	return &WebHandler{
		todos:    todos,
		auth:     auth,
		sessions: sessions,
		policy:   bluemonday.StrictPolicy(),
		Logger:   logger,
	}
}

type todoItemView struct {
	ID       int
	Content  string
	Status   bool
	Priority bool
	DueDate  *time.Time
	Recent   bool
}

func (w *WebHandler) recordOperation(operation string) {
	if w.Metrics != nil {
		w.Metrics.RecordTodoOperation(operation)
	}
}

func newTodoItemView(todo domain.Todo) todoItemView {
	return todoItemView{
		ID:       todo.ID,
		Content:  todo.Content,
		Status:   todo.Status,
		Priority: todo.Priority,
		DueDate:  todo.DueDate,
		Recent:   todo.WasCreatedRecently(time.Now()),
	}
}

func (w *WebHandler) Index(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	todos, err := w.todos.ListForUser(ctx, userId, domain.OrderCreatedAsc)

	if err != nil {
		w.Logger.Logger.Ctx(ctx).Error("Failed to list todos", zap.Error(err), zap.Int("user_id", userId))
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}

	items := make([]todoItemView, 0, len(todos))
	for _, todo := range todos {
		items = append(items, newTodoItemView(todo))
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Todos": items,
		"Count": len(items),
	})
}

func (w *WebHandler) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	content := strings.TrimSpace(w.policy.Sanitize(c.PostForm("content")))

	todo, err := w.todos.CreateForUser(ctx, userId, domain.Todo{
		Content: content,
		Status:  true,
	})

	if err != nil {
		if errors.Is(err, domain.ErrEmptyContent) {
			c.String(http.StatusBadRequest, "Content cannot be empty")
			return
		}

		w.Logger.Logger.Ctx(ctx).Error("Failed to create todo", zap.Error(err), zap.Int("user_id", userId))
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}

	w.recordOperation("create")

	c.HTML(http.StatusOK, "todo_item", newTodoItemView(todo))
}

func (w *WebHandler) ToggleTodo(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		c.String(http.StatusBadRequest, "Invalid todo id")
		return
	}

	todo, err := w.todos.ToggleStatus(ctx, id, userId)

	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			c.String(http.StatusNotFound, "Todo not found")
			return
		}

		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}

	w.recordOperation("toggle")

	c.HTML(http.StatusOK, "todo_item", newTodoItemView(todo))
}

func (w *WebHandler) DeleteTodo(c *gin.Context) {
	ctx := c.Request.Context()
	userId := c.GetInt("x-user-id")

	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		c.String(http.StatusBadRequest, "Invalid todo id")
		return
	}

	if err := w.todos.Delete(ctx, id, userId); err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			c.String(http.StatusNotFound, "Todo not found")
			return
		}

		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}

	w.recordOperation("delete")

	c.Status(http.StatusOK)
}

func (w *WebHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

func (w *WebHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	params := request.LoginRequest{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	user, err := w.auth.Authenticate(ctx, &params)

	if err != nil {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{
			"Error": "Invalid email or password",
		})
		return
	}

	session, err := w.sessions.Create(ctx, user.ID)

	if err != nil {
		w.Logger.Logger.Ctx(ctx).Error("Failed to create session", zap.Error(err), zap.Int("user_id", user.ID))
		c.String(http.StatusInternalServerError, "Something went wrong")
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(middleware.SessionCookieName, session.ID, maxAge, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/")
}

func (w *WebHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if sessionId, err := c.Cookie(middleware.SessionCookieName); err == nil {
		if err := w.sessions.Destroy(ctx, sessionId); err != nil {
			w.Logger.Logger.Ctx(ctx).Warn("Failed to destroy session", zap.Error(err))
		}
	}

	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, "/login")
}
