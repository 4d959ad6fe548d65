package handler

import (
	"errors"
	"net/http"
	"strconv"

	. "todoapp/internal/adapter/http/helper"
	. "todoapp/internal/adapter/http/validation"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/request"
	"todoapp/internal/core/model/response"
	"todoapp/internal/core/port"
	"todoapp/internal/core/telemetry"
	"todoapp/internal/core/util"
	"todoapp/pkg/config"
	. "todoapp/pkg/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type TodoHandler struct {
	svc    port.TodoService
	Logger *config.AppLogger

	// Metrics is optional; tests leave it nil.
	Metrics *telemetry.AppMetrics
}

func NewTodoHandler(todoUseCase port.TodoService, logger *config.AppLogger) *TodoHandler {
	return &TodoHandler{
		svc:    todoUseCase,
		Logger: logger,
	}
}

func (t *TodoHandler) recordOperation(operation string) {
	if t.Metrics != nil {
		t.Metrics.RecordTodoOperation(operation)
	}
}

func (t *TodoHandler) GetAllTodos(c *gin.Context) {
	ctx, span := CreateChildSpan(c.Request.Context(), "handler.todo.GetAllTodos", []attribute.KeyValue{
		attribute.String("handler.operation", "GetAllTodos"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})

	defer span.End()

	userId := c.GetInt("x-user-id")
	cursor := c.Query("cursor")
	limit, _ := strconv.Atoi(c.Query("limit"))

	if limit <= 0 {
		limit = 10
	}

	span.SetAttributes(
		attribute.Int("user.id", userId),
		attribute.String("todo.cursor", cursor),
		attribute.Int("todo.limit", limit),
	)

	data, err := t.svc.ListPageForUser(ctx, userId, limit, cursor)

	if err != nil {
		AddSpanError(span, err)

		if errors.Is(err, domain.ErrInvalidCursor) {
			SendBadRequestError(c, "cursor", "Invalid pagination cursor")
			return
		}

		t.Logger.Logger.Ctx(ctx).Error("Failed to get todos",
			zap.Error(err),
			zap.Int("user_id", userId),
		)

		SendInternalError(c, "Error getting todos")
		return
	}

	span.SetAttributes(
		attribute.Int("http.status_code", http.StatusOK),
		attribute.String("response.type", "success"),
	)

	t.recordOperation("list")

	c.JSON(http.StatusOK, data)
}

func (t *TodoHandler) GetTodo(c *gin.Context) {
	ctx := c.Request.Context()

	userId := c.GetInt("x-user-id")
	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		SendBadRequestError(c, "id", "Invalid todo id")
		return
	}

	todo, err := t.svc.GetForUser(ctx, id, userId)

	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			SendNotFoundError(c, "Todo not found")
			return
		}

		SendInternalError(c, "Error getting todo")
		return
	}

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) CreateTodo(c *gin.Context) {
	ctx := c.Request.Context()

	userId := c.GetInt("x-user-id")

	params, err := util.ParamsToMap[request.CreateTodoRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	todo := domain.Todo{
		Content:  params.Content,
		Status:   true,
		Priority: params.Priority,
		DueDate:  params.DueDate,
	}

	if params.Status != nil {
		todo.Status = *params.Status
	}

	if params.CreatedAt != nil {
		todo.CreatedAt = *params.CreatedAt
	}

	if err := Validator.Struct(todo); err != nil {
		SendValidationError(c, err)
		return
	}

	todo, err = t.svc.CreateForUser(ctx, userId, todo)

	if err != nil {
		t.Logger.Logger.Ctx(ctx).Error("Error creating todo", zap.Error(err))

		if errors.Is(err, domain.ErrEmptyContent) {
			SendBadRequestError(c, "content", "Content cannot be empty")
			return
		}

		if validationErrors := FormatValidationErrors(err); len(validationErrors) > 0 {
			SendValidationError(c, err)
			return
		}

		SendBadRequestError(c, "creation", err.Error())
		return
	}

	t.recordOperation("create")

	SendSuccess(c, http.StatusCreated, response.NewTodoResponse(todo))
}

// ReplaceTodo handles PUT. Fields missing from the payload fall back to
// their zero values, including due_date.
func (t *TodoHandler) ReplaceTodo(c *gin.Context) {
	ctx := c.Request.Context()

	userId := c.GetInt("x-user-id")
	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		SendBadRequestError(c, "id", "Invalid todo id")
		return
	}

	params, err := util.ParamsToMap[request.ReplaceTodoRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	replacement := domain.Todo{
		Content:  params.Content,
		Status:   params.Status,
		Priority: params.Priority,
		DueDate:  params.DueDate,
	}

	if err := Validator.Struct(replacement); err != nil {
		SendValidationError(c, err)
		return
	}

	todo, err := t.svc.FullUpdate(ctx, id, userId, replacement)

	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			SendNotFoundError(c, "Todo not found")
			return
		}

		if errors.Is(err, domain.ErrEmptyContent) {
			SendBadRequestError(c, "content", "Content cannot be empty")
			return
		}

		SendBadRequestError(c, "update", err.Error())
		return
	}

	t.recordOperation("update")

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

// PatchTodo handles PATCH. Absent fields keep their stored values.
func (t *TodoHandler) PatchTodo(c *gin.Context) {
	ctx := c.Request.Context()

	userId := c.GetInt("x-user-id")
	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		SendBadRequestError(c, "id", "Invalid todo id")
		return
	}

	params, err := util.ParamsToMap[request.PatchTodoRequest](c)

	if err != nil {
		SendBadRequestError(c, "request", "Invalid request parameters")
		return
	}

	changes := domain.TodoChanges{
		Content:  params.Content,
		Status:   params.Status,
		Priority: params.Priority,
	}

	if params.DueDate != nil {
		changes.DueDate = params.DueDate
		changes.SetDueDate = true
	}

	todo, err := t.svc.PartialUpdate(ctx, id, userId, changes)

	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			SendNotFoundError(c, "Todo not found")
			return
		}

		if errors.Is(err, domain.ErrEmptyContent) {
			SendBadRequestError(c, "content", "Content cannot be empty")
			return
		}

		SendBadRequestError(c, "update", err.Error())
		return
	}

	t.recordOperation("update")

	SendSuccess(c, http.StatusOK, response.NewTodoResponse(todo))
}

func (t *TodoHandler) DeleteTodo(c *gin.Context) {
	ctx := c.Request.Context()

	userId := c.GetInt("x-user-id")
	id, err := strconv.Atoi(c.Param("id"))

	if err != nil {
		SendBadRequestError(c, "id", "Invalid todo id")
		return
	}

	if err := t.svc.Delete(ctx, id, userId); err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			SendNotFoundError(c, "Todo not found")
			return
		}

		SendInternalError(c, "Error deleting todo")
		return
	}

	t.recordOperation("delete")

	c.JSON(http.StatusOK, gin.H{
		"message": "Todo deleted successfully",
	})
}
