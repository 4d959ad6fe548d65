package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	. "todoapp/pkg/test"

	"todoapp/internal/adapter/database/sqlite"
	"todoapp/internal/adapter/database/sqlite/repository"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/response"
	"todoapp/internal/core/port"
	"todoapp/internal/core/service"
	"todoapp/pkg/auth"
	"todoapp/pkg/config"

	factory "todoapp/pkg/test/factory"
)

type TodoHandlerSuite struct {
	suite.Suite
	UserRepo port.UserRepository
	TodoRepo port.TodoRepository
	Router   *gin.Engine
}

var ctx = context.Background()

func (s *TodoHandlerSuite) SetupTest() {
	s.T().Setenv("JWT_SECRET", "test-jwt-secret")
	s.T().Setenv("CURSOR_SECRET_KEY", "test-secret")

	db := sqlite.Wrap(InitTestDB())

	s.TodoRepo = repository.NewTodoRepository(db)
	s.UserRepo = repository.NewUserRepository(db)

	todoSvc := service.NewTodoService(s.TodoRepo)
	logger, _ := config.NewAppLogger("todoapp-test")

	s.Router = setupTodoTestRouter(NewTodoHandler(todoSvc, logger))
}

func TestTodoHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TodoHandlerSuite))
}

func setupTodoTestRouter(todoHandler *TodoHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(gin.Recovery())

	api := router.Group("/api")
	api.Use(auth.GinJwtMiddleware())
	{
		api.GET("/todos", todoHandler.GetAllTodos)
		api.POST("/todos", todoHandler.CreateTodo)
		api.GET("/todos/:id", todoHandler.GetTodo)
		api.PUT("/todos/:id", todoHandler.ReplaceTodo)
		api.PATCH("/todos/:id", todoHandler.PatchTodo)
		api.DELETE("/todos/:id", todoHandler.DeleteTodo)
	}

	return router
}

func (s *TodoHandlerSuite) createUser(email string) domain.User {
	user, err := s.UserRepo.Create(ctx, factory.NewUser[domain.User](map[string]any{
		"Email": email,
		"UUID":  uuid.New(),
	}))

	Expect(err).To(BeNil())

	return user
}

func (s *TodoHandlerSuite) createTodo(userId int, content string) domain.Todo {
	todo, err := s.TodoRepo.Create(ctx, domain.Todo{
		UUID:      uuid.New(),
		Content:   content,
		Status:    true,
		UserId:    userId,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})

	Expect(err).To(BeNil())

	return todo
}

func (s *TodoHandlerSuite) doRequest(user *domain.User, method, path string, body string) *httptest.ResponseRecorder {
	var reader io.Reader

	if body != "" {
		reader = strings.NewReader(body)
	}

	req, _ := http.NewRequest(method, path, reader)

	if user != nil {
		jwtToken, _ := auth.CreateJwtTokenForUser(user.ID)
		req.Header.Set("Authorization", "Bearer "+jwtToken)
	}

	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func (s *TodoHandlerSuite) TestGetAllTodos_Unauthorized() {
	rr := s.doRequest(nil, "GET", "/api/todos", "")

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
}

func (s *TodoHandlerSuite) TestGetAllTodos_WithData() {
	user := s.createUser("user99@example.com")
	s.createTodo(user.ID, "Task 99")

	rr := s.doRequest(&user, "GET", "/api/todos", "")

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Header().Get("Content-Type")).To(ContainSubstring("application/json"))

	data := response.CursorResponse{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	var todos []response.TodoResponse
	json.Unmarshal(data.Data, &todos)

	Expect(data.Size).To(Equal(1))
	Expect(todos).To(HaveLen(1))
	Expect(todos[0].Content).To(Equal("Task 99"))
}

func (s *TodoHandlerSuite) TestGetAllTodos_OnlyOwnTodos() {
	alice := s.createUser("alice@example.com")
	bob := s.createUser("bob@example.com")

	s.createTodo(alice.ID, "alice todo")
	s.createTodo(bob.ID, "bob todo")

	rr := s.doRequest(&alice, "GET", "/api/todos", "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	data := response.CursorResponse{}
	json.Unmarshal(rr.Body.Bytes(), &data)

	Expect(data.Size).To(Equal(1))
}

func (s *TodoHandlerSuite) TestCreateTodo_DefaultsOpen() {
	user := s.createUser("user99@example.com")

	rr := s.doRequest(&user, "POST", "/api/todos", `{"content": "Buy milk"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	var envelope struct {
		Data response.TodoResponse `json:"data"`
	}
	json.Unmarshal(rr.Body.Bytes(), &envelope)

	Expect(envelope.Data.Content).To(Equal("Buy milk"))
	Expect(envelope.Data.Status).To(BeTrue())
	Expect(envelope.Data.Priority).To(BeFalse())
}

func (s *TodoHandlerSuite) TestCreateTodo_IgnoresPayloadOwner() {
	user := s.createUser("user99@example.com")

	rr := s.doRequest(&user, "POST", "/api/todos", `{"content": "Sneaky", "user_id": 9999}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	var envelope struct {
		Data response.TodoResponse `json:"data"`
	}
	json.Unmarshal(rr.Body.Bytes(), &envelope)

	stored, err := s.TodoRepo.GetByID(ctx, envelope.Data.ID)

	Expect(err).To(BeNil())
	Expect(stored.UserId).To(Equal(user.ID))
}

func (s *TodoHandlerSuite) TestCreateTodo_EmptyContent() {
	user := s.createUser("user99@example.com")

	rr := s.doRequest(&user, "POST", "/api/todos", `{"content": ""}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	var envelope response.ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &envelope)

	Expect(envelope.Error.Errors).NotTo(BeEmpty())
}

func (s *TodoHandlerSuite) TestGetTodo_NotOwnedReturns404() {
	alice := s.createUser("alice@example.com")
	bob := s.createUser("bob@example.com")

	todo := s.createTodo(alice.ID, "alice todo")

	rr := s.doRequest(&bob, "GET", fmt.Sprintf("/api/todos/%d", todo.ID), "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TodoHandlerSuite) TestReplaceTodo_ClearsDueDate() {
	user := s.createUser("user99@example.com")

	due := time.Now().Add(48 * time.Hour)
	todo, err := s.TodoRepo.Create(ctx, domain.Todo{
		UUID:      uuid.New(),
		Content:   "with due date",
		Status:    true,
		DueDate:   &due,
		UserId:    user.ID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})

	Expect(err).To(BeNil())

	rr := s.doRequest(&user, "PUT", fmt.Sprintf("/api/todos/%d", todo.ID), `{"content": "replaced", "status": false}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var envelope struct {
		Data response.TodoResponse `json:"data"`
	}
	json.Unmarshal(rr.Body.Bytes(), &envelope)

	Expect(envelope.Data.Content).To(Equal("replaced"))
	Expect(envelope.Data.Status).To(BeFalse())
	Expect(envelope.Data.DueDate).To(BeNil())
}

func (s *TodoHandlerSuite) TestPatchTodo_KeepsDueDate() {
	user := s.createUser("user99@example.com")

	due := time.Now().Add(48 * time.Hour)
	todo, err := s.TodoRepo.Create(ctx, domain.Todo{
		UUID:      uuid.New(),
		Content:   "with due date",
		Status:    true,
		DueDate:   &due,
		UserId:    user.ID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	})

	Expect(err).To(BeNil())

	rr := s.doRequest(&user, "PATCH", fmt.Sprintf("/api/todos/%d", todo.ID), `{"status": false}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	var envelope struct {
		Data response.TodoResponse `json:"data"`
	}
	json.Unmarshal(rr.Body.Bytes(), &envelope)

	Expect(envelope.Data.Content).To(Equal("with due date"))
	Expect(envelope.Data.Status).To(BeFalse())
	Expect(envelope.Data.DueDate).NotTo(BeNil())
}

func (s *TodoHandlerSuite) TestGetAllTodos_InvalidCursor() {
	user := s.createUser("user99@example.com")
	s.createTodo(user.ID, "Task 99")

	rr := s.doRequest(&user, "GET", "/api/todos?cursor=not-a-cursor", "")

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	var envelope response.ErrorResponse
	json.Unmarshal(rr.Body.Bytes(), &envelope)

	Expect(envelope.Error.Code).To(Equal("BAD_REQUEST"))
	Expect(envelope.Error.Errors).NotTo(BeEmpty())
	Expect(envelope.Error.Errors[0].Field).To(Equal("cursor"))
}

func (s *TodoHandlerSuite) TestReplaceTodo_IgnoresPayloadOwner() {
	alice := s.createUser("alice@example.com")
	bob := s.createUser("bob@example.com")

	todo := s.createTodo(alice.ID, "alice todo")

	body := fmt.Sprintf(`{"content": "replaced", "user_id": %d}`, bob.ID)
	rr := s.doRequest(&alice, "PUT", fmt.Sprintf("/api/todos/%d", todo.ID), body)

	Expect(rr.Code).To(Equal(http.StatusOK))

	stored, err := s.TodoRepo.GetByID(ctx, todo.ID)

	Expect(err).To(BeNil())
	Expect(stored.Content).To(Equal("replaced"))
	Expect(stored.UserId).To(Equal(alice.ID))
}

func (s *TodoHandlerSuite) TestPatchTodo_IgnoresPayloadOwner() {
	alice := s.createUser("alice@example.com")
	bob := s.createUser("bob@example.com")

	todo := s.createTodo(alice.ID, "alice todo")

	body := fmt.Sprintf(`{"status": false, "user_id": %d}`, bob.ID)
	rr := s.doRequest(&alice, "PATCH", fmt.Sprintf("/api/todos/%d", todo.ID), body)

	Expect(rr.Code).To(Equal(http.StatusOK))

	stored, err := s.TodoRepo.GetByID(ctx, todo.ID)

	Expect(err).To(BeNil())
	Expect(stored.Status).To(BeFalse())
	Expect(stored.UserId).To(Equal(alice.ID))
}

func (s *TodoHandlerSuite) TestDeleteTodo_ThenNotFound() {
	user := s.createUser("user99@example.com")
	todo := s.createTodo(user.ID, "ephemeral")

	rr := s.doRequest(&user, "DELETE", fmt.Sprintf("/api/todos/%d", todo.ID), "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	rr = s.doRequest(&user, "DELETE", fmt.Sprintf("/api/todos/%d", todo.ID), "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}
