package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	. "todoapp/pkg/test"

	"todoapp/internal/adapter/database/memory"
	"todoapp/internal/adapter/database/sqlite"
	"todoapp/internal/adapter/database/sqlite/repository"
	"todoapp/internal/adapter/http/middleware"
	"todoapp/internal/core/domain"
	"todoapp/internal/core/model/request"
	"todoapp/internal/core/port"
	"todoapp/internal/core/service"
	"todoapp/pkg/config"
)

type WebHandlerSuite struct {
	suite.Suite
	UserRepo port.UserRepository
	TodoRepo port.TodoRepository
	Auth     port.AuthService
	Sessions port.SessionService
	Router   *gin.Engine
}

func (s *WebHandlerSuite) SetupTest() {
	db := sqlite.Wrap(InitTestDB())

	s.TodoRepo = repository.NewTodoRepository(db)
	s.UserRepo = repository.NewUserRepository(db)

	todoSvc := service.NewTodoService(s.TodoRepo)
	authSvc := service.NewAuthService(s.UserRepo)
	sessionSvc := service.NewSessionService(memory.NewMemoryRepository(), time.Hour)

	s.Auth = authSvc
	s.Sessions = sessionSvc

	logger, _ := config.NewAppLogger("todoapp-test")
	webHandler := NewWebHandler(todoSvc, authSvc, sessionSvc, logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.LoadHTMLGlob("../../../../web/templates/*.html")

	router.GET("/login", webHandler.LoginPage)
	router.POST("/login", webHandler.Login)
	router.POST("/logout", webHandler.Logout)

	web := router.Group("/")
	web.Use(middleware.SessionMiddleware(sessionSvc))
	{
		web.GET("/", webHandler.Index)
		web.POST("/todos", webHandler.CreateTodo)
		web.POST("/todos/:id/toggle", webHandler.ToggleTodo)
		web.POST("/todos/:id/delete", webHandler.DeleteTodo)
	}

	s.Router = router
}

func TestWebHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(WebHandlerSuite))
}

func (s *WebHandlerSuite) signUp(email string) int {
	user, err := s.Auth.Registration(ctx, &request.SignUpRequest{
		Email:    email,
		Password: "password123",
	})

	Expect(err).To(BeNil())

	return user.ID
}

func (s *WebHandlerSuite) sessionCookie(userID int) *http.Cookie {
	session, err := s.Sessions.Create(ctx, userID)

	Expect(err).To(BeNil())

	return &http.Cookie{Name: middleware.SessionCookieName, Value: session.ID}
}

func (s *WebHandlerSuite) doForm(cookie *http.Cookie, path string, form url.Values) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if cookie != nil {
		req.AddCookie(cookie)
	}

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func todoPath(id int) string {
	return strconv.Itoa(id)
}

func (s *WebHandlerSuite) TestIndex_RedirectsWithoutSession() {
	req, _ := http.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusSeeOther))
	Expect(rr.Header().Get("Location")).To(Equal("/login"))
}

func (s *WebHandlerSuite) TestIndex_RedirectsWithStaleSession() {
	req, _ := http.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "stale-session"})
	rr := httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusSeeOther))
	Expect(rr.Header().Get("Location")).To(Equal("/login"))
}

func (s *WebHandlerSuite) TestIndex_ShowsTodosAndCount() {
	userID := s.signUp("test@example.com")
	cookie := s.sessionCookie(userID)

	rr := s.doForm(cookie, "/todos", url.Values{"content": {"walk the dog"}})
	Expect(rr.Code).To(Equal(http.StatusOK))

	req, _ := http.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(ContainSubstring("walk the dog"))
	Expect(rr.Body.String()).To(ContainSubstring("1 item"))
}

func (s *WebHandlerSuite) TestLogin_SetsSessionCookie() {
	s.signUp("test@example.com")

	rr := s.doForm(nil, "/login", url.Values{
		"email":    {"test@example.com"},
		"password": {"password123"},
	})

	Expect(rr.Code).To(Equal(http.StatusSeeOther))
	Expect(rr.Header().Get("Location")).To(Equal("/"))

	cookies := rr.Result().Cookies()
	Expect(cookies).NotTo(BeEmpty())
	Expect(cookies[0].Name).To(Equal(middleware.SessionCookieName))
	Expect(cookies[0].Value).NotTo(BeEmpty())
}

func (s *WebHandlerSuite) TestLogin_WrongPassword() {
	s.signUp("test@example.com")

	rr := s.doForm(nil, "/login", url.Values{
		"email":    {"test@example.com"},
		"password": {"wrong-password"},
	})

	Expect(rr.Code).To(Equal(http.StatusUnauthorized))
	Expect(rr.Body.String()).To(ContainSubstring("Invalid email or password"))
}

func (s *WebHandlerSuite) TestCreateTodo_RendersFragment() {
	userID := s.signUp("test@example.com")
	cookie := s.sessionCookie(userID)

	rr := s.doForm(cookie, "/todos", url.Values{"content": {"buy milk"}})

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(ContainSubstring("buy milk"))
	Expect(rr.Body.String()).To(ContainSubstring("todo-item"))
}

func (s *WebHandlerSuite) TestCreateTodo_SanitizesContent() {
	userID := s.signUp("test@example.com")
	cookie := s.sessionCookie(userID)

	rr := s.doForm(cookie, "/todos", url.Values{"content": {`hello<script>alert("x")</script>`}})

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(ContainSubstring("hello"))
	Expect(rr.Body.String()).NotTo(ContainSubstring("<script>"))
}

func (s *WebHandlerSuite) TestCreateTodo_EmptyContent() {
	userID := s.signUp("test@example.com")
	cookie := s.sessionCookie(userID)

	rr := s.doForm(cookie, "/todos", url.Values{"content": {"   "}})

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
}

func (s *WebHandlerSuite) TestToggleTodo_RendersCompletedFragment() {
	userID := s.signUp("test@example.com")
	cookie := s.sessionCookie(userID)

	rr := s.doForm(cookie, "/todos", url.Values{"content": {"toggle me"}})
	Expect(rr.Code).To(Equal(http.StatusOK))

	todos, err := s.TodoRepo.ListByUser(ctx, userID, domain.OrderCreatedAsc)
	Expect(err).To(BeNil())
	Expect(todos).To(HaveLen(1))

	rr = s.doForm(cookie, "/todos/"+todoPath(todos[0].ID)+"/toggle", url.Values{})

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.String()).To(ContainSubstring("completed"))
}

func (s *WebHandlerSuite) TestDeleteTodo_EmptyBody() {
	userID := s.signUp("test@example.com")
	cookie := s.sessionCookie(userID)

	rr := s.doForm(cookie, "/todos", url.Values{"content": {"delete me"}})
	Expect(rr.Code).To(Equal(http.StatusOK))

	todos, err := s.TodoRepo.ListByUser(ctx, userID, domain.OrderCreatedAsc)
	Expect(err).To(BeNil())
	Expect(todos).To(HaveLen(1))

	rr = s.doForm(cookie, "/todos/"+todoPath(todos[0].ID)+"/delete", url.Values{})

	Expect(rr.Code).To(Equal(http.StatusOK))
	Expect(rr.Body.Len()).To(Equal(0))
}

func (s *WebHandlerSuite) TestToggleTodo_NotOwned() {
	alice := s.signUp("alice@example.com")
	bob := s.signUp("bob@example.com")

	cookie := s.sessionCookie(alice)
	rr := s.doForm(cookie, "/todos", url.Values{"content": {"alice todo"}})
	Expect(rr.Code).To(Equal(http.StatusOK))

	todos, err := s.TodoRepo.ListByUser(ctx, alice, domain.OrderCreatedAsc)
	Expect(err).To(BeNil())

	bobCookie := s.sessionCookie(bob)
	rr = s.doForm(bobCookie, "/todos/"+todoPath(todos[0].ID)+"/toggle", url.Values{})

	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *WebHandlerSuite) TestLogout_ClearsSession() {
	userID := s.signUp("test@example.com")
	cookie := s.sessionCookie(userID)

	rr := s.doForm(cookie, "/logout", url.Values{})

	Expect(rr.Code).To(Equal(http.StatusSeeOther))
	Expect(rr.Header().Get("Location")).To(Equal("/login"))

	req, _ := http.NewRequest("GET", "/", nil)
	req.AddCookie(cookie)
	rr = httptest.NewRecorder()

	s.Router.ServeHTTP(rr, req)

	Expect(rr.Code).To(Equal(http.StatusSeeOther))
}
