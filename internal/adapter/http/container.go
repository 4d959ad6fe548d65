package http

import (
	"todoapp/internal/adapter/http/handler"
	"todoapp/internal/core/port"
	"todoapp/internal/core/service"
	"todoapp/internal/core/telemetry"
	"todoapp/pkg/config"
)

type Container struct {
	UserRepo port.UserRepository
	TodoRepo port.TodoRepository

	UserUseCase    port.UserService
	TodoUseCase    port.TodoService
	AuthUseCase    port.AuthService
	SessionUseCase port.SessionService

	UserHandler *handler.UserHandler
	TodoHandler *handler.TodoHandler
	AuthHandler *handler.AuthHandler
	WebHandler  *handler.WebHandler
}

func NewContainer(todoRepo port.TodoRepository, userRepo port.UserRepository, cache port.CacheRepository, logger *config.AppLogger, metrics *telemetry.AppMetrics, cfg *config.AppConfig) *Container {
	authSvc := service.NewAuthService(userRepo)
	userSvc := service.NewUserService(userRepo)
	todoSvc := service.NewTodoService(todoRepo)
	sessionSvc := service.NewSessionService(cache, cfg.SessionTTL)

	authHandler := handler.NewAuthHandler(authSvc)
	userHandler := handler.NewUserHandler(userSvc)
	todoHandler := handler.NewTodoHandler(todoSvc, logger)
	webHandler := handler.NewWebHandler(todoSvc, authSvc, sessionSvc, logger)

	authHandler.Metrics = metrics
	todoHandler.Metrics = metrics
	webHandler.Metrics = metrics

	return &Container{
		TodoRepo: todoRepo,
		UserRepo: userRepo,

		TodoUseCase:    todoSvc,
		UserUseCase:    userSvc,
		AuthUseCase:    authSvc,
		SessionUseCase: sessionSvc,

		AuthHandler: authHandler,
		UserHandler: userHandler,
		TodoHandler: todoHandler,
		WebHandler:  webHandler,
	}
}
