package routes

import (
	"todoapp/internal/adapter/http/handler"
	"todoapp/internal/adapter/http/middleware"
	"todoapp/internal/core/telemetry"
	. "todoapp/pkg/auth"
	"todoapp/pkg/config"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type HandlersConfig struct {
	AuthHandler *handler.AuthHandler
	TodoHandler *handler.TodoHandler
	UserHandler *handler.UserHandler
	WebHandler  *handler.WebHandler

	// SessionGuard protects the browser routes. Required whenever
	// WebHandler is set.
	SessionGuard gin.HandlerFunc

	// RateLimit is attached inside each route group, after the auth
	// middleware, so authenticated traffic is keyed per user rather
	// than per client IP.
	RateLimit gin.HandlerFunc

	// TemplatesGlob overrides the default template location, used by
	// tests that run from a package directory.
	TemplatesGlob string
}

func SetupRouter(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *config.AppLogger) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, logger, config.GetDefaultConfig())
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *telemetry.AppMetrics, logger *config.AppLogger, cfg *config.AppConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(otelgin.Middleware(logger.ServiceName()))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware(logger))

	if cfg.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.RateLimitConfigs, logger.Logger.Logger, metrics)
		handlers.RateLimit = rateLimiter.RateLimitMiddleware()
	}

	router.Use(middleware.MetricsMiddleware(metrics))
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	registerRoutes(router, handlers)

	return router
}

func registerRoutes(router *gin.Engine, handlers HandlersConfig) {
	if handlers.WebHandler != nil {
		glob := handlers.TemplatesGlob
		if glob == "" {
			glob = "web/templates/*.html"
		}
		router.LoadHTMLGlob(glob)
	}

	if handlers.AuthHandler != nil {
		setupPublicRoutes(router, handlers)
	}

	if handlers.TodoHandler != nil {
		setupAPIRoutes(router, handlers)
	}

	if handlers.WebHandler != nil {
		setupWebRoutes(router, handlers)
	}
}

func setupPublicRoutes(router *gin.Engine, handlers HandlersConfig) {
	authHandler := handlers.AuthHandler

	public := router.Group("/")

	if handlers.RateLimit != nil {
		public.Use(handlers.RateLimit)
	}

	{
		public.POST("/signup", authHandler.RegisterByEmailAndPassword)
		public.POST("/auth", authHandler.AuthByEmailAndPassword)
	}
}

func setupAPIRoutes(router *gin.Engine, handlers HandlersConfig) {
	todoHandler := handlers.TodoHandler

	api := router.Group("/api")
	api.Use(GinJwtMiddleware())

	if handlers.RateLimit != nil {
		api.Use(handlers.RateLimit)
	}

	{
		api.GET("/todos", todoHandler.GetAllTodos)
		api.POST("/todos", todoHandler.CreateTodo)
		api.GET("/todos/:id", todoHandler.GetTodo)
		api.PUT("/todos/:id", todoHandler.ReplaceTodo)
		api.PATCH("/todos/:id", todoHandler.PatchTodo)
		api.DELETE("/todos/:id", todoHandler.DeleteTodo)

		if handlers.UserHandler != nil {
			api.GET("/me", handlers.UserHandler.Me)
		}
	}
}

func setupWebRoutes(router *gin.Engine, handlers HandlersConfig) {
	webHandler := handlers.WebHandler

	login := router.Group("/")

	if handlers.RateLimit != nil {
		login.Use(handlers.RateLimit)
	}

	login.GET("/login", webHandler.LoginPage)
	login.POST("/login", webHandler.Login)
	login.POST("/logout", webHandler.Logout)

	web := router.Group("/")

	if handlers.SessionGuard != nil {
		web.Use(handlers.SessionGuard)
	}

	if handlers.RateLimit != nil {
		web.Use(handlers.RateLimit)
	}

	{
		web.GET("/", webHandler.Index)
		web.POST("/todos", webHandler.CreateTodo)
		web.POST("/todos/:id/toggle", webHandler.ToggleTodo)
		web.POST("/todos/:id/delete", webHandler.DeleteTodo)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	registerRoutes(router, handlers)

	return router
}
