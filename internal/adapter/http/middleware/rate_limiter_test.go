package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"todoapp/internal/core/telemetry"
	"todoapp/pkg/config"
)

func limiterRouter(rl *RateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())

	router.GET("/test", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	router.POST("/login", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router
}

func TestNewRateLimiter(t *testing.T) {
	RegisterTestingT(t)

	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(config.GetDefaultConfig().RateLimitConfigs, zap.NewNop(), metrics)

	Expect(rl).ToNot(BeNil())
	Expect(rl.cache).ToNot(BeNil())
	Expect(rl.configs).ToNot(BeNil())
}

func TestRateLimitMiddleware_AllowedRequests(t *testing.T) {
	RegisterTestingT(t)

	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(config.GetDefaultConfig().RateLimitConfigs, zap.NewNop(), metrics)
	router := limiterRouter(rl)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(200))
		Expect(w.Header().Get("X-RateLimit-Limit")).ToNot(BeEmpty())
		Expect(w.Header().Get("X-RateLimit-Remaining")).ToNot(BeEmpty())
	}
}

func TestRateLimitMiddleware_ExceedLimit(t *testing.T) {
	RegisterTestingT(t)

	configs := map[string]config.RateLimitConfig{
		"/test": {Requests: 3, Window: time.Minute},
	}

	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(configs, zap.NewNop(), metrics)
	router := limiterRouter(rl)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/test", nil)
		router.ServeHTTP(w, req)

		if i < 3 {
			Expect(w.Code).To(Equal(200))
		} else {
			Expect(w.Code).To(Equal(429))
			Expect(w.Body.String()).To(ContainSubstring("retry_after"))
		}
	}
}

func TestRateLimitMiddleware_PerEndpointConfig(t *testing.T) {
	RegisterTestingT(t)

	configs := map[string]config.RateLimitConfig{
		"/test":  {Requests: 1, Window: time.Minute},
		"/login": {Requests: 10, Window: time.Minute},
	}

	metrics := telemetry.NewAppMetrics(prometheus.NewRegistry())
	rl := NewRateLimiter(configs, zap.NewNop(), metrics)
	router := limiterRouter(rl)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(200))

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/test", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(429))

	// The other endpoint keeps its own window.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/login", nil)
	router.ServeHTTP(w, req)
	Expect(w.Code).To(Equal(200))
}

func TestNormalizePath(t *testing.T) {
	RegisterTestingT(t)

	Expect(normalizePath("/api/todos/42")).To(Equal("/api/todos"))
	Expect(normalizePath("/todos/42/toggle")).To(Equal("/todos"))
	Expect(normalizePath("/signup")).To(Equal("/signup"))
}
