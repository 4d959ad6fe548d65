package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"todoapp/internal/core/telemetry"
	"todoapp/pkg/config"
)

// RateLimiter enforces fixed-window limits per endpoint. Authenticated
// endpoints count per user, public ones per client IP.
type RateLimiter struct {
	cache   *gocache.Cache
	configs map[string]config.RateLimitConfig
	logger  *zap.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.Mutex
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(configs map[string]config.RateLimitConfig, logger *zap.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	return &RateLimiter{
		cache:   gocache.New(5*time.Minute, 10*time.Minute),
		configs: configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		path = normalizePath(path)

		cfg, exists := rl.configs[path]
		if !exists {
			cfg = config.RateLimitConfig{Requests: 60, Window: time.Minute}
		}

		key := fmt.Sprintf("rate_limit:%s:%s", path, requesterKey(c))

		allowed, remaining, resetTime := rl.checkRateLimit(key, cfg)

		keyType := "ip"
		if strings.Contains(key, "user_") {
			keyType = "user"
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(path, keyType)
			}

			if rl.logger != nil {
				rl.logger.Warn("Rate limit exceeded",
					zap.String("key", key),
					zap.String("path", path),
					zap.Int("limit", cfg.Requests),
					zap.Duration("window", cfg.Window))
			}

			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", cfg.Requests, cfg.Window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			c.Abort()
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(path, keyType)
		}

		c.Next()
	}
}

func (rl *RateLimiter) checkRateLimit(key string, cfg config.RateLimitConfig) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if cached, found := rl.cache.Get(key); found {
		entry := cached.(rateLimitEntry)

		if now.After(entry.ResetTime) {
			resetTime := now.Add(cfg.Window)
			rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, cfg.Window)
			return true, cfg.Requests - 1, resetTime
		}

		if entry.Count >= cfg.Requests {
			return false, 0, entry.ResetTime
		}

		entry.Count++
		rl.cache.Set(key, entry, gocache.DefaultExpiration)

		return true, cfg.Requests - entry.Count, entry.ResetTime
	}

	resetTime := now.Add(cfg.Window)
	rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, cfg.Window)

	return true, cfg.Requests - 1, resetTime
}

// normalizePath collapses item paths onto their collection pattern so
// one config entry covers them.
func normalizePath(path string) string {
	if strings.HasPrefix(path, "/api/todos/") {
		return "/api/todos"
	}

	if strings.HasPrefix(path, "/todos/") {
		return "/todos"
	}

	return path
}

func requesterKey(c *gin.Context) string {
	if userID, exists := c.Get("x-user-id"); exists {
		return fmt.Sprintf("user_%v", userID)
	}

	return c.ClientIP()
}
