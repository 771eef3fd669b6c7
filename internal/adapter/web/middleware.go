package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"hotel-services/internal/logger"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// RequestID returns the id assigned to the request by WithRequestID
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// WithRequestID tags every request with an id, reusing the caller's
// X-Request-ID header when present.
func WithRequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = logger.GenerateRequestID()
		}
		c.Set(requestIDKey, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// WithLogging logs the start and completion of every request
func WithLogging(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := RequestID(c)
		path := c.Request.URL.Path

		log.Debug("request_started",
			fmt.Sprintf("%s %s", c.Request.Method, path),
			requestID,
			map[string]interface{}{
				"method":      c.Request.Method,
				"path":        path,
				"remote_addr": c.ClientIP(),
				"user_agent":  c.Request.UserAgent(),
			})

		c.Next()

		status := c.Writer.Status()
		log.Debug("request_completed",
			fmt.Sprintf("%s %s - %d", c.Request.Method, path, status),
			requestID,
			map[string]interface{}{
				"method":      c.Request.Method,
				"path":        path,
				"status_code": status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
	}
}

// WithRateLimit rejects requests above rps with 429. A non-positive rps
// disables the limit.
func WithRateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			WriteError(c, http.StatusTooManyRequests, "Too many requests")
			c.Abort()
			return
		}
		c.Next()
	}
}

// NewRouter returns a gin engine with recovery, request id, logging and rate
// limiting installed.
func NewRouter(log *logger.Logger, rps float64, burst int) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), WithRequestID(), WithLogging(log), WithRateLimit(rps, burst))
	return r
}
