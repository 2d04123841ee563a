package middleware

import (
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/recipeinbox/backend/pkg/logger"
)

const requestIDKey = "request_id"

// RequestLogger assigns a request id and logs each request once it completes.
// Probe endpoints are not logged and session tokens never reach the log.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)

		start := time.Now()
		c.Next()

		switch c.Request.URL.Path {
		case "/health", "/metrics":
			return
		}

		status := c.Writer.Status()
		log := logger.WithRequestID(requestID)
		event := log.Info()
		switch {
		case status >= 500:
			event = log.Error()
		case status >= 400:
			event = log.Warn()
		}
		if len(c.Errors) > 0 {
			event = event.Str("errors", c.Errors.String())
		}

		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", redactQuery(c.Request.URL.Query())).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("request")
	}
}

// GetRequestID returns the id RequestLogger assigned, or ""
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

func redactQuery(q url.Values) string {
	if q.Has("token") {
		q.Set("token", "redacted")
	}
	return q.Encode()
}
