package web

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

const requestIDKey = "request_id"

// requestID tags each request with an id, reusing the caller's X-Request-ID when present
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.Request.URL.Path
		if path == "/health" || path == "/metrics" {
			return
		}

		log.Info(c.Request.Context(), "HTTP %s %s -> %d in %dms (request_id=%s, client_ip=%s)",
			c.Request.Method, path, c.Writer.Status(), time.Since(start).Milliseconds(),
			c.GetString(requestIDKey), c.ClientIP())
		if errs := c.Errors.String(); errs != "" {
			log.Warn(c.Request.Context(), "Request errors: %s", errs)
		}
	}
}
