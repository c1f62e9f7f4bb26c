package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestLogger tags each request with an id, reusing the caller's
// X-Request-ID when present, and logs one line once it finishes.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rqID := c.GetHeader(requestIDHeader)
		if rqID == "" {
			rqID = uuid.NewString()
		}
		c.Set(requestIDKey, rqID)
		c.Header(requestIDHeader, rqID)

		c.Next()

		entry := log.WithFields(logrus.Fields{
			requestIDKey: rqID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"duration":   time.Since(start).String(),
		})
		if c.Writer.Status() >= 500 {
			entry.Warn("request finished")
			return
		}
		entry.Debug("request finished")
	}
}

func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
