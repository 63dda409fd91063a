package server

import (
	"time"

	"github.com/franciscosanchezn/gin-qrmenu-api/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

var log = logging.New()

// requestLogger writes one structured line per request
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"latency":  time.Since(start).String(),
			"clientIP": c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request served")
		case c.Writer.Status() >= 400:
			entry.Warn("Request served")
		default:
			entry.Debug("Request served")
		}
	}
}
