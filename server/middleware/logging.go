package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/shhhinnovations/cryptokit/logger"
)

// slowRequest marks requests that deserve a "slow" flag in the log.
const slowRequest = 500 * time.Millisecond

// RequestLogger logs method, route, status and duration of every request.
// Probe paths are skipped. Bodies are never logged since they carry
// plaintexts and tokens.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if isProbePath(c.Request.URL.Path) {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			logger.FieldStatus, status,
			logger.FieldDuration, latency.Milliseconds(),
			"client", c.ClientIP(),
		)
		if id := RequestIDFrom(c); id != "" {
			fields[logger.FieldRequestID] = id
		}
		if latency > slowRequest {
			fields["slow"] = true
		}
		if len(c.Errors) > 0 {
			fields[logger.FieldError] = c.Errors.Last().Error()
		}
		logByStatus(log, fields, status)
	}
}

func isProbePath(path string) bool {
	switch path {
	case "/health", "/version":
		return true
	}
	return false
}

// logByStatus logs at error for 5xx, warn for 4xx and debug otherwise.
func logByStatus(log *logger.Logger, fields map[string]interface{}, status int) {
	switch {
	case status >= 500:
		log.Error("request completed", fields)
	case status >= 400:
		log.Warn("request completed", fields)
	default:
		log.Debug("request completed", fields)
	}
}
