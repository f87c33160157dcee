package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"integrationhub/internal/shared/constants"
	"integrationhub/internal/shared/logger"
)

// Logger writes one access-log entry per request, scoped by request id. The query
// string is never logged because OAuth callbacks carry authorization codes in it.
func Logger(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		reqLog := log.With("request_id", c.GetString(constants.ContextKeyRequestID))

		fields := []interface{}{
			"method", c.Request.Method,
			"route", routeLabel(c),
			"path", c.Request.URL.Path,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
			"response_bytes", c.Writer.Size(),
		}
		if operator := c.GetString(constants.ContextKeyOperator); operator != "" {
			fields = append(fields, "operator", operator)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.String())
		}

		switch {
		case status >= 500:
			reqLog.Errorw("request failed", fields...)
		case status >= 400:
			reqLog.Warnw("request rejected", fields...)
		default:
			reqLog.Infow("request served", fields...)
		}
	}
}
