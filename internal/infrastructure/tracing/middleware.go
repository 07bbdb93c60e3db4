package tracing

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/420btc/mymac/internal/shared/id"
)

// HTTPMiddleware tags each request with a trace id and logs its outcome
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader("X-Trace-ID")
		if traceID == "" {
			traceID = string(id.NewRequestID())
		}

		c.Request = c.Request.WithContext(WithTrace(c.Request.Context(), traceID))
		c.Header("X-Trace-ID", traceID)

		start := time.Now()
		c.Next()

		errMsg := ""
		if len(c.Errors) > 0 {
			errMsg = c.Errors.Last().Error()
		}
		tracer.finish(traceID, c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start), errMsg)
	}
}
