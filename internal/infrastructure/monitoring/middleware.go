package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware records request count, latency and sizes for every route
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Prefer the route template so /windows/:id stays one series
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		reqSize := c.Request.ContentLength
		if reqSize < 0 {
			reqSize = 0
		}

		metrics.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start),
			reqSize,
			int64(c.Writer.Size()),
		)
	}
}

// Timer times one provider tool call
type Timer struct {
	start   time.Time
	metrics *Metrics
	service string
	method  string
}

// NewTimer starts timing a call to service.method
func NewTimer(metrics *Metrics, service, method string) *Timer {
	return &Timer{start: time.Now(), metrics: metrics, service: service, method: method}
}

// Stop records the elapsed time under the given status label
func (t *Timer) Stop(status string) {
	t.metrics.RecordServiceCall(t.service, t.method, status, time.Since(t.start))
}
