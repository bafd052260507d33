package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aaronjt12/bw-sms-backend/pkg/metrics"
)

// Metrics records request count and latency by route template. Unmatched
// requests share one label so scanners cannot blow up cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method

		m.RequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		m.RequestTotal.WithLabelValues(method, path, status).Inc()

		if c.Writer.Status() >= 500 {
			m.ErrorTotal.WithLabelValues(method, path, "server").Inc()
		} else if c.Writer.Status() >= 400 {
			m.ErrorTotal.WithLabelValues(method, path, "client").Inc()
		}
	}
}
