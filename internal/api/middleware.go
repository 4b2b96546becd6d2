package api

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/facility-reservations/internal/metrics"
)

// RequestMetrics observes the latency of every request, labelled by the
// matched route template so path parameters do not explode cardinality.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
			time.Since(start).Seconds(),
		)
	}
}
