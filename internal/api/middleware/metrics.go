package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/irvinmora/sistema-limpieza/pkg/metrics"
)

// Metrics 按路由模板记录请求耗时；未匹配路由记为 "unmatched"
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
