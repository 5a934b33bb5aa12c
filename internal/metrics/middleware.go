package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// HTTPMetricsMiddleware собирает метрики для HTTP запросов
func HTTPMetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		c.Next()

		// Шаблон маршрута вместо сырого пути
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())

		HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
		HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	}
}
