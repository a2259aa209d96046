package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"clan-bingo/pkg/metrics"
)

// Metrics 记录请求计数与耗时；route 取路由模板
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		metrics.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
