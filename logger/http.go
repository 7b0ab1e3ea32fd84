// 包 logger：gin 访问日志中间件
package logger

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

// AccessMiddleware：记录方法、路由、状态、耗时、字节数与远端地址；不读取请求体
func AccessMiddleware(l *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		l.Debug("http_access",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"route", c.FullPath(),
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
			"ip", c.ClientIP(),
		)
	}
}
