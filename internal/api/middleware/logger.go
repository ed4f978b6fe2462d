package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger 请求日志中间件
//
// 每个请求一条日志：5xx 记 Error，4xx 记 Warn，其余 Info；
// route 为路由模板（如 /api/v1/students/:id），未匹配时为 unmatched。
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level, msg := zapcore.InfoLevel, "请求完成"
		switch {
		case status >= 500:
			level, msg = zapcore.ErrorLevel, "请求处理失败"
		case status >= 400:
			level, msg = zapcore.WarnLevel, "客户端错误"
		}
		ce := logger.Check(level, msg)
		if ce == nil {
			return
		}

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ce.Write(
			zap.String("request_id", c.GetString(RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", status),
			zap.Int("bytes", c.Writer.Size()),
			zap.String("ip", c.ClientIP()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
