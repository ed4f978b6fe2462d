package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/irvinmora/sistema-limpieza/pkg/response"
)

// BodyLimit 请求体大小限制
//
// 声明的 Content-Length 超限时直接返回 413；长度未知（chunked）时包装为
// MaxBytesReader，读取超限由 handler 的绑定错误映射为 413。
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxBytes <= 0 || c.Request.Body == nil || c.Request.Body == http.NoBody {
			c.Next()
			return
		}
		if c.Request.ContentLength > maxBytes {
			response.PayloadTooLarge(c)
			c.Abort()
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
