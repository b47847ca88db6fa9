package middleware

import (
	"net/http"

	"tiny-blog-server/internal/utils"

	"github.com/gin-gonic/gin"
)

const defaultFormBodyBytes int64 = 1 << 20

// multipart 表单在文件之外还有字段与分隔符
const multipartOverheadBytes int64 = 64 << 10

// BodyLimitMiddleware 限制普通表单请求体大小
func BodyLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = defaultFormBodyBytes
	}
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// UploadBodyLimitMiddleware 限制带图片上传的请求体大小
func UploadBodyLimitMiddleware(maxUploadBytes int64) gin.HandlerFunc {
	maxBytes := maxUploadBytes + multipartOverheadBytes
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.String(http.StatusRequestEntityTooLarge, "文件大小不能超过 "+utils.FormatSizeLimit(maxUploadBytes))
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
