package middleware

import "github.com/gin-gonic/gin"

// StaticCacheMiddleware 为图片等静态资源添加 Cache-Control 头
func StaticCacheMiddleware(cacheControl string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cacheControl != "" {
			c.Header("Cache-Control", cacheControl)
		}
		c.Next()
	}
}
