package middleware

import (
	"strings"

	"tiny-blog-server/internal/consts"
	authservice "tiny-blog-server/internal/modules/auth/service"
	"tiny-blog-server/internal/web"

	"github.com/gin-gonic/gin"
)

// SessionAuth 解析会话令牌，有效时把会话写入上下文；无效令牌按匿名处理
func SessionAuth(authService *authservice.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.Next()
			return
		}

		session, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.Next()
			return
		}

		c.Set(consts.ContextKeySession, session)
		c.Set(consts.ContextKeyUserID, session.User.ID)
		c.Set(consts.ContextKeyUsername, session.User.Username)
		c.Next()
	}
}

// RequireLogin 未登录时重定向到登录页
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentSession(c); !ok {
			web.Redirect(c, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// ExtractToken 优先读取 Cookie，其次读取 Authorization: Bearer
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(consts.SessionCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func CurrentSession(c *gin.Context) (*authservice.Session, bool) {
	val, ok := c.Get(consts.ContextKeySession)
	if !ok {
		return nil, false
	}
	session, ok := val.(*authservice.Session)
	return session, ok && session != nil
}
