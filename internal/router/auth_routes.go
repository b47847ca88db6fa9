package router

import (
	"tiny-blog-server/internal/middleware"
	authhandler "tiny-blog-server/internal/modules/auth/handler"

	"github.com/gin-gonic/gin"
)

func registerAuthRoutes(r *gin.Engine, authLimiter, formLimit gin.HandlerFunc, h *authhandler.Handler) {
	r.GET("/signup", h.SignupPage)
	r.POST("/signup", authLimiter, formLimit, h.Signup)
	r.GET("/login", h.LoginPage)
	r.POST("/login", authLimiter, formLimit, h.Login)
	r.GET("/logout", middleware.RequireLogin(), h.Logout)
}
