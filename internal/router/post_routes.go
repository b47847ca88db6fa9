package router

import (
	"tiny-blog-server/internal/middleware"
	posthandler "tiny-blog-server/internal/modules/post/handler"

	"github.com/gin-gonic/gin"
)

func registerPostRoutes(r *gin.Engine, formLimit, uploadLimit gin.HandlerFunc, h *posthandler.Handler) {
	authed := r.Group("/")
	authed.Use(middleware.RequireLogin())
	{
		authed.GET("/admin", h.Admin)
		authed.GET("/create", h.CreatePage)
		authed.POST("/create", uploadLimit, h.Create)
		authed.GET("/:id/update", h.UpdatePage)
		authed.POST("/:id/update", formLimit, h.Update)
		authed.GET("/:id/delete", h.Delete)
		authed.POST("/:id/delete", formLimit, h.Delete)
	}
}
