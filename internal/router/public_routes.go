package router

import (
	"strings"

	"tiny-blog-server/internal/config"
	"tiny-blog-server/internal/middleware"
	"tiny-blog-server/internal/modules/image/storage"
	posthandler "tiny-blog-server/internal/modules/post/handler"

	"github.com/gin-gonic/gin"
)

func registerPublicRoutes(r *gin.Engine, h *posthandler.Handler) {
	r.GET("/", h.Index)
	r.GET("/:id/readMore", h.ReadMore)
}

// registerStaticRoutes 本地存储时由本服务提供图片，对象存储时图片走公开地址
func registerStaticRoutes(r *gin.Engine, cfg *config.Config, store storage.Storage) {
	local, ok := store.(*storage.LocalStorage)
	if !ok {
		return
	}

	prefix := "/" + strings.Trim(cfg.Upload.URLPrefix, "/")
	if prefix == "/" {
		return
	}
	group := r.Group(prefix)
	group.Use(middleware.StaticCacheMiddleware(cfg.Upload.CacheControl))
	group.Static("/", local.Root())
}
