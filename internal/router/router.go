package router

import (
	"html/template"
	"net/http"

	"tiny-blog-server/internal/config"
	"tiny-blog-server/internal/middleware"
	"tiny-blog-server/internal/modules"
	"tiny-blog-server/internal/web"

	"github.com/gin-gonic/gin"
)

type Router struct {
	cfg       *config.Config
	modules   *modules.AppModules
	templates *template.Template
}

func NewRouter(cfg *config.Config, appModules *modules.AppModules) (*Router, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	return &Router{
		cfg:       cfg,
		modules:   appModules,
		templates: tmpl,
	}, nil
}

func (rt *Router) Init(r *gin.Engine) {
	r.SetHTMLTemplate(rt.templates)

	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.SessionAuth(rt.modules.Auth.Service))

	r.NoRoute(func(c *gin.Context) {
		rt.modules.Renderer.Error(c, http.StatusNotFound, "页面不存在")
	})

	// 登录与注册共用同一个限流实例
	authLimiter := middleware.RateLimitMiddleware(rt.cfg.RateLimit)
	formLimit := middleware.BodyLimitMiddleware(0)

	registerStaticRoutes(r, rt.cfg, rt.modules.Image.Storage)
	registerPublicRoutes(r, rt.modules.Post.Handler)
	registerAuthRoutes(r, authLimiter, formLimit, rt.modules.Auth.Handler)
	registerPostRoutes(r, formLimit, middleware.UploadBodyLimitMiddleware(rt.cfg.MaxUploadBytes()), rt.modules.Post.Handler)
}
