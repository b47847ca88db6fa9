package post

import (
	"tiny-blog-server/internal/config"
	"tiny-blog-server/internal/modules/post/handler"
	"tiny-blog-server/internal/modules/post/repo"
	"tiny-blog-server/internal/modules/post/service"
	"tiny-blog-server/internal/web"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(cfg *config.Config, postStore repo.PostStore, images service.ImageIngester, renderer *web.Renderer) *Module {
	moduleService := service.New(cfg, postStore, images)
	moduleHandler := handler.New(moduleService, renderer, cfg.MaxUploadBytes())

	return &Module{
		Service: moduleService,
		Handler: moduleHandler,
	}
}
