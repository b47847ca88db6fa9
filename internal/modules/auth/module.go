package auth

import (
	"tiny-blog-server/internal/config"
	"tiny-blog-server/internal/modules/auth/handler"
	"tiny-blog-server/internal/modules/auth/repo"
	"tiny-blog-server/internal/modules/auth/service"
	"tiny-blog-server/internal/platform/cache"
	"tiny-blog-server/internal/web"
)

type Module struct {
	Service *service.Service
	Handler *handler.Handler
}

func New(cfg *config.Config, userStore repo.UserStore, revocations cache.RevocationStore, renderer *web.Renderer) *Module {
	moduleService := service.New(cfg, userStore, revocations)
	moduleHandler := handler.New(cfg, moduleService, renderer)

	return &Module{
		Service: moduleService,
		Handler: moduleHandler,
	}
}
