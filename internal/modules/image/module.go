package image

import (
	"tiny-blog-server/internal/config"
	"tiny-blog-server/internal/modules/image/service"
	"tiny-blog-server/internal/modules/image/storage"
)

type Module struct {
	Service *service.Service
	Storage storage.Storage
}

func New(cfg *config.Config, store storage.Storage) *Module {
	return &Module{
		Service: service.New(service.NewValidator(cfg.MaxUploadBytes()), store),
		Storage: store,
	}
}
