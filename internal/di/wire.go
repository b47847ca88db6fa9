//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"tiny-blog-server/internal/config"
	"tiny-blog-server/internal/modules"
	"tiny-blog-server/internal/modules/image/storage"
	"tiny-blog-server/internal/router"

	"github.com/google/wire"
)

func InitializeApplication(ctx context.Context, cfg *config.Config) (*Application, func(), error) {
	wire.Build(
		platformSet,
		repositorySet,
		storage.New,
		modules.New,
		router.NewRouter,
		NewApplication,
	)
	return nil, nil, nil
}
