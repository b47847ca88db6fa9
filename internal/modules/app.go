package modules

import (
	"tiny-blog-server/internal/config"
	"tiny-blog-server/internal/modules/auth"
	authrepo "tiny-blog-server/internal/modules/auth/repo"
	"tiny-blog-server/internal/modules/image"
	"tiny-blog-server/internal/modules/image/storage"
	"tiny-blog-server/internal/modules/post"
	postrepo "tiny-blog-server/internal/modules/post/repo"
	"tiny-blog-server/internal/platform/cache"
	"tiny-blog-server/internal/web"
)

type AppModules struct {
	Auth     *auth.Module
	Post     *post.Module
	Image    *image.Module
	Renderer *web.Renderer
}

func New(
	cfg *config.Config,
	userStore authrepo.UserStore,
	postStore postrepo.PostStore,
	revocations cache.RevocationStore,
	imageStorage storage.Storage,
) *AppModules {
	renderer := web.NewRenderer(cfg.App.SiteName, cfg.Session.SecureCookie)
	imageModule := image.New(cfg, imageStorage)

	return &AppModules{
		Auth:     auth.New(cfg, userStore, revocations, renderer),
		Post:     post.New(cfg, postStore, imageModule.Service, renderer),
		Image:    imageModule,
		Renderer: renderer,
	}
}
