package di

import (
	"log"

	"tiny-blog-server/internal/config"
	"tiny-blog-server/internal/db"
	authrepo "tiny-blog-server/internal/modules/auth/repo"
	postrepo "tiny-blog-server/internal/modules/post/repo"
	"tiny-blog-server/internal/platform/cache"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

var repositorySet = wire.NewSet(
	authrepo.NewUserRepository,
	wire.Bind(new(authrepo.UserStore), new(*authrepo.UserRepository)),
	postrepo.NewPostRepository,
	wire.Bind(new(postrepo.PostStore), new(*postrepo.PostRepository)),
)

var platformSet = wire.NewSet(
	provideDB,
	provideRedisClient,
	provideRevocationStore,
)

func provideDB(cfg *config.Config) (*gorm.DB, func(), error) {
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return gdb, cleanup, nil
}

func provideRedisClient(cfg *config.Config) (*redis.Client, func()) {
	client := cache.NewRedisClient(cfg)
	return client, func() {
		if client == nil {
			return
		}
		if err := client.Close(); err != nil {
			log.Printf("⚠️ 关闭 Redis 连接失败: %v", err)
		}
	}
}

func provideRevocationStore(cfg *config.Config, client *redis.Client) cache.RevocationStore {
	return cache.NewRevocationStore(client, cfg.Redis.Prefix)
}
