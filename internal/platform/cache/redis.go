package cache

import (
	"context"
	"log"
	"strings"
	"time"

	"tiny-blog-server/internal/config"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "tiny_blog"

// NewRedisClient 创建 Redis 客户端；未启用或连接失败时返回 nil，调用方降级为内存模式。
func NewRedisClient(cfg *config.Config) *redis.Client {
	if !cfg.Redis.Enabled {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Printf("⚠️ Redis 不可用，降级为内存模式: %v", err)
		return nil
	}

	log.Printf("✅ Redis 已连接: %s (db=%d)", cfg.Redis.Addr, cfg.Redis.DB)
	return client
}

// Key 基于前缀拼接 Redis 键名
func Key(prefix string, parts ...string) string {
	if prefix == "" {
		prefix = defaultPrefix
	}
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}
