package storage

import (
	"context"
	"fmt"
	"io"
	"regexp"

	"tiny-blog-server/internal/config"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// 存储名由内容哈希与扩展名组成，见 service.ContentName
var namePattern = regexp.MustCompile(`^[0-9a-f]{32}\.(png|jpg|gif|webp|bmp)$`)

// Storage 图片文件的持久化后端
type Storage interface {
	Save(ctx context.Context, name string, r io.ReadSeeker, contentType string) error
	Delete(ctx context.Context, name string) error
	URL(name string) string
}

// ValidName 判断 name 是否为合法的存储名
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// New 按配置选择存储后端
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.Upload.Backend {
	case BackendS3:
		return NewS3Storage(ctx, cfg.S3)
	case BackendLocal, "":
		return NewLocalStorage(cfg.Upload.Path, cfg.Upload.URLPrefix)
	default:
		return nil, fmt.Errorf("不支持的存储后端: %s", cfg.Upload.Backend)
	}
}
