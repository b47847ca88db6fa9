package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"tiny-blog-server/internal/utils"
)

// LocalStorage 将图片保存到本地目录，由静态文件路由对外提供
type LocalStorage struct {
	root      string
	urlPrefix string
}

func NewLocalStorage(root, urlPrefix string) (*LocalStorage, error) {
	if strings.TrimSpace(root) == "" {
		return nil, errors.New("未配置图片存储目录")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("无法创建图片目录: %w", err)
	}
	if urlPrefix == "" {
		urlPrefix = "/"
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalStorage{root: root, urlPrefix: urlPrefix}, nil
}

func (s *LocalStorage) Root() string {
	return s.root
}

func (s *LocalStorage) path(name string) (string, error) {
	if !ValidName(name) {
		return "", fmt.Errorf("非法的存储名: %q", name)
	}
	return utils.SecureJoin(s.root, name)
}

// Save 先写入临时文件再重命名，避免读到写了一半的图片
func (s *LocalStorage) Save(_ context.Context, name string, r io.ReadSeeker, _ string) error {
	dst, err := s.path(name)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.root, ".upload-*")
	if err != nil {
		return fmt.Errorf("创建临时文件失败: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("设置文件权限失败: %w", err)
	}
	if err := os.Rename(tmpName, dst); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("保存文件失败: %w", err)
	}
	return nil
}

// Delete 删除图片，文件不存在时视为成功
func (s *LocalStorage) Delete(_ context.Context, name string) error {
	p, err := s.path(name)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStorage) URL(name string) string {
	return s.urlPrefix + name
}

// FilePath 返回图片在磁盘上的路径
func (s *LocalStorage) FilePath(name string) string {
	return filepath.Join(s.root, name)
}
