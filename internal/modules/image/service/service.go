package service

import (
	"context"
	"io"
	"log"

	"tiny-blog-server/internal/modules/image/storage"
	platformservice "tiny-blog-server/internal/platform/service"
)

// Upload 待入库的上传文件
type Upload struct {
	Reader io.ReadSeeker
	Size   int64
}

// StoredImage 已保存的图片
type StoredImage struct {
	Name string
	*ValidatedImage
}

type Service struct {
	validator *Validator
	storage   storage.Storage
}

func New(validator *Validator, store storage.Storage) *Service {
	return &Service{validator: validator, storage: store}
}

// Validate 只做校验，不产生任何副作用
func (s *Service) Validate(upload Upload) (*ValidatedImage, error) {
	return s.validator.Validate(upload.Reader, upload.Size)
}

// Ingest 校验并保存图片，返回存储名。校验失败时不会写入任何文件。
func (s *Service) Ingest(ctx context.Context, upload Upload) (*StoredImage, error) {
	validated, err := s.validator.Validate(upload.Reader, upload.Size)
	if err != nil {
		return nil, err
	}

	name, err := ContentName(upload.Reader, validated.Ext)
	if err != nil {
		return nil, platformservice.WrapInternalError("读取上传文件失败", err)
	}

	if err := s.storage.Save(ctx, name, upload.Reader, validated.ContentType); err != nil {
		return nil, platformservice.WrapInternalError("图片保存失败", err)
	}

	return &StoredImage{Name: name, ValidatedImage: validated}, nil
}

// Remove 删除图片文件；失败只记录日志，不影响调用方的主流程
func (s *Service) Remove(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := s.storage.Delete(ctx, name); err != nil {
		log.Printf("⚠️ 删除图片文件失败: %v, name: %s", err, name)
	}
}

// URL 返回图片的访问地址
func (s *Service) URL(name string) string {
	return s.storage.URL(name)
}
