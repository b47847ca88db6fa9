package service

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	platformservice "tiny-blog-server/internal/platform/service"
	"tiny-blog-server/internal/utils"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ValidatedImage 通过结构校验的图片信息
type ValidatedImage struct {
	Format      string
	Ext         string
	ContentType string
	Width       int
	Height      int
	Size        int64
}

var formats = map[string]struct {
	ext         string
	contentType string
}{
	"png":  {".png", "image/png"},
	"jpeg": {".jpg", "image/jpeg"},
	"gif":  {".gif", "image/gif"},
	"webp": {".webp", "image/webp"},
	"bmp":  {".bmp", "image/bmp"},
}

// Validator 只解析图片头部确认其可被解码，不做完整解码或转换。
type Validator struct {
	maxBytes int64
}

func NewValidator(maxBytes int64) *Validator {
	return &Validator{maxBytes: maxBytes}
}

// Validate 校验成功后 r 已回到起始位置，可直接用于保存。
func (v *Validator) Validate(r io.ReadSeeker, size int64) (*ValidatedImage, error) {
	if v.maxBytes > 0 && size > v.maxBytes {
		return nil, platformservice.NewValidationError("文件大小不能超过 "+utils.FormatSizeLimit(v.maxBytes))
	}

	cfg, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, platformservice.NewValidationError("请选择有效的图片文件")
	}

	info, ok := formats[format]
	if !ok {
		return nil, platformservice.NewValidationError(fmt.Sprintf("不支持的图片格式: %s", format))
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, platformservice.NewValidationError("请选择有效的图片文件")
	}

	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, platformservice.WrapInternalError("重置文件读取位置失败", err)
	}

	return &ValidatedImage{
		Format:      format,
		Ext:         info.ext,
		ContentType: info.contentType,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Size:        size,
	}, nil
}
