package testutils

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"time"

	"tiny-blog-server/internal/config"
)

// MinimalPNG 返回一张可解码的 1x1 PNG 图片
func MinimalPNG() []byte {
	return encodeImage(func(buf *bytes.Buffer, img image.Image) error { return png.Encode(buf, img) })
}

// MinimalGIF 返回一张可解码的 1x1 GIF 图片
func MinimalGIF() []byte {
	return encodeImage(func(buf *bytes.Buffer, img image.Image) error { return gif.Encode(buf, img, nil) })
}

func encodeImage(enc func(*bytes.Buffer, image.Image) error) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// NewConfig 返回适用于测试的配置，上传目录位于 uploadDir
func NewConfig(uploadDir string) *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Mode: "test"},
		App:     config.AppConfig{SiteName: "Test Blog", Timezone: "UTC"},
		Session: config.SessionConfig{Secret: "test_secret", ExpirationHours: 24},
		Auth:    config.AuthConfig{AllowSignup: true},
		Upload: config.UploadConfig{
			Backend:   "local",
			Path:      uploadDir,
			URLPrefix: "/static/img/",
			MaxSizeMB: 1,
		},
		RateLimit: config.RateLimitConfig{Enabled: false},
	}
}

// FixedClock 返回一个可手动推进的时钟
func FixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	now := start
	return func() time.Time { return now }, func(d time.Duration) { now = now.Add(d) }
}
