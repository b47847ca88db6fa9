package service

import (
	"encoding/hex"
	"io"

	"github.com/zeebo/blake3"
)

// ContentName 以内容哈希命名图片，相同内容得到相同的存储名。
// 读取完成后 r 回到起始位置。
func ContentName(r io.ReadSeeker, ext string) (string, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:16]) + ext, nil
}
