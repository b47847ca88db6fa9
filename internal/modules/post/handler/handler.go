package handler

import (
	"strconv"

	postservice "tiny-blog-server/internal/modules/post/service"
	"tiny-blog-server/internal/web"
)

type Handler struct {
	postService    *postservice.Service
	renderer       *web.Renderer
	maxUploadBytes int64
}

func New(postService *postservice.Service, renderer *web.Renderer, maxUploadBytes int64) *Handler {
	return &Handler{postService: postService, renderer: renderer, maxUploadBytes: maxUploadBytes}
}

// parseID 非法或为 0 的 ID 一律视为不存在
func parseID(raw string) (uint, bool) {
	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
