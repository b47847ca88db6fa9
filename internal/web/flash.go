package web

import (
	"encoding/base64"
	"net/http"
	"strings"

	"tiny-blog-server/internal/consts"

	"github.com/gin-gonic/gin"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
)

type Flash struct {
	Kind    string
	Message string
}

// SetFlash 写入一次性提示，下一次渲染页面时展示并清除
func (r *Renderer) SetFlash(c *gin.Context, kind, message string) {
	value := kind + ":" + base64.RawURLEncoding.EncodeToString([]byte(message))
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(consts.FlashCookieName, value, 60, "/", "", r.secureCookie, true)
}

func (r *Renderer) takeFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(consts.FlashCookieName)
	if err != nil || raw == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(consts.FlashCookieName, "", -1, "/", "", r.secureCookie, true)

	kind, encoded, ok := strings.Cut(raw, ":")
	if !ok {
		return nil
	}
	message, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	return &Flash{Kind: kind, Message: string(message)}
}
