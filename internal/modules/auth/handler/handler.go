package handler

import (
	"net/http"

	"tiny-blog-server/internal/config"
	"tiny-blog-server/internal/consts"
	authservice "tiny-blog-server/internal/modules/auth/service"
	"tiny-blog-server/internal/web"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	cfg         *config.Config
	authService *authservice.Service
	renderer    *web.Renderer
}

func New(cfg *config.Config, authService *authservice.Service, renderer *web.Renderer) *Handler {
	return &Handler{cfg: cfg, authService: authService, renderer: renderer}
}

func (h *Handler) setSessionCookie(c *gin.Context, session *authservice.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(consts.SessionCookieName, session.Token, int(h.cfg.SessionTTL().Seconds()), "/", "", h.cfg.Session.SecureCookie, true)
}

func (h *Handler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(consts.SessionCookieName, "", -1, "/", "", h.cfg.Session.SecureCookie, true)
}
