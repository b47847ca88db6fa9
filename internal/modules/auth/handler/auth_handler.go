package handler

import (
	"log"
	"net/http"

	"tiny-blog-server/internal/common/httpx"
	"tiny-blog-server/internal/middleware"
	"tiny-blog-server/internal/web"

	"github.com/gin-gonic/gin"
)

func (h *Handler) LoginPage(c *gin.Context) {
	h.renderer.HTML(c, http.StatusOK, "login.tmpl", gin.H{
		"Title":       "登录",
		"AllowSignup": h.authService.SignupAllowed(),
	})
}

func (h *Handler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	session, err := h.authService.Login(c.Request.Context(), username, password)
	if err != nil {
		h.renderer.HTML(c, httpx.StatusOf(err), "login.tmpl", gin.H{
			"Title":       "登录",
			"AllowSignup": h.authService.SignupAllowed(),
			"Username":    username,
			"Error":       httpx.MessageOf(err, "登录失败，请稍后重试"),
		})
		return
	}

	h.setSessionCookie(c, session)
	web.Redirect(c, "/admin")
}

func (h *Handler) SignupPage(c *gin.Context) {
	status := http.StatusOK
	if !h.authService.SignupAllowed() {
		status = http.StatusForbidden
	}
	h.renderer.HTML(c, status, "signup.tmpl", gin.H{
		"Title":       "注册",
		"AllowSignup": h.authService.SignupAllowed(),
	})
}

func (h *Handler) Signup(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	if _, err := h.authService.Signup(username, password); err != nil {
		h.renderer.HTML(c, httpx.StatusOf(err), "signup.tmpl", gin.H{
			"Title":       "注册",
			"AllowSignup": h.authService.SignupAllowed(),
			"Username":    username,
			"Error":       httpx.MessageOf(err, "注册失败，请稍后重试"),
		})
		return
	}

	h.renderer.SetFlash(c, web.FlashSuccess, "注册成功，请登录")
	web.Redirect(c, "/login")
}

func (h *Handler) Logout(c *gin.Context) {
	session, _ := middleware.CurrentSession(c)
	if err := h.authService.Logout(c.Request.Context(), session); err != nil {
		// 吊销失败时仍清除 Cookie
		log.Printf("⚠️ 注销会话失败: %v", err)
	}

	h.clearSessionCookie(c)
	web.Redirect(c, "/login")
}
