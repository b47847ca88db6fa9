package handler

import (
	"errors"
	"net/http"

	"tiny-blog-server/internal/common/httpx"
	"tiny-blog-server/internal/model"
	"tiny-blog-server/internal/modules/post/dto"
	"tiny-blog-server/internal/utils"
	"tiny-blog-server/internal/web"

	"github.com/gin-gonic/gin"
)

const postNotFoundMessage = "文章不存在"

func (h *Handler) views(posts []model.Post) []dto.PostView {
	views := make([]dto.PostView, 0, len(posts))
	for i := range posts {
		views = append(views, h.view(&posts[i]))
	}
	return views
}

func (h *Handler) view(post *model.Post) dto.PostView {
	return dto.NewPostView(post, h.postService.ImageURL(post), h.postService.Location())
}

func (h *Handler) renderError(c *gin.Context, err error, fallback string) {
	h.renderer.Error(c, httpx.StatusOf(err), httpx.MessageOf(err, fallback))
}

// Index 公开首页
func (h *Handler) Index(c *gin.Context) {
	posts, err := h.postService.ListPosts()
	if err != nil {
		h.renderError(c, err, "获取文章列表失败")
		return
	}
	h.renderer.HTML(c, http.StatusOK, "index.tmpl", gin.H{"Posts": h.views(posts)})
}

func (h *Handler) ReadMore(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.renderer.Error(c, http.StatusNotFound, postNotFoundMessage)
		return
	}

	post, err := h.postService.ViewPost(id)
	if err != nil {
		h.renderError(c, err, "获取文章失败")
		return
	}
	h.renderer.HTML(c, http.StatusOK, "read_more.tmpl", gin.H{
		"Title": post.Title,
		"Post":  h.view(post),
	})
}

// Admin 管理列表，最新的在前
func (h *Handler) Admin(c *gin.Context) {
	posts, err := h.postService.AdminListPosts()
	if err != nil {
		h.renderError(c, err, "获取文章列表失败")
		return
	}
	h.renderer.HTML(c, http.StatusOK, "admin.tmpl", gin.H{
		"Title": "文章管理",
		"Posts": h.views(posts),
	})
}

func (h *Handler) CreatePage(c *gin.Context) {
	h.renderer.HTML(c, http.StatusOK, "create.tmpl", gin.H{
		"Title": "写文章",
		"Form":  dto.PostForm{},
	})
}

func (h *Handler) Create(c *gin.Context) {
	form, upload, err := readCreateForm(c)
	renderForm := func(status int, message string) {
		h.renderer.HTML(c, status, "create.tmpl", gin.H{
			"Title": "写文章",
			"Form":  form,
			"Error": message,
		})
	}
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			renderForm(http.StatusRequestEntityTooLarge, "文件大小不能超过 "+utils.FormatSizeLimit(h.maxUploadBytes))
			return
		}
		renderForm(http.StatusBadRequest, "请选择有效的图片文件")
		return
	}

	req := dto.CreatePostRequest{Title: form.Title, Body: form.Body, Image: upload}
	if _, err := h.postService.CreatePost(c.Request.Context(), req); err != nil {
		renderForm(httpx.StatusOf(err), httpx.MessageOf(err, "发布文章失败"))
		return
	}

	h.renderer.SetFlash(c, web.FlashSuccess, "文章已发布")
	web.Redirect(c, "/admin")
}

func (h *Handler) UpdatePage(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.renderer.Error(c, http.StatusNotFound, postNotFoundMessage)
		return
	}

	post, err := h.postService.ViewPost(id)
	if err != nil {
		h.renderError(c, err, "获取文章失败")
		return
	}
	h.renderer.HTML(c, http.StatusOK, "update.tmpl", gin.H{
		"Title":  "编辑文章",
		"PostID": post.ID,
		"Form":   dto.PostForm{Title: post.Title, Body: post.Body},
	})
}

func (h *Handler) Update(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.renderer.Error(c, http.StatusNotFound, postNotFoundMessage)
		return
	}

	form := dto.PostForm{Title: c.PostForm("title"), Body: c.PostForm("body")}
	_, err := h.postService.UpdatePost(id, dto.UpdatePostRequest{Title: form.Title, Body: form.Body})
	if err != nil {
		status := httpx.StatusOf(err)
		if status == http.StatusNotFound {
			h.renderError(c, err, postNotFoundMessage)
			return
		}
		h.renderer.HTML(c, status, "update.tmpl", gin.H{
			"Title":  "编辑文章",
			"PostID": id,
			"Form":   form,
			"Error":  httpx.MessageOf(err, "更新文章失败"),
		})
		return
	}

	h.renderer.SetFlash(c, web.FlashSuccess, "文章已更新")
	web.Redirect(c, "/admin")
}

func (h *Handler) Delete(c *gin.Context) {
	id, ok := parseID(c.Param("id"))
	if !ok {
		h.renderer.Error(c, http.StatusNotFound, postNotFoundMessage)
		return
	}

	// 跨站发起的 GET 只展示确认页，删除必须由本站表单提交
	if c.Request.Method == http.MethodGet && isCrossSiteRequest(c) {
		post, err := h.postService.ViewPost(id)
		if err != nil {
			h.renderError(c, err, "获取文章失败")
			return
		}
		h.renderer.HTML(c, http.StatusOK, "delete.tmpl", gin.H{
			"Title": "删除文章",
			"Post":  h.view(post),
		})
		return
	}

	if err := h.postService.DeletePost(c.Request.Context(), id); err != nil {
		h.renderError(c, err, "删除文章失败")
		return
	}

	h.renderer.SetFlash(c, web.FlashSuccess, "文章已删除")
	web.Redirect(c, "/admin")
}

func isCrossSiteRequest(c *gin.Context) bool {
	return c.GetHeader("Sec-Fetch-Site") == "cross-site"
}
