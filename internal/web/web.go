package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"tiny-blog-server/internal/consts"

	"github.com/gin-gonic/gin"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// 默认不渲染原始 HTML，正文中的标签会被转义
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Templates 解析内嵌的页面模板
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"markdown":   Markdown,
		"formatTime": formatTime,
	}).ParseFS(templateFS, "templates/*.tmpl")
}

// Markdown 将正文渲染为 HTML
func Markdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

func formatTime(t time.Time) string {
	return t.Format("2006-01-02 15:04")
}

// Renderer 在页面数据中补充站点名、当前用户和一次性提示消息
type Renderer struct {
	siteName     string
	secureCookie bool
}

func NewRenderer(siteName string, secureCookie bool) *Renderer {
	return &Renderer{siteName: siteName, secureCookie: secureCookie}
}

func (r *Renderer) HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["SiteName"] = r.siteName
	if username, ok := c.Get(consts.ContextKeyUsername); ok {
		data["CurrentUser"] = username
	}
	if flash := r.takeFlash(c); flash != nil {
		data["Flash"] = flash
	}
	c.HTML(status, name, data)
}

// Error 渲染错误页
func (r *Renderer) Error(c *gin.Context, status int, message string) {
	r.HTML(c, status, "error.tmpl", gin.H{
		"Status":  status,
		"Message": message,
	})
}

// Redirect GET 请求使用 302，表单提交使用 303，确保浏览器以 GET 跳转
func Redirect(c *gin.Context, location string) {
	status := http.StatusFound
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		status = http.StatusSeeOther
	}
	c.Redirect(status, location)
}
