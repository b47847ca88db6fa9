package dto

import (
	"time"

	"tiny-blog-server/internal/model"
	imageservice "tiny-blog-server/internal/modules/image/service"
)

type CreatePostRequest struct {
	Title string
	Body  string
	Image *imageservice.Upload
}

type UpdatePostRequest struct {
	Title string
	Body  string
}

// PostForm 表单回显
type PostForm struct {
	Title string
	Body  string
}

// PostView 页面展示用的文章
type PostView struct {
	ID        uint
	Title     string
	Body      string
	CreatedAt time.Time
	ImageURL  string
}

func NewPostView(post *model.Post, imageURL string, loc *time.Location) PostView {
	return PostView{
		ID:        post.ID,
		Title:     post.Title,
		Body:      post.Body,
		CreatedAt: post.CreatedAt.In(loc),
		ImageURL:  imageURL,
	}
}
