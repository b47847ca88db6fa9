package service

import (
	"context"
	"errors"
	"log"
	"time"

	"tiny-blog-server/internal/config"
	"tiny-blog-server/internal/model"
	imageservice "tiny-blog-server/internal/modules/image/service"
	"tiny-blog-server/internal/modules/post/dto"
	"tiny-blog-server/internal/modules/post/repo"
	platformservice "tiny-blog-server/internal/platform/service"
	"tiny-blog-server/internal/utils"

	"gorm.io/gorm"
)

const postNotFoundMessage = "文章不存在"

// ImageIngester 图片校验与存储
type ImageIngester interface {
	Ingest(ctx context.Context, upload imageservice.Upload) (*imageservice.StoredImage, error)
	Remove(ctx context.Context, name string)
	URL(name string) string
}

type Service struct {
	posts  repo.PostStore
	images ImageIngester
	loc    *time.Location
	now    func() time.Time
}

func New(cfg *config.Config, posts repo.PostStore, images ImageIngester) *Service {
	return &Service{
		posts:  posts,
		images: images,
		loc:    cfg.Location(),
		now:    time.Now,
	}
}

func (s *Service) Location() *time.Location {
	return s.loc
}

// ListPosts 公开首页列表，按存储默认顺序
func (s *Service) ListPosts() ([]model.Post, error) {
	posts, err := s.posts.List()
	if err != nil {
		return nil, platformservice.WrapInternalError("获取文章列表失败", err)
	}
	return posts, nil
}

// AdminListPosts 管理列表，最新的在前
func (s *Service) AdminListPosts() ([]model.Post, error) {
	posts, err := s.posts.ListNewestFirst()
	if err != nil {
		return nil, platformservice.WrapInternalError("获取文章列表失败", err)
	}
	return posts, nil
}

func (s *Service) ViewPost(id uint) (*model.Post, error) {
	post, err := s.posts.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformservice.NewNotFoundError(postNotFoundMessage)
		}
		return nil, platformservice.WrapInternalError("获取文章失败", err)
	}
	return post, nil
}

// CreatePost 先校验字段与图片，全部通过后才写入文件和数据行
func (s *Service) CreatePost(ctx context.Context, req dto.CreatePostRequest) (*model.Post, error) {
	title, body, err := validatePostFields(req.Title, req.Body)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Title:     title,
		Body:      body,
		CreatedAt: s.now().In(s.loc),
	}

	if req.Image != nil {
		stored, err := s.images.Ingest(ctx, *req.Image)
		if err != nil {
			return nil, err
		}
		name := stored.Name
		post.ImgName = &name
	}

	if err := s.posts.Create(post); err != nil {
		s.releaseImage(ctx, post.ImgName)
		return nil, platformservice.WrapInternalError("发布文章失败", err)
	}
	return post, nil
}

// UpdatePost 只修改标题与正文
func (s *Service) UpdatePost(id uint, req dto.UpdatePostRequest) (*model.Post, error) {
	post, err := s.ViewPost(id)
	if err != nil {
		return nil, err
	}

	title, body, err := validatePostFields(req.Title, req.Body)
	if err != nil {
		return nil, err
	}

	if err := s.posts.UpdateContent(post.ID, title, body); err != nil {
		return nil, platformservice.WrapInternalError("更新文章失败", err)
	}
	post.Title = title
	post.Body = body
	return post, nil
}

// DeletePost 删除文章，图片不再被任何文章引用时一并删除文件
func (s *Service) DeletePost(ctx context.Context, id uint) error {
	post, err := s.ViewPost(id)
	if err != nil {
		return err
	}

	remaining, err := s.posts.Delete(post)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return platformservice.NewNotFoundError(postNotFoundMessage)
		}
		return platformservice.WrapInternalError("删除文章失败", err)
	}

	if post.HasImage() && remaining == 0 {
		s.images.Remove(ctx, *post.ImgName)
	}
	return nil
}

// ImageURL 返回文章图片地址，无图片时为空
func (s *Service) ImageURL(post *model.Post) string {
	if !post.HasImage() {
		return ""
	}
	return s.images.URL(*post.ImgName)
}

// releaseImage 插入失败后的补偿清理，文件仍被其他文章引用时保留
func (s *Service) releaseImage(ctx context.Context, imgName *string) {
	if imgName == nil {
		return
	}
	count, err := s.posts.CountByImgName(*imgName)
	if err != nil {
		log.Printf("⚠️ 统计图片引用失败，保留文件: %v, name: %s", err, *imgName)
		return
	}
	if count == 0 {
		s.images.Remove(ctx, *imgName)
	}
}

func validatePostFields(title, body string) (string, string, error) {
	title, ok, msg := utils.ValidateRequiredText("标题", title, model.PostTitleMaxLen)
	if !ok {
		return "", "", platformservice.NewValidationError(msg)
	}
	body, ok, msg = utils.ValidateRequiredText("正文", body, model.PostBodyMaxLen)
	if !ok {
		return "", "", platformservice.NewValidationError(msg)
	}
	return title, body, nil
}
