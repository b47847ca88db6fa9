package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tiny-blog-server/internal/model"
	imageservice "tiny-blog-server/internal/modules/image/service"
	"tiny-blog-server/internal/modules/image/storage"
	"tiny-blog-server/internal/modules/post/dto"
	"tiny-blog-server/internal/modules/post/repo"
	platformservice "tiny-blog-server/internal/platform/service"
	"tiny-blog-server/internal/testutils"

	"gorm.io/gorm"
)

type fixture struct {
	db       *gorm.DB
	svc      *Service
	imageDir string
	advance  func(time.Duration)
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := testutils.SetupDB(t)
	imageDir := t.TempDir()
	cfg := testutils.NewConfig(imageDir)
	cfg.App.Timezone = "Asia/Tokyo"

	local, err := storage.NewLocalStorage(imageDir, cfg.Upload.URLPrefix)
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}
	images := imageservice.New(imageservice.NewValidator(cfg.MaxUploadBytes()), local)

	svc := New(cfg, repo.NewPostRepository(gdb), images)
	now, advance := testutils.FixedClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	svc.now = now
	return &fixture{db: gdb, svc: svc, imageDir: imageDir, advance: advance}
}

func upload(data []byte) *imageservice.Upload {
	return &imageservice.Upload{Reader: bytes.NewReader(data), Size: int64(len(data))}
}

func (f *fixture) files(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(f.imageDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func (f *fixture) countPosts(t *testing.T) int64 {
	t.Helper()
	var count int64
	if err := f.db.Model(&model.Post{}).Count(&count).Error; err != nil {
		t.Fatalf("count posts: %v", err)
	}
	return count
}

func assertCode(t *testing.T, err error, code platformservice.ErrorCode) {
	t.Helper()
	if !platformservice.HasCode(err, code) {
		t.Fatalf("期望错误码 %s，实际: %v", code, err)
	}
}

func TestCreatePost_ViewRoundtrip(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePost(ctx, dto.CreatePostRequest{Title: "Hello", Body: "World", Image: upload(testutils.MinimalPNG())})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}

	got, err := f.svc.ViewPost(created.ID)
	if err != nil {
		t.Fatalf("ViewPost: %v", err)
	}
	if got.Title != "Hello" || got.Body != "World" {
		t.Fatalf("文章内容不一致: %+v", got)
	}
	if !got.HasImage() {
		t.Fatalf("期望文章引用图片")
	}
	if _, err := os.Stat(filepath.Join(f.imageDir, *got.ImgName)); err != nil {
		t.Fatalf("图片文件应已保存: %v", err)
	}
	if url := f.svc.ImageURL(got); url != "/static/img/"+*got.ImgName {
		t.Fatalf("图片地址不正确: %s", url)
	}
	if name := created.CreatedAt.Location().String(); name != "Asia/Tokyo" {
		t.Fatalf("创建时间应使用配置时区，实际 %s", name)
	}
}

func TestCreatePost_WithoutImage(t *testing.T) {
	f := setupFixture(t)

	post, err := f.svc.CreatePost(context.Background(), dto.CreatePostRequest{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.ImgName != nil {
		t.Fatalf("无图片时 img_name 应为空")
	}
	if f.svc.ImageURL(post) != "" {
		t.Fatalf("无图片时地址应为空")
	}
}

func TestCreatePost_NonImageWritesNothing(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.CreatePost(context.Background(), dto.CreatePostRequest{
		Title: "t",
		Body:  "b",
		Image: upload([]byte("this is plain text, not an image")),
	})
	assertCode(t, err, platformservice.ErrorCodeValidation)

	if n := f.countPosts(t); n != 0 {
		t.Fatalf("不应写入文章，实际 %d", n)
	}
	if files := f.files(t); len(files) != 0 {
		t.Fatalf("不应写入文件，实际 %v", files)
	}
}

func TestCreatePost_FieldValidation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	cases := []dto.CreatePostRequest{
		{Title: "", Body: "b"},
		{Title: "   ", Body: "b"},
		{Title: "t", Body: ""},
		{Title: strings.Repeat("标", model.PostTitleMaxLen+1), Body: "b"},
		{Title: "t", Body: strings.Repeat("b", model.PostBodyMaxLen+1)},
	}
	for _, req := range cases {
		req.Image = upload(testutils.MinimalPNG())
		_, err := f.svc.CreatePost(ctx, req)
		assertCode(t, err, platformservice.ErrorCodeValidation)
	}
	if n := f.countPosts(t); n != 0 {
		t.Fatalf("校验失败不应写入文章，实际 %d", n)
	}
	if files := f.files(t); len(files) != 0 {
		t.Fatalf("字段校验失败不应写入文件，实际 %v", files)
	}

	post, err := f.svc.CreatePost(ctx, dto.CreatePostRequest{Title: strings.Repeat("标", model.PostTitleMaxLen), Body: "  body  "})
	if err != nil {
		t.Fatalf("边界长度应允许: %v", err)
	}
	if post.Body != "body" {
		t.Fatalf("正文应去除首尾空白，实际 %q", post.Body)
	}
}

func TestUpdatePost_KeepsCreatedAt(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	post, err := f.svc.CreatePost(ctx, dto.CreatePostRequest{Title: "t", Body: "b", Image: upload(testutils.MinimalPNG())})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	before, _ := f.svc.ViewPost(post.ID)

	f.advance(48 * time.Hour)
	if _, err := f.svc.UpdatePost(post.ID, dto.UpdatePostRequest{Title: "t2", Body: "b2"}); err != nil {
		t.Fatalf("UpdatePost: %v", err)
	}

	after, err := f.svc.ViewPost(post.ID)
	if err != nil {
		t.Fatalf("ViewPost: %v", err)
	}
	if after.Title != "t2" || after.Body != "b2" {
		t.Fatalf("标题正文未更新: %+v", after)
	}
	if !after.CreatedAt.Equal(before.CreatedAt) {
		t.Fatalf("created_at 不应变化: %v -> %v", before.CreatedAt, after.CreatedAt)
	}
	if *after.ImgName != *before.ImgName {
		t.Fatalf("img_name 不应变化")
	}
}

func TestUpdatePost_NotFoundAndValidation(t *testing.T) {
	f := setupFixture(t)

	_, err := f.svc.UpdatePost(999, dto.UpdatePostRequest{Title: "t", Body: "b"})
	assertCode(t, err, platformservice.ErrorCodeNotFound)

	post, _ := f.svc.CreatePost(context.Background(), dto.CreatePostRequest{Title: "t", Body: "b"})
	_, err = f.svc.UpdatePost(post.ID, dto.UpdatePostRequest{Title: "", Body: "b"})
	assertCode(t, err, platformservice.ErrorCodeValidation)

	got, _ := f.svc.ViewPost(post.ID)
	if got.Title != "t" {
		t.Fatalf("校验失败不应修改文章")
	}
}

func TestDeletePost_ThenNotFound(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	post, err := f.svc.CreatePost(ctx, dto.CreatePostRequest{Title: "t", Body: "b", Image: upload(testutils.MinimalPNG())})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if err := f.svc.DeletePost(ctx, post.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}

	_, err = f.svc.ViewPost(post.ID)
	assertCode(t, err, platformservice.ErrorCodeNotFound)
	assertCode(t, f.svc.DeletePost(ctx, post.ID), platformservice.ErrorCodeNotFound)

	if files := f.files(t); len(files) != 0 {
		t.Fatalf("无引用的图片应被删除，实际 %v", files)
	}
}

func TestDeletePost_KeepsSharedImage(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	a, _ := f.svc.CreatePost(ctx, dto.CreatePostRequest{Title: "a", Body: "b", Image: upload(testutils.MinimalPNG())})
	b, _ := f.svc.CreatePost(ctx, dto.CreatePostRequest{Title: "b", Body: "b", Image: upload(testutils.MinimalPNG())})
	if *a.ImgName != *b.ImgName {
		t.Fatalf("相同内容应得到相同存储名")
	}

	if err := f.svc.DeletePost(ctx, a.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if files := f.files(t); len(files) != 1 {
		t.Fatalf("仍被引用的图片应保留，实际 %v", files)
	}
	if err := f.svc.DeletePost(ctx, b.ID); err != nil {
		t.Fatalf("DeletePost: %v", err)
	}
	if files := f.files(t); len(files) != 0 {
		t.Fatalf("最后一个引用删除后图片应被删除，实际 %v", files)
	}
}

func TestAdminListPosts_NewestFirst(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := f.svc.CreatePost(ctx, dto.CreatePostRequest{Title: "t", Body: "b"}); err != nil {
			t.Fatalf("CreatePost: %v", err)
		}
		if i%2 == 0 {
			f.advance(time.Minute)
		}
	}

	posts, err := f.svc.AdminListPosts()
	if err != nil || len(posts) != 5 {
		t.Fatalf("AdminListPosts: %v %d", err, len(posts))
	}
	for i := 1; i < len(posts); i++ {
		if posts[i].CreatedAt.After(posts[i-1].CreatedAt) {
			t.Fatalf("管理列表的创建时间应不增")
		}
	}

	public, err := f.svc.ListPosts()
	if err != nil || len(public) != 5 {
		t.Fatalf("ListPosts: %v %d", err, len(public))
	}
}

type failingCreateStore struct {
	repo.PostStore
}

func (failingCreateStore) Create(*model.Post) error { return errors.New("insert failed") }

func TestCreatePost_InsertFailureRemovesFile(t *testing.T) {
	f := setupFixture(t)
	f.svc.posts = failingCreateStore{f.svc.posts}

	_, err := f.svc.CreatePost(context.Background(), dto.CreatePostRequest{Title: "t", Body: "b", Image: upload(testutils.MinimalPNG())})
	assertCode(t, err, platformservice.ErrorCodeInternal)

	if files := f.files(t); len(files) != 0 {
		t.Fatalf("插入失败后应清理刚写入的文件，实际 %v", files)
	}
}
