package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"tiny-blog-server/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

// 测试内容：验证 S3 存储按前缀写入对象并生成公开地址。
func TestS3Storage_SaveDeleteURL(t *testing.T) {
	fake := &fakeS3{objects: map[string][]byte{}}
	s := NewS3StorageWithClient(fake, config.S3Config{
		Bucket:        "blog",
		Prefix:        "img/",
		PublicBaseURL: "https://cdn.example.com/",
	})

	ctx := context.Background()
	if err := s.Save(ctx, testName, bytes.NewReader([]byte("png")), "image/png"); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if string(fake.objects["blog/img/"+testName]) != "png" {
		t.Fatalf("期望对象已写入, objects=%v", fake.objects)
	}
	if url := s.URL(testName); url != "https://cdn.example.com/img/"+testName {
		t.Fatalf("非预期的 URL: %q", url)
	}

	if err := s.Delete(ctx, testName); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(fake.objects) != 0 {
		t.Fatalf("期望对象已删除")
	}
}

// 测试内容：验证未配置公开地址时按 endpoint 推导。
func TestS3Storage_URLFromEndpoint(t *testing.T) {
	s := NewS3StorageWithClient(&fakeS3{}, config.S3Config{Bucket: "blog", Endpoint: "http://minio:9000/"})
	if url := s.URL(testName); url != "http://minio:9000/blog/"+testName {
		t.Fatalf("非预期的 URL: %q", url)
	}
}

// 测试内容：验证上传失败时返回错误。
func TestS3Storage_SaveError(t *testing.T) {
	s := NewS3StorageWithClient(&fakeS3{objects: map[string][]byte{}, putErr: errors.New("boom")}, config.S3Config{Bucket: "blog"})
	if err := s.Save(context.Background(), testName, bytes.NewReader(nil), "image/png"); err == nil {
		t.Fatalf("期望上传失败时报错")
	}
}
