package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	imageservice "tiny-blog-server/internal/modules/image/service"
	"tiny-blog-server/internal/modules/post/dto"

	"github.com/gin-gonic/gin"
)

// 单个文本字段的读取上限，超出部分由字段校验拒绝
const formFieldMaxBytes = 64 << 10

// readCreateForm 按顺序流式读取 multipart 表单，文件超限时已读到的标题与正文仍然保留
func readCreateForm(c *gin.Context) (dto.PostForm, *imageservice.Upload, error) {
	var form dto.PostForm

	mr, err := c.Request.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		form.Title = c.PostForm("title")
		form.Body = c.PostForm("body")
		return form, nil, nil
	}
	if err != nil {
		return form, nil, err
	}

	var upload *imageservice.Upload
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return form, upload, nil
		}
		if err != nil {
			return form, nil, err
		}

		switch part.FormName() {
		case "title", "body":
			value, err := io.ReadAll(io.LimitReader(part, formFieldMaxBytes))
			if err != nil {
				return form, nil, err
			}
			if part.FormName() == "title" {
				form.Title = string(value)
			} else {
				form.Body = string(value)
			}
		case "img":
			// 未选择文件时浏览器仍会提交一个文件名为空的分段
			if part.FileName() == "" {
				continue
			}
			data, err := io.ReadAll(part)
			if err != nil {
				return form, nil, err
			}
			upload = &imageservice.Upload{Reader: bytes.NewReader(data), Size: int64(len(data))}
		}
	}
}
