package model

import "time"

const (
	PostTitleMaxLen   = 100
	PostBodyMaxLen    = 1000
	PostImgNameMaxLen = 100
)

type Post struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"size:100;not null"`
	Body      string    `json:"body" gorm:"size:1000;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"not null;index;autoCreateTime:false"`
	ImgName   *string   `json:"img_name" gorm:"size:100;index"`
}

// HasImage 是否附带图片
func (p *Post) HasImage() bool {
	return p.ImgName != nil && *p.ImgName != ""
}
