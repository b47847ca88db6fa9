package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Identity 表示可以建立登录会话的身份
type Identity interface {
	GetID() uint
	GetUsername() string
	CheckPassword(password string) bool
}

type User struct {
	ID        uint `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Username  string `json:"username" gorm:"size:50;uniqueIndex;not null"`
	Password  string `json:"-" gorm:"size:200;not null"`
}

func (u *User) GetID() uint {
	return u.ID
}

func (u *User) GetUsername() string {
	return u.Username
}

// CheckPassword 使用 bcrypt 校验明文密码与存储的哈希是否匹配
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}
