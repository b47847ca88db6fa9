package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer      = "tiny-blog-server"
	sessionTokenType = "session"
)

// SessionClaims 登录会话令牌。RegisteredClaims.ID (jti) 用于注销时吊销。
type SessionClaims struct {
	UserID   uint   `json:"uid"`
	Username string `json:"username"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

// ExpiresAtTime 返回令牌过期时间，未设置时返回零值
func (c *SessionClaims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

func GenerateSessionToken(secret []byte, userID uint, username string, duration time.Duration) (string, *SessionClaims, error) {
	if len(secret) == 0 {
		return "", nil, errors.New("empty signing secret")
	}

	now := time.Now()
	claims := &SessionClaims{
		UserID:   userID,
		Username: username,
		Type:     sessionTokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
			Issuer:    tokenIssuer,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

func ParseSessionToken(secret []byte, tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	}, jwt.WithIssuer(tokenIssuer))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		if claims.Type != sessionTokenType {
			return nil, errors.New("invalid token type")
		}
		if claims.ID == "" {
			return nil, errors.New("missing token id")
		}
		return claims, nil
	}

	return nil, errors.New("invalid token")
}
