package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"tiny-blog-server/internal/config"
	"tiny-blog-server/internal/model"
	"tiny-blog-server/internal/modules/auth/repo"
	"tiny-blog-server/internal/platform/cache"
	platformservice "tiny-blog-server/internal/platform/service"
	"tiny-blog-server/internal/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "用户名或密码错误"

// Session 已登录会话，Token 仅在登录成功时返回
type Session struct {
	Token  string
	Claims *utils.SessionClaims
	User   *model.User
}

type Service struct {
	cfg         *config.Config
	userStore   repo.UserStore
	revocations cache.RevocationStore

	dummyOnce sync.Once
	dummyHash []byte
}

func New(cfg *config.Config, userStore repo.UserStore, revocations cache.RevocationStore) *Service {
	return &Service{
		cfg:         cfg,
		userStore:   userStore,
		revocations: revocations,
	}
}

func (s *Service) SignupAllowed() bool {
	return s.cfg.Auth.AllowSignup
}

// Signup 注册新用户，密码以 bcrypt 哈希保存
func (s *Service) Signup(username, password string) (*model.User, error) {
	if !s.SignupAllowed() {
		return nil, platformservice.NewForbiddenError("注册功能已关闭")
	}
	username = strings.TrimSpace(username)
	if ok, msg := utils.ValidateUsername(username); !ok {
		return nil, platformservice.NewValidationError(msg)
	}
	if ok, msg := utils.ValidatePassword(password); !ok {
		return nil, platformservice.NewValidationError(msg)
	}

	taken, err := s.userStore.UsernameExists(username)
	if err != nil {
		return nil, platformservice.WrapInternalError("注册失败，请稍后重试", err)
	}
	if taken {
		return nil, platformservice.NewConflictError("用户名已存在")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, platformservice.WrapInternalError("密码加密失败", err)
	}

	user := &model.User{Username: username, Password: string(hashed)}
	if err := s.userStore.Create(user); err != nil {
		// 并发注册同名用户时预检查会漏过，以唯一索引为准
		if isDuplicateKey(err) {
			return nil, platformservice.NewConflictError("用户名已存在")
		}
		return nil, platformservice.WrapInternalError("注册失败，请稍后重试", err)
	}
	return user, nil
}

// Login 校验用户名和密码并签发会话令牌
func (s *Service) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.userStore.FindByUsername(strings.TrimSpace(username))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformservice.WrapInternalError("登录失败，请稍后重试", err)
		}
		// 用户不存在时同样执行一次哈希比较，避免响应时间暴露用户名是否存在
		_ = bcrypt.CompareHashAndPassword(s.dummyPasswordHash(), []byte(password))
		return nil, platformservice.NewUnauthorizedError(invalidCredentialsMessage)
	}

	var identity model.Identity = user
	if !identity.CheckPassword(password) {
		return nil, platformservice.NewUnauthorizedError(invalidCredentialsMessage)
	}

	token, claims, err := utils.GenerateSessionToken([]byte(s.cfg.Session.Secret), identity.GetID(), identity.GetUsername(), s.cfg.SessionTTL())
	if err != nil {
		return nil, platformservice.WrapInternalError("生成登录令牌失败", err)
	}
	log.Printf("🔑 用户 %s 登录成功", identity.GetUsername())
	return &Session{Token: token, Claims: claims, User: user}, nil
}

// Authenticate 校验令牌签名、有效期与吊销状态，并确认用户仍然存在
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, platformservice.NewUnauthorizedError("请先登录")
	}

	claims, err := utils.ParseSessionToken([]byte(s.cfg.Session.Secret), token)
	if err != nil {
		return nil, platformservice.NewUnauthorizedError("登录已失效，请重新登录")
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, platformservice.WrapInternalError("校验登录状态失败", err)
	}
	if revoked {
		return nil, platformservice.NewUnauthorizedError("登录已失效，请重新登录")
	}

	user, err := s.userStore.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformservice.NewUnauthorizedError("用户不存在")
		}
		return nil, platformservice.WrapInternalError("校验登录状态失败", err)
	}

	return &Session{Token: token, Claims: claims, User: user}, nil
}

// CurrentUser 返回令牌对应的用户，令牌无效时返回 nil
func (s *Service) CurrentUser(ctx context.Context, token string) *model.User {
	session, err := s.Authenticate(ctx, token)
	if err != nil {
		return nil
	}
	return session.User
}

// Logout 吊销会话令牌直至其自然过期
func (s *Service) Logout(ctx context.Context, session *Session) error {
	if session == nil || session.Claims == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, session.Claims.ID, session.Claims.ExpiresAtTime()); err != nil {
		return platformservice.WrapInternalError("退出登录失败", err)
	}
	return nil
}

func (s *Service) dummyPasswordHash() []byte {
	s.dummyOnce.Do(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("tiny-blog-dummy-password"), bcrypt.DefaultCost)
		if err != nil {
			log.Printf("⚠️ 生成占位密码哈希失败: %v", err)
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate")
}
