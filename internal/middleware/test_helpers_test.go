package middleware

import (
	"context"
	"testing"

	"tiny-blog-server/internal/modules/auth/repo"
	authservice "tiny-blog-server/internal/modules/auth/service"
	"tiny-blog-server/internal/platform/cache"
	"tiny-blog-server/internal/testutils"
)

// setupAuth 创建认证服务并注册 alice，返回一次登录得到的会话
func setupAuth(t *testing.T) (*authservice.Service, *authservice.Session) {
	t.Helper()
	gdb := testutils.SetupDB(t)
	svc := authservice.New(testutils.NewConfig(t.TempDir()), repo.NewUserRepository(gdb), cache.NewMemoryRevocationStore())
	if _, err := svc.Signup("alice", "pw1"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	session, err := svc.Login(context.Background(), "alice", "pw1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	return svc, session
}
