package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"tiny-blog-server/internal/config"

	"github.com/gin-gonic/gin"
)

func doRequest(r *gin.Engine, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = ip + ":1111"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

// 测试内容：验证限流关闭时请求不会被拦截。
func TestRateLimitMiddleware_DisabledAllowsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(config.RateLimitConfig{Enabled: false, AuthRPS: 0, AuthBurst: 1}))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		if code := doRequest(r, "1.2.3.4"); code != http.StatusOK {
			t.Fatalf("期望 200，实际为 %d", code)
		}
	}
}

// 测试内容：验证限流开启且无补充时会阻止突发请求，且按 IP 独立计数。
func TestRateLimitMiddleware_EnabledBlocksBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RateLimitMiddleware(config.RateLimitConfig{Enabled: true, AuthRPS: 0, AuthBurst: 1}))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	if code := doRequest(r, "1.2.3.4"); code != http.StatusOK {
		t.Fatalf("首次请求期望 200，实际为 %d", code)
	}
	if code := doRequest(r, "1.2.3.4"); code != http.StatusTooManyRequests {
		t.Fatalf("第二次请求期望 429，实际为 %d", code)
	}
	if code := doRequest(r, "5.6.7.8"); code != http.StatusOK {
		t.Fatalf("其他 IP 不应受影响，实际为 %d", code)
	}
}

// 测试内容：验证长时间未访问的 IP 会在后续请求中被清理。
func TestIPRateLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := NewIPRateLimiter(1, 1)
	l.now = func() time.Time { return now }

	l.Allow("1.1.1.1")
	now = now.Add(10 * time.Minute)
	l.Allow("2.2.2.2")

	if _, ok := l.ips.Load("1.1.1.1"); ok {
		t.Fatalf("空闲 IP 应已被清理")
	}
	if _, ok := l.ips.Load("2.2.2.2"); !ok {
		t.Fatalf("活跃 IP 不应被清理")
	}
}

// 测试内容：验证同一 IP 的并发请求与清理同时进行时不会产生数据竞争（配合 -race 运行）。
func TestIPRateLimiter_ConcurrentAllowWithSweep(t *testing.T) {
	var clock atomic.Int64
	clock.Store(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixNano())
	l := NewIPRateLimiter(1000, 1000)
	l.now = func() time.Time {
		return time.Unix(0, clock.Add(int64(time.Second)))
	}

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				l.Allow("1.1.1.1")
			}
		}()
	}
	wg.Wait()

	if _, ok := l.ips.Load("1.1.1.1"); !ok {
		t.Fatalf("持续访问的 IP 不应被清理")
	}
}
