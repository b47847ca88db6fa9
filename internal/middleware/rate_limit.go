package middleware

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"tiny-blog-server/internal/config"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL       = 3 * time.Minute
	limiterSweepInterval = time.Minute
)

type IPRateLimiter struct {
	ips sync.Map
	mu  sync.Mutex
	r   rate.Limit
	b   int

	lastSweep time.Time
	now       func() time.Time
}

// lastSeen 以 UnixNano 保存，请求与清理可能并发读写
type client struct {
	limiter  *rate.Limiter
	lastSeen atomic.Int64
}

func (c *client) touch(now time.Time) {
	c.lastSeen.Store(now.UnixNano())
}

func (c *client) idleSince(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, c.lastSeen.Load()))
}

func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{r: r, b: b, now: time.Now}
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	now := i.now()
	i.sweep(now)

	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.touch(now)
		return c.limiter
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	// Double check
	if v, ok := i.ips.Load(ip); ok {
		c := v.(*client)
		c.touch(now)
		return c.limiter
	}

	c := &client{limiter: rate.NewLimiter(i.r, i.b)}
	c.touch(now)
	i.ips.Store(ip, c)
	return c.limiter
}

// sweep 在请求路径上顺带清理长时间未访问的 IP，不启动后台协程
func (i *IPRateLimiter) sweep(now time.Time) {
	i.mu.Lock()
	if now.Sub(i.lastSweep) < limiterSweepInterval {
		i.mu.Unlock()
		return
	}
	i.lastSweep = now
	i.mu.Unlock()

	i.ips.Range(func(key, value interface{}) bool {
		if value.(*client).idleSince(now) > limiterIdleTTL {
			i.ips.Delete(key)
		}
		return true
	})
}

func (i *IPRateLimiter) Allow(ip string) bool {
	return i.getLimiter(ip).Allow()
}

// RateLimitMiddleware 按客户端 IP 限制登录与注册的提交频率
func RateLimitMiddleware(cfg config.RateLimitConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	limiter := NewIPRateLimiter(rate.Limit(cfg.AuthRPS), cfg.AuthBurst)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.String(http.StatusTooManyRequests, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}
		c.Next()
	}
}
