package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevocationStore 记录已注销的会话令牌 ID，直到令牌本身过期。
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// NewRevocationStore client 为 nil 时只使用进程内存
func NewRevocationStore(client *redis.Client, prefix string) RevocationStore {
	memory := NewMemoryRevocationStore()
	if client == nil {
		return memory
	}
	return &RedisRevocationStore{client: client, prefix: prefix, memory: memory}
}

type MemoryRevocationStore struct {
	entries   sync.Map // tokenID -> time.Time
	lastSweep time.Time
	sweepMu   sync.Mutex
	now       func() time.Time
}

func NewMemoryRevocationStore() *MemoryRevocationStore {
	return &MemoryRevocationStore{now: time.Now}
}

func (s *MemoryRevocationStore) Revoke(_ context.Context, tokenID string, until time.Time) error {
	s.entries.Store(tokenID, until)
	s.sweep()
	return nil
}

func (s *MemoryRevocationStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	val, ok := s.entries.Load(tokenID)
	if !ok {
		return false, nil
	}
	until, _ := val.(time.Time)
	if s.now().After(until) {
		s.entries.Delete(tokenID)
		return false, nil
	}
	return true, nil
}

// sweep 每分钟最多清理一次已过期的记录
func (s *MemoryRevocationStore) sweep() {
	s.sweepMu.Lock()
	now := s.now()
	if now.Sub(s.lastSweep) < time.Minute {
		s.sweepMu.Unlock()
		return
	}
	s.lastSweep = now
	s.sweepMu.Unlock()

	s.entries.Range(func(key, value any) bool {
		if until, ok := value.(time.Time); ok && now.After(until) {
			s.entries.Delete(key)
		}
		return true
	})
}

// RedisRevocationStore 写入 Redis 以便多实例共享，同时保留本地副本，Redis 故障时仍可生效。
type RedisRevocationStore struct {
	client *redis.Client
	prefix string
	memory *MemoryRevocationStore
}

func (s *RedisRevocationStore) key(tokenID string) string {
	return Key(s.prefix, "session", "revoked", tokenID)
}

func (s *RedisRevocationStore) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	_ = s.memory.Revoke(ctx, tokenID, until)

	ttl := time.Until(until)
	if ttl <= 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := s.client.Set(ctx, s.key(tokenID), "1", ttl).Err(); err != nil {
		log.Printf("⚠️ Redis 写入会话吊销记录失败: %v", err)
	}
	return nil
}

func (s *RedisRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	if revoked, _ := s.memory.IsRevoked(ctx, tokenID); revoked {
		return true, nil
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	n, err := s.client.Exists(ctx, s.key(tokenID)).Result()
	if err != nil {
		log.Printf("⚠️ Redis 查询会话吊销记录失败: %v", err)
		return false, nil
	}
	return n > 0, nil
}
