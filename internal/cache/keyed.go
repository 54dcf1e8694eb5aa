package cache

import (
	"context"
	"sync"
	"time"
)

// Entry 带版本号的缓存条目
// Version 变化时旧条目整体失效，用于目录数据的批量刷新
type Entry struct {
	Value     []byte `json:"value"`
	Timestamp int64  `json:"timestamp"`
	Version   uint64 `json:"version"`
}

// Backend 键值缓存后端
type Backend interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// MemoryBackend 进程内缓存后端，Redis 不可用时的兜底
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryBackend 创建内存后端
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{entries: make(map[string]*Entry)}
}

// Get 读取条目，不存在返回 nil
func (b *MemoryBackend) Get(_ context.Context, key string) (*Entry, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	entry, ok := b.entries[key]
	if !ok {
		return nil, nil
	}
	clone := *entry
	return &clone, nil
}

// Set 写入条目，内存后端忽略 TTL，由 IsValid 按时间戳判定
func (b *MemoryBackend) Set(_ context.Context, key string, entry *Entry, _ time.Duration) error {
	if entry == nil {
		return nil
	}
	clone := *entry
	b.mu.Lock()
	b.entries[key] = &clone
	b.mu.Unlock()
	return nil
}

// Delete 删除条目
func (b *MemoryBackend) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	delete(b.entries, key)
	b.mu.Unlock()
	return nil
}

// RedisBackend 基于共享 Redis 客户端的缓存后端
type RedisBackend struct{}

// Get 读取条目
func (RedisBackend) Get(ctx context.Context, key string) (*Entry, error) {
	var entry Entry
	found, err := GetJSON(ctx, key, &entry)
	if err != nil || !found {
		return nil, err
	}
	return &entry, nil
}

// Set 写入条目
func (RedisBackend) Set(ctx context.Context, key string, entry *Entry, ttl time.Duration) error {
	if entry == nil {
		return nil
	}
	return SetJSON(ctx, key, entry, ttl)
}

// Delete 删除条目
func (RedisBackend) Delete(ctx context.Context, key string) error {
	return Del(ctx, key)
}

// Store 版本化缓存：后端条目需同时满足 TTL 和版本号才算命中
type Store struct {
	backend Backend
	ttl     time.Duration
	version uint64
	mu      sync.Mutex
}

// NewStore 创建缓存存储，Redis 启用时走 Redis，否则退化为进程内缓存
func NewStore(ttl time.Duration) *Store {
	var backend Backend
	if Enabled() {
		backend = RedisBackend{}
	} else {
		backend = NewMemoryBackend()
	}
	return &Store{backend: backend, ttl: ttl, version: 1}
}

// NewStoreWithBackend 指定后端创建缓存存储
func NewStoreWithBackend(backend Backend, ttl time.Duration) *Store {
	return &Store{backend: backend, ttl: ttl, version: 1}
}

// Get 读取缓存值，未命中或已失效返回 (nil, false)
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	entry, err := s.backend.Get(ctx, key)
	if err != nil || entry == nil {
		return nil, false
	}
	if !s.isValid(entry) {
		return nil, false
	}
	return entry.Value, true
}

// Set 写入缓存值
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	entry := &Entry{
		Value:     value,
		Timestamp: time.Now().Unix(),
		Version:   s.currentVersion(),
	}
	return s.backend.Set(ctx, key, entry, s.ttl)
}

// Invalidate 递增版本号，使全部旧条目立即失效
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.version++
	s.mu.Unlock()
}

func (s *Store) currentVersion() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

func (s *Store) isValid(entry *Entry) bool {
	if entry.Version != s.currentVersion() {
		return false
	}
	if s.ttl <= 0 {
		return true
	}
	return time.Since(time.Unix(entry.Timestamp, 0)) < s.ttl
}
