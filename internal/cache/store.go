package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Entry 缓存条目
// 有效性判定：now <= ExpiresAt；过期条目对 Get 表现为不存在，
// 仅在降级回退路径中作为"过期但可用"的数据返回
type Entry struct {
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	FetchedAt time.Time       `json:"fetched_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// Expired 条目在 now 时刻是否已过期
func (e *Entry) Expired(now time.Time) bool {
	return now.After(e.ExpiresAt)
}

// Store 持久化存储抽象
// 实现方只负责按 key 粒度的读写；过期语义由 Manager 统一处理
type Store interface {
	// Read 读取条目；不存在时返回 (nil, nil)，缺失是正常结果而非错误
	Read(ctx context.Context, key string) (*Entry, error)
	// Write 覆盖写入条目
	Write(ctx context.Context, entry *Entry) error
	// Delete 删除条目；key 不存在时为空操作
	Delete(ctx context.Context, key string) error
	// List 列出全部条目（维护操作使用）
	List(ctx context.Context) ([]Entry, error)
}

// ── 内存实现 ──
//
// 用于单元测试，以及数据库存储不可用时的进程内降级

// MemoryStore 进程内存储实现
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]Entry)}
}

func (s *MemoryStore) Read(_ context.Context, key string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

func (s *MemoryStore) Write(_ context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.Key] = *entry
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) List(_ context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out, nil
}
