package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ── 离线缓存管理器 ──────────────────────────────────────────
//
// 职责：带过期时间的持久化键值缓存，在实时数据源不可达时降级供数，
// 连接恢复后机会性补偿刷新。
//
// 设计决策：
//   - 回退顺序严格为：实时获取 > 缓存（含过期条目，标记 stale）> 失败。
//     过期条目在离线或实时获取失败时仍然返回，聊胜于无；Get 则始终
//     把过期条目当作不存在并惰性清除
//   - 存储层故障（StorageError 类）只记日志，缓存退化为未命中，
//     绝不影响主流程正确性
//   - 同一 key 的并发写入为后写覆盖；每次实时获取携带单调递增序号，
//     迟到的旧响应不会覆盖更新的缓存内容
// ─────────────────────────────────────────────────────────────

// ErrOfflineUnavailable 离线且无任何可用缓存数据
var ErrOfflineUnavailable = errors.New("离线状态下无可用缓存数据")

// LiveFetchError 包装实时获取失败且无缓存可回退时的原始错误
type LiveFetchError struct {
	Err error
}

func (e *LiveFetchError) Error() string {
	return fmt.Sprintf("实时获取失败且无缓存可用: %v", e.Err)
}

func (e *LiveFetchError) Unwrap() error { return e.Err }

// Source 结果数据来源
type Source string

const (
	// SourceFresh 实时获取的新鲜数据
	SourceFresh Source = "fresh"
	// SourceCache 未过期的缓存数据
	SourceCache Source = "cache"
	// SourceStale 已过期的缓存数据（降级返回）
	SourceStale Source = "stale"
)

// Result 带来源标记的取数结果
type Result struct {
	Value     json.RawMessage `json:"value"`
	Source    Source          `json:"source"`
	FetchedAt time.Time       `json:"fetched_at"`
	// FetchErr 降级返回缓存时保留的原始获取错误，供调用方检视
	FetchErr error `json:"-"`
}

// FetchFunc 实时数据源，由调用方按 key 提供
type FetchFunc func(ctx context.Context) (json.RawMessage, error)

// OnlineFunc 连接状态探测
type OnlineFunc func() bool

// Manager 离线缓存管理器
type Manager struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	online OnlineFunc

	mu     sync.Mutex
	issued map[string]uint64 // 每 key 最近一次签发的获取序号
}

// NewManager 创建缓存管理器
// now 为 nil 时使用系统时钟；online 为 nil 时视为始终在线
func NewManager(store Store, logger *zap.Logger, now func() time.Time, online OnlineFunc) *Manager {
	if now == nil {
		now = time.Now
	}
	if online == nil {
		online = func() bool { return true }
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		store:  store,
		logger: logger,
		now:    now,
		online: online,
		issued: make(map[string]uint64),
	}
}

// Get 读取未过期的缓存条目
// 过期条目惰性清除并视为不存在；key 缺失与存储故障均表现为未命中
func (m *Manager) Get(ctx context.Context, key string) (*Entry, bool) {
	entry, err := m.store.Read(ctx, key)
	if err != nil {
		m.logger.Warn("读取缓存失败，按未命中处理", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if entry == nil {
		return nil, false
	}
	if entry.Expired(m.now()) {
		if err := m.store.Delete(ctx, key); err != nil {
			m.logger.Warn("清除过期缓存失败", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	return entry, true
}

// Set 覆盖写入缓存条目
// 持久化失败只记日志，不向调用方传播——缓存是尽力而为的优化
func (m *Manager) Set(ctx context.Context, key string, value json.RawMessage, maxAge time.Duration) {
	now := m.now()
	entry := &Entry{
		Key:       key,
		Value:     value,
		FetchedAt: now,
		ExpiresAt: now.Add(maxAge),
	}
	if err := m.store.Write(ctx, entry); err != nil {
		m.logger.Warn("写入缓存失败", zap.String("key", key), zap.Error(err))
	}
}

// FetchWithFallback 按"实时 > 缓存 > 失败"顺序取数
//
// 离线时：命中缓存（含过期条目）即返回；否则 ErrOfflineUnavailable。
// 在线时：实时获取成功则写缓存并返回 fresh；失败则回退缓存（含过期
// 条目，标记 stale 并保留原始错误）；无缓存可回退时传播 LiveFetchError。
func (m *Manager) FetchWithFallback(ctx context.Context, key string, fetch FetchFunc, maxAge time.Duration) (*Result, error) {
	if !m.online() {
		if entry, ok := m.rawRead(ctx, key); ok {
			return m.cachedResult(entry, nil), nil
		}
		return nil, ErrOfflineUnavailable
	}

	seq := m.issueSeq(key)
	value, err := fetch(ctx)
	if err == nil {
		if m.isLatestSeq(key, seq) {
			m.Set(ctx, key, value, maxAge)
		}
		return &Result{Value: value, Source: SourceFresh, FetchedAt: m.now()}, nil
	}

	if entry, ok := m.rawRead(ctx, key); ok {
		m.logger.Warn("实时获取失败，降级返回缓存数据",
			zap.String("key", key), zap.Error(err))
		return m.cachedResult(entry, err), nil
	}

	return nil, &LiveFetchError{Err: err}
}

// ReconcileOnReconnect 连接恢复后的机会性补偿刷新
// 用户未主动发起该操作，任何错误只记日志，不向上层暴露
func (m *Manager) ReconcileOnReconnect(ctx context.Context, key string, fetch FetchFunc, maxAge time.Duration) {
	seq := m.issueSeq(key)
	value, err := fetch(ctx)
	if err != nil {
		m.logger.Warn("连接恢复补偿刷新失败", zap.String("key", key), zap.Error(err))
		return
	}
	if m.isLatestSeq(key, seq) {
		m.Set(ctx, key, value, maxAge)
	}
}

// ── 维护操作（幂等，空缓存不报错）──

// ClearExpired 清除全部过期条目，返回清除数量
func (m *Manager) ClearExpired(ctx context.Context) int {
	return m.clearWhere(ctx, func(e *Entry, now time.Time) bool {
		return e.Expired(now)
	})
}

// ClearOlderThan 清除获取时间早于 now-maxAge 的条目，返回清除数量
func (m *Manager) ClearOlderThan(ctx context.Context, maxAge time.Duration) int {
	return m.clearWhere(ctx, func(e *Entry, now time.Time) bool {
		return e.FetchedAt.Before(now.Add(-maxAge))
	})
}

// ClearAll 清空缓存
func (m *Manager) ClearAll(ctx context.Context) {
	m.clearWhere(ctx, func(*Entry, time.Time) bool { return true })
}

func (m *Manager) clearWhere(ctx context.Context, match func(*Entry, time.Time) bool) int {
	entries, err := m.store.List(ctx)
	if err != nil {
		m.logger.Warn("枚举缓存条目失败", zap.Error(err))
		return 0
	}

	now := m.now()
	removed := 0
	for i := range entries {
		if !match(&entries[i], now) {
			continue
		}
		if err := m.store.Delete(ctx, entries[i].Key); err != nil {
			m.logger.Warn("删除缓存条目失败", zap.String("key", entries[i].Key), zap.Error(err))
			continue
		}
		removed++
	}
	return removed
}

// ── 内部辅助方法 ──

// rawRead 忽略过期语义的直接读取，仅供降级回退路径使用
func (m *Manager) rawRead(ctx context.Context, key string) (*Entry, bool) {
	entry, err := m.store.Read(ctx, key)
	if err != nil {
		m.logger.Warn("读取缓存失败，按未命中处理", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	if entry == nil {
		return nil, false
	}
	return entry, true
}

func (m *Manager) cachedResult(entry *Entry, fetchErr error) *Result {
	source := SourceCache
	if entry.Expired(m.now()) {
		source = SourceStale
	}
	return &Result{
		Value:     entry.Value,
		Source:    source,
		FetchedAt: entry.FetchedAt,
		FetchErr:  fetchErr,
	}
}

// issueSeq 为一次实时获取签发该 key 的最新序号
func (m *Manager) issueSeq(key string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.issued[key]++
	return m.issued[key]
}

// isLatestSeq 判断序号是否仍为该 key 最新签发；迟到的旧响应被丢弃
func (m *Manager) isLatestSeq(key string, seq uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.issued[key] == seq
}

// ── 泛型辅助 ──
//
// 业务层以强类型读写缓存，序列化边界收敛在此处

// FetchAs 以强类型执行 FetchWithFallback
func FetchAs[T any](ctx context.Context, m *Manager, key string, fetch func(ctx context.Context) (T, error), maxAge time.Duration) (T, *Result, error) {
	var zero T

	raw := func(ctx context.Context) (json.RawMessage, error) {
		value, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("序列化缓存负载失败: %w", err)
		}
		return data, nil
	}

	result, err := m.FetchWithFallback(ctx, key, raw, maxAge)
	if err != nil {
		return zero, nil, err
	}

	var value T
	if err := json.Unmarshal(result.Value, &value); err != nil {
		return zero, nil, fmt.Errorf("反序列化缓存负载失败: %w", err)
	}
	return value, result, nil
}

// GetAs 以强类型读取未过期缓存
func GetAs[T any](ctx context.Context, m *Manager, key string) (T, bool) {
	var zero T
	entry, ok := m.Get(ctx, key)
	if !ok {
		return zero, false
	}
	var value T
	if err := json.Unmarshal(entry.Value, &value); err != nil {
		m.logger.Warn("反序列化缓存负载失败", zap.String("key", key), zap.Error(err))
		return zero, false
	}
	return value, true
}
