package cache

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ReconcileFunc 连接恢复时执行的补偿动作
type ReconcileFunc func(ctx context.Context)

// Monitor 连接状态边沿检测器
// 跟踪在线状态，在每次 离线→在线 跳变时恰好触发一次已注册的补偿动作
type Monitor struct {
	probe  OnlineFunc
	logger *zap.Logger

	mu          sync.Mutex
	online      bool
	reconcilers []ReconcileFunc
}

// NewMonitor 创建连接监视器，初始状态取首次探测结果
func NewMonitor(probe OnlineFunc, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		probe:  probe,
		logger: logger,
		online: probe(),
	}
}

// Online 当前是否在线
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Register 注册连接恢复时的补偿动作
func (m *Monitor) Register(fn ReconcileFunc) {
	m.mu.Lock()
	m.reconcilers = append(m.reconcilers, fn)
	m.mu.Unlock()
}

// Observe 记录一次探测结果，检测到 离线→在线 跳变时触发补偿
func (m *Monitor) Observe(ctx context.Context, online bool) {
	m.mu.Lock()
	wasOnline := m.online
	m.online = online
	var fire []ReconcileFunc
	if online && !wasOnline {
		fire = append(fire, m.reconcilers...)
	}
	m.mu.Unlock()

	if len(fire) == 0 {
		return
	}

	m.logger.Info("数据源连接恢复，触发缓存补偿刷新", zap.Int("reconcilers", len(fire)))
	for _, fn := range fire {
		fn(ctx)
	}
}

// Run 按固定间隔轮询探测连接状态，直到 ctx 取消
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Observe(ctx, m.probe())
		}
	}
}
