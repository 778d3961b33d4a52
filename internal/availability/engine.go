package availability

import (
	"errors"
	"fmt"
	"time"

	"github.com/esotericremi/Vii-Bookings-sub002/internal/model"
)

// ── 可用性引擎 ──────────────────────────────────────────────
//
// 职责：
//   - 判断候选时间区间是否与会议室已有预订冲突
//   - 将一天的开放时段切分为可展示的时段列表
//
// 设计决策：
//   - 区间判定采用半开区间 [s,e)：前一预订结束时刻与后一预订开始时刻
//     相同不算冲突（背靠背预订合法）
//   - "当前时间"通过注入的时钟获取，保证测试可控、输出确定
//   - 开放时段无法被时段粒度整除时，最后一个时段截断到结束时刻，
//     保证切分结果恰好覆盖 [开放开始, 开放结束)
// ─────────────────────────────────────────────────────────────

// ErrInvalidInterval 候选区间校验失败：结束时刻必须晚于开始时刻
var ErrInvalidInterval = errors.New("时间区间无效: end_time 必须晚于 start_time")

// ConfigError 切分参数配置错误，不可重试
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("时段切分配置错误: %s", e.Reason)
}

// SlotStatus 时段状态
type SlotStatus string

const (
	// SlotStatusAvailable 可预订
	SlotStatusAvailable SlotStatus = "available"
	// SlotStatusBooked 已被占用
	SlotStatusBooked SlotStatus = "booked"
	// SlotStatusPast 已过去，不可预订
	SlotStatusPast SlotStatus = "past"
)

// WorkingHours 每日开放时段，[StartHour, EndHour) 整点小时
type WorkingHours struct {
	StartHour int
	EndHour   int
}

// Slot 切分产出的单个时段
type Slot struct {
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Status    SlotStatus `json:"status"`
	BookingID string     `json:"booking_id,omitempty"` // 占用该时段的首个预订
}

// Bookable 时段是否可被预订
func (s Slot) Bookable() bool { return s.Status == SlotStatusAvailable }

// Engine 可用性引擎
type Engine struct {
	now func() time.Time
}

// NewEngine 创建引擎实例，now 为 nil 时使用系统时钟
func NewEngine(now func() time.Time) *Engine {
	if now == nil {
		now = time.Now
	}
	return &Engine{now: now}
}

// Now 返回引擎时钟的当前时刻，供依赖同一时钟的调用方使用
func (e *Engine) Now() time.Time { return e.now() }

// CheckConflict 判断候选区间 [start, end) 是否与任一已确认预订重叠
// end <= start 视为调用方前置条件违反，返回 ErrInvalidInterval，不做静默修正
func (e *Engine) CheckConflict(existing []model.Booking, start, end time.Time) (bool, error) {
	if !end.After(start) {
		return false, ErrInvalidInterval
	}
	return e.firstConflict(existing, start, end) != nil, nil
}

// firstConflict 返回与 [start, end) 重叠的首个已确认预订，无冲突返回 nil
// 重叠判定：s1 < e2 且 s2 < e1（半开区间语义）
func (e *Engine) firstConflict(existing []model.Booking, start, end time.Time) *model.Booking {
	for i := range existing {
		b := &existing[i]
		if b.Status != model.BookingStatusConfirmed {
			continue
		}
		if b.StartTime.Before(end) && start.Before(b.EndTime) {
			return b
		}
	}
	return nil
}

// PartitionDay 将 date 所在日的开放时段切分为时段列表
//
// 切分规则：
//   - 从 hours.StartHour 起按 slotMinutes 步进，下一时段起点到达或超过
//     hours.EndHour 即停止；末段超出时截断到结束时刻
//   - 产出时段连续、互不重叠，恰好覆盖 [StartHour, EndHour)
//   - 与已确认预订重叠的时段标记 booked 并记录首个冲突预订
//   - 起点早于当前时刻的未占用时段标记 past（覆盖 available）
//
// 非法参数（slotMinutes <= 0、StartHour >= EndHour、越界小时）返回
// ConfigError，立即失败，不做钳制
func (e *Engine) PartitionDay(date time.Time, hours WorkingHours, slotMinutes int, existing []model.Booking) ([]Slot, error) {
	if slotMinutes <= 0 {
		return nil, &ConfigError{Reason: fmt.Sprintf("时段粒度必须为正数，实际 %d", slotMinutes)}
	}
	if hours.StartHour < 0 || hours.EndHour > 24 || hours.StartHour >= hours.EndHour {
		return nil, &ConfigError{Reason: fmt.Sprintf("开放时段无效: [%d, %d)", hours.StartHour, hours.EndHour)}
	}

	year, month, day := date.Date()
	loc := date.Location()
	windowStart := time.Date(year, month, day, hours.StartHour, 0, 0, 0, loc)
	windowEnd := time.Date(year, month, day, hours.EndHour, 0, 0, 0, loc)

	now := e.now()
	step := time.Duration(slotMinutes) * time.Minute

	var slots []Slot
	for cur := windowStart; cur.Before(windowEnd); cur = cur.Add(step) {
		slotEnd := cur.Add(step)
		if slotEnd.After(windowEnd) {
			slotEnd = windowEnd // 末段截断，保证恰好覆盖开放时段
		}

		slot := Slot{StartTime: cur, EndTime: slotEnd}
		if b := e.firstConflict(existing, cur, slotEnd); b != nil {
			slot.Status = SlotStatusBooked
			slot.BookingID = b.BookingID
		} else if cur.Before(now) {
			slot.Status = SlotStatusPast
		} else {
			slot.Status = SlotStatusAvailable
		}
		slots = append(slots, slot)
	}

	return slots, nil
}
