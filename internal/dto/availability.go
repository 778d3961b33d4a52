package dto

import "time"

// ── 可用性模块 DTO ──

// AvailabilityRequest 会议室某日可用性查询
type AvailabilityRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

// SlotResponse 单个时段
type SlotResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Status    string    `json:"status"` // available | booked | past
	BookingID string    `json:"booking_id,omitempty"`
	Bookable  bool      `json:"bookable"`
}

// AvailabilityResponse 某日时段切分结果
type AvailabilityResponse struct {
	RoomID string         `json:"room_id"`
	Date   string         `json:"date"`
	Slots  []SlotResponse `json:"slots"`
	// Source 数据来源: fresh | cache | stale（降级供数时提示前端）
	Source string `json:"source"`
	// FetchError 降级供数时的原始错误描述，仅供展示
	FetchError string `json:"fetch_error,omitempty"`
}

// CachedRoomListResponse 经缓存层供数的会议室列表
type CachedRoomListResponse struct {
	List   []RoomResponse `json:"list"`
	Source string         `json:"source"`
}
