package dto

import "time"

// ── 预订模块 DTO ──

// CreateBookingRequest 创建预订请求
type CreateBookingRequest struct {
	RoomID    string    `json:"room_id"    binding:"required,uuid"`
	Title     string    `json:"title"      binding:"required,min=2,max=200"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time"   binding:"required"`
}

// UpdateBookingRequest 更新预订请求（改时间/换会议室）
type UpdateBookingRequest struct {
	RoomID    *string    `json:"room_id"    binding:"omitempty,uuid"`
	Title     *string    `json:"title"      binding:"omitempty,min=2,max=200"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
	Version   int        `json:"version"    binding:"required,min=1"`
}

// BookingListRequest 预订列表请求
type BookingListRequest struct {
	Page     int    `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	RoomID   string `form:"room_id"              binding:"omitempty,uuid"`
	UserID   string `form:"user_id"              binding:"omitempty,uuid"`
	Date     string `form:"date"                 binding:"omitempty,datetime=2006-01-02"`
	Status   string `form:"status"               binding:"omitempty,oneof=confirmed cancelled"`
}

// ExportBookingsRequest 预订报表导出请求
type ExportBookingsRequest struct {
	RoomID string `form:"room_id" binding:"omitempty,uuid"`
	Date   string `form:"date"    binding:"omitempty,datetime=2006-01-02"`
	Status string `form:"status"  binding:"omitempty,oneof=confirmed cancelled"`
}

// BookingResponse 预订响应
type BookingResponse struct {
	ID        string        `json:"id"`
	RoomID    string        `json:"room_id"`
	Title     string        `json:"title"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Status    string        `json:"status"`
	Version   int           `json:"version"`
	CreatedAt time.Time     `json:"created_at"`
	Room      *RoomResponse `json:"room,omitempty"`
	Owner     *UserResponse `json:"owner,omitempty"`
}
