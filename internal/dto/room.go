package dto

// ── 会议室模块 DTO ──

// CreateRoomRequest 创建会议室请求
type CreateRoomRequest struct {
	Name                string   `json:"name"                  binding:"required,min=2,max=100"`
	Location            string   `json:"location"              binding:"omitempty,max=200"`
	Capacity            int      `json:"capacity"              binding:"required,min=1,max=500"`
	Amenities           []string `json:"amenities"             binding:"omitempty,dive,max=50"`
	OpenHour            *int     `json:"open_hour"             binding:"omitempty,min=0,max=23"`
	CloseHour           *int     `json:"close_hour"            binding:"omitempty,min=1,max=24"`
	SlotDurationMinutes *int     `json:"slot_duration_minutes" binding:"omitempty,min=5,max=480"`
}

// UpdateRoomRequest 更新会议室请求
type UpdateRoomRequest struct {
	Name                *string  `json:"name"                  binding:"omitempty,min=2,max=100"`
	Location            *string  `json:"location"              binding:"omitempty,max=200"`
	Capacity            *int     `json:"capacity"              binding:"omitempty,min=1,max=500"`
	Amenities           []string `json:"amenities"             binding:"omitempty,dive,max=50"`
	OpenHour            *int     `json:"open_hour"             binding:"omitempty,min=0,max=23"`
	CloseHour           *int     `json:"close_hour"            binding:"omitempty,min=1,max=24"`
	SlotDurationMinutes *int     `json:"slot_duration_minutes" binding:"omitempty,min=5,max=480"`
	IsActive            *bool    `json:"is_active"`
}

// RoomListRequest 会议室列表请求
type RoomListRequest struct {
	Page        int    `form:"page,default=1"       binding:"omitempty,min=1"`
	PageSize    int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
	MinCapacity *int   `form:"min_capacity"         binding:"omitempty,min=1"`
	Keyword     string `form:"keyword"              binding:"omitempty,max=100"`
	ActiveOnly  bool   `form:"active_only,default=true"`
}

// RoomResponse 会议室响应
type RoomResponse struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	Location            string   `json:"location,omitempty"`
	Capacity            int      `json:"capacity"`
	Amenities           []string `json:"amenities,omitempty"`
	OpenHour            *int     `json:"open_hour,omitempty"`
	CloseHour           *int     `json:"close_hour,omitempty"`
	SlotDurationMinutes *int     `json:"slot_duration_minutes,omitempty"`
	IsActive            bool     `json:"is_active"`
}
