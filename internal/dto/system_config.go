package dto

// ── 系统配置模块 DTO ──

// SystemConfigResponse 系统配置响应
type SystemConfigResponse struct {
	OpenHour            int `json:"open_hour"`
	CloseHour           int `json:"close_hour"`
	SlotDurationMinutes int `json:"slot_duration_minutes"`
	CacheMaxAgeSeconds  int `json:"cache_max_age_seconds"`
	HorizonDays         int `json:"horizon_days"`
}

// UpdateSystemConfigRequest 更新系统配置请求
type UpdateSystemConfigRequest struct {
	OpenHour            *int `json:"open_hour"             binding:"omitempty,min=0,max=23"`
	CloseHour           *int `json:"close_hour"            binding:"omitempty,min=1,max=24"`
	SlotDurationMinutes *int `json:"slot_duration_minutes" binding:"omitempty,min=5,max=480"`
	CacheMaxAgeSeconds  *int `json:"cache_max_age_seconds" binding:"omitempty,min=10,max=86400"`
	HorizonDays         *int `json:"horizon_days"          binding:"omitempty,min=1,max=365"`
}
