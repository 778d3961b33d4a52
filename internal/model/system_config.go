package model

// SystemConfig 系统配置表 — 对应 system_config（单行强类型）
type SystemConfig struct {
	Singleton           bool `gorm:"primaryKey;default:true" json:"-"`
	OpenHour            int  `gorm:"not null;default:8"      json:"open_hour"`
	CloseHour           int  `gorm:"not null;default:20"     json:"close_hour"`
	SlotDurationMinutes int  `gorm:"not null;default:30"     json:"slot_duration_minutes"`
	CacheMaxAgeSeconds  int  `gorm:"not null;default:300"    json:"cache_max_age_seconds"`
	HorizonDays         int  `gorm:"not null;default:30"     json:"horizon_days"`
	BaseModel
}

// TableName 指定表名
func (SystemConfig) TableName() string { return "system_config" }
