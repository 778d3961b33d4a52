package model

// Room 会议室表 — 对应 rooms
// OpenHour/CloseHour/SlotDurationMinutes 为 NULL 时使用系统默认配置
type Room struct {
	RoomID              string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"room_id"`
	Name                string      `gorm:"type:varchar(100);not null"                     json:"name"`
	Location            string      `gorm:"type:varchar(200)"                              json:"location,omitempty"`
	Capacity            int         `gorm:"not null;default:4"                             json:"capacity"`
	Amenities           StringArray `gorm:"type:text[]"                                    json:"amenities,omitempty"`
	OpenHour            *int        `gorm:"type:smallint"                                  json:"open_hour,omitempty"`
	CloseHour           *int        `gorm:"type:smallint"                                  json:"close_hour,omitempty"`
	SlotDurationMinutes *int        `gorm:"type:smallint"                                  json:"slot_duration_minutes,omitempty"`
	IsActive            bool        `gorm:"not null;default:true"                          json:"is_active"`
	VersionedModel
}

// TableName 指定表名
func (Room) TableName() string { return "rooms" }
