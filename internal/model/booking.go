package model

import "time"

// ── 预订状态 ──

const (
	// BookingStatusConfirmed 已确认，参与冲突检测
	BookingStatusConfirmed = "confirmed"
	// BookingStatusCancelled 已取消，不参与冲突检测
	BookingStatusCancelled = "cancelled"
)

// Booking 预订表 — 对应 bookings
// 预订不做物理删除，取消为状态流转（status → cancelled）
type Booking struct {
	BookingID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"booking_id"`
	RoomID    string    `gorm:"type:uuid;not null"                             json:"room_id"`
	UserID    string    `gorm:"type:uuid;not null"                             json:"user_id"`
	Title     string    `gorm:"type:varchar(200);not null"                     json:"title"`
	StartTime time.Time `gorm:"not null"                                       json:"start_time"`
	EndTime   time.Time `gorm:"not null"                                       json:"end_time"`
	Status    string    `gorm:"type:varchar(20);not null;default:'confirmed'"  json:"status"`
	BaseModel
	Version int `gorm:"not null;default:1" json:"version"`

	// 关联
	Room *Room `gorm:"foreignKey:RoomID;references:RoomID" json:"room,omitempty"`
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Booking) TableName() string { return "bookings" }
