package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Room         RoomRepository
	Booking      BookingRepository
	SystemConfig SystemConfigRepository
	Notification NotificationRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Room:         NewRoomRepo(db),
		Booking:      NewBookingRepo(db),
		SystemConfig: NewSystemConfigRepo(db),
		Notification: NewNotificationRepo(db),
	}
}
