package handler

import "github.com/esotericremi/Vii-Bookings-sub002/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Room         *RoomHandler
	Booking      *BookingHandler
	Availability *AvailabilityHandler
	SystemConfig *SystemConfigHandler
	Notification *NotificationHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		User:         NewUserHandler(svc.User),
		Room:         NewRoomHandler(svc.Room),
		Booking:      NewBookingHandler(svc.Booking),
		Availability: NewAvailabilityHandler(svc.Availability),
		SystemConfig: NewSystemConfigHandler(svc.SystemConfig),
		Notification: NewNotificationHandler(svc.Notification),
		Export:       NewExportHandler(svc.Export),
	}
}
