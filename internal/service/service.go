package service

import (
	"go.uber.org/zap"

	"github.com/esotericremi/Vii-Bookings-sub002/config"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/availability"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/cache"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/repository"
	"github.com/esotericremi/Vii-Bookings-sub002/pkg/jwt"
	"github.com/esotericremi/Vii-Bookings-sub002/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth         AuthService
	User         UserService
	Room         RoomService
	Booking      BookingService
	Availability AvailabilityService
	SystemConfig SystemConfigService
	Notification NotificationService
	Export       ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	cacheMgr *cache.Manager,
	engine *availability.Engine,
	logger *zap.Logger,
) *Service {
	return &Service{
		Auth:         NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		User:         NewUserService(repo, logger),
		Room:         NewRoomService(repo, logger),
		Booking:      NewBookingService(cfg, repo, engine, logger),
		Availability: NewAvailabilityService(cfg, repo, engine, cacheMgr, logger),
		SystemConfig: NewSystemConfigService(repo, logger),
		Notification: NewNotificationService(repo, logger),
		Export:       NewExportService(cfg, repo, logger),
	}
}
