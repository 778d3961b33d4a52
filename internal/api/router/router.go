package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/esotericremi/Vii-Bookings-sub002/config"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/api/handler"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/api/middleware"
	"github.com/esotericremi/Vii-Bookings-sub002/pkg/jwt"
	"github.com/esotericremi/Vii-Bookings-sub002/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(1 << 20))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，限流防爆破）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, 20, time.Minute))
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.POST("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth("admin"), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth("admin"), h.User.GetUser)
				users.PUT("/:id", h.User.UpdateUser) // admin 或本人（Service 层鉴权）
				users.DELETE("/:id", middleware.RoleAuth("admin"), h.User.DeleteUser)
				users.PUT("/:id/role", middleware.RoleAuth("admin"), h.User.AssignRole)
			}

			// 会议室模块
			rooms := authorized.Group("/rooms")
			{
				rooms.GET("", h.Room.ListRooms)
				rooms.GET("/cached", h.Availability.ListRoomsCached)
				rooms.GET("/:id", h.Room.GetRoom)
				rooms.GET("/:id/availability", h.Availability.GetDayAvailability)
				rooms.POST("", middleware.RoleAuth("admin"), h.Room.CreateRoom)
				rooms.PUT("/:id", middleware.RoleAuth("admin"), h.Room.UpdateRoom)
				rooms.DELETE("/:id", middleware.RoleAuth("admin"), h.Room.DeleteRoom)
			}

			// 预订模块
			bookings := authorized.Group("/bookings")
			{
				bookings.POST("", h.Booking.CreateBooking)
				bookings.GET("", h.Booking.ListBookings)
				bookings.GET("/:id", h.Booking.GetBooking)
				bookings.PUT("/:id", h.Booking.UpdateBooking)
				bookings.POST("/:id/cancel", h.Booking.CancelBooking)
			}

			// 系统配置模块
			systemConfig := authorized.Group("/config")
			{
				systemConfig.GET("", h.SystemConfig.GetConfig)
				systemConfig.PUT("", middleware.RoleAuth("admin"), h.SystemConfig.UpdateConfig)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListNotifications)
				notifications.GET("/unread-count", h.Notification.UnreadCount)
				notifications.POST("/:id/read", h.Notification.MarkRead)
				notifications.POST("/read-all", h.Notification.MarkAllRead)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/bookings", h.Export.ExportBookings)
				export.GET("/bookings/:id/ics", h.Export.ExportBookingICS)
			}
		}
	}

	return r
}
