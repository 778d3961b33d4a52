package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/esotericremi/Vii-Bookings-sub002/config"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/api/handler"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/api/router"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/availability"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/cache"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/repository"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/service"
	"github.com/esotericremi/Vii-Bookings-sub002/pkg/database"
	"github.com/esotericremi/Vii-Bookings-sub002/pkg/jwt"
	applogger "github.com/esotericremi/Vii-Bookings-sub002/pkg/logger"
	"github.com/esotericremi/Vii-Bookings-sub002/pkg/redis"
)

// monitorInterval 数据源在线状态的探测周期
const monitorInterval = 10 * time.Second

func main() {
	// 1. 加载配置
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	// 2. 初始化日志
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("应用启动中...",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. 连接数据库
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("数据库连接失败", zap.Error(err))
	}
	logger.Info("数据库连接成功")

	// 3.1 执行数据库迁移
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("获取底层 sql.DB 失败", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("数据库迁移失败", zap.Error(err))
	}

	// 4. 连接 Redis（可选：连接失败时降级运行，不中断启动）
	var rdb *redis.Client
	rdb, err = redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("Redis 连接失败，Token 黑名单与限流功能将不可用", zap.Error(err))
		rdb = nil
	}

	// 5. 初始化 JWT 管理器
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. 数据源在线监测：以数据库 Ping 作为探针
	monitor := cache.NewMonitor(func() bool {
		return sqlDB.Ping() == nil
	}, logger)

	// 7. 离线缓存管理器：缓存条目持久化在数据库中
	repo := repository.NewRepository(db)
	cacheMgr := cache.NewManager(repository.NewCacheStore(db), logger, nil, monitor.Online)

	// 8. 可用性引擎（使用系统时钟）
	engine := availability.NewEngine(nil)

	// 9. 依赖注入: Repository → Service → Handler
	svc := service.NewService(cfg, repo, jwtMgr, rdb, cacheMgr, engine, logger)
	svc.Availability.RegisterReconcilers(monitor)
	h := handler.NewHandler(svc)

	// 10. 启动在线监测循环
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	go monitor.Run(monitorCtx, monitorInterval)

	// 11. 初始化路由
	engineHTTP := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 12. 启动 HTTP 服务器（优雅关闭）
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engineHTTP,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP 服务器已启动", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP 服务器异常", zap.Error(err))
		}
	}()

	// 13. 监听系统信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("收到关闭信号，开始优雅关闭...", zap.String("signal", sig.String()))

	stopMonitor()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	if sqlDB != nil {
		sqlDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("服务器已关闭")
}
