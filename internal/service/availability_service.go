package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/esotericremi/Vii-Bookings-sub002/config"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/availability"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/cache"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/dto"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/model"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/repository"
)

// ── 缓存 key 约定 ──

const (
	cacheKeyRoomList = "rooms:list"
)

func cacheKeyBookings(roomID, date string) string {
	return fmt.Sprintf("bookings:%s:%s", roomID, date)
}

// AvailabilityService 可用性查询业务（经离线缓存层供数）
type AvailabilityService interface {
	GetDayAvailability(ctx context.Context, roomID string, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error)
	ListRoomsCached(ctx context.Context) (*dto.CachedRoomListResponse, error)
	// RegisterReconcilers 挂载连接恢复后的缓存补偿刷新
	RegisterReconcilers(monitor *cache.Monitor)
}

type availabilityService struct {
	cfg      *config.Config
	repo     *repository.Repository
	engine   *availability.Engine
	cacheMgr *cache.Manager
	logger   *zap.Logger
}

// NewAvailabilityService 创建可用性 Service
func NewAvailabilityService(cfg *config.Config, repo *repository.Repository, engine *availability.Engine, cacheMgr *cache.Manager, logger *zap.Logger) AvailabilityService {
	return &availabilityService{cfg: cfg, repo: repo, engine: engine, cacheMgr: cacheMgr, logger: logger}
}

// ────────── GetDayAvailability ──────────

// GetDayAvailability 查询会议室某日时段切分结果
// 预订数据经缓存层取得：在线实时获取并更新缓存，离线或获取失败时
// 回退缓存数据并在响应中标注来源，切分始终基于当前时钟重新计算
func (s *availabilityService) GetDayAvailability(ctx context.Context, roomID string, req *dto.AvailabilityRequest) (*dto.AvailabilityResponse, error) {
	date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
	if err != nil {
		return nil, fmt.Errorf("日期格式无效: %w", err)
	}

	room, err := s.repo.Room.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	hours, slotMinutes, maxAge := s.resolveSettings(ctx, room)

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	bookings, result, err := cache.FetchAs(ctx, s.cacheMgr, cacheKeyBookings(roomID, req.Date),
		func(ctx context.Context) ([]model.Booking, error) {
			return s.repo.Booking.ListConfirmedInRange(ctx, roomID, dayStart, dayEnd)
		}, maxAge)
	if err != nil {
		return nil, err
	}

	slots, err := s.engine.PartitionDay(date, hours, slotMinutes, bookings)
	if err != nil {
		return nil, err
	}

	resp := &dto.AvailabilityResponse{
		RoomID: roomID,
		Date:   req.Date,
		Slots:  make([]dto.SlotResponse, 0, len(slots)),
		Source: string(result.Source),
	}
	if result.FetchErr != nil {
		resp.FetchError = result.FetchErr.Error()
	}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, dto.SlotResponse{
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Status:    string(slot.Status),
			BookingID: slot.BookingID,
			Bookable:  slot.Bookable(),
		})
	}
	return resp, nil
}

// ────────── ListRoomsCached ──────────

// ListRoomsCached 经缓存层供数的启用中会议室列表
func (s *availabilityService) ListRoomsCached(ctx context.Context) (*dto.CachedRoomListResponse, error) {
	maxAge := s.cacheMaxAge(ctx)

	rooms, result, err := cache.FetchAs(ctx, s.cacheMgr, cacheKeyRoomList,
		func(ctx context.Context) ([]model.Room, error) {
			return s.repo.Room.ListActive(ctx)
		}, maxAge)
	if err != nil {
		return nil, err
	}

	resp := &dto.CachedRoomListResponse{
		List:   make([]dto.RoomResponse, 0, len(rooms)),
		Source: string(result.Source),
	}
	for i := range rooms {
		resp.List = append(resp.List, *toRoomResponse(&rooms[i]))
	}
	return resp, nil
}

// ────────── RegisterReconcilers ──────────

// RegisterReconcilers 连接恢复后刷新会议室列表缓存
// 预订缓存按 room+date 维度分散，留待下一次查询时自然刷新
func (s *availabilityService) RegisterReconcilers(monitor *cache.Monitor) {
	monitor.Register(func(ctx context.Context) {
		s.cacheMgr.ReconcileOnReconnect(ctx, cacheKeyRoomList,
			func(ctx context.Context) (json.RawMessage, error) {
				rooms, err := s.repo.Room.ListActive(ctx)
				if err != nil {
					return nil, err
				}
				return json.Marshal(rooms)
			}, s.cacheMaxAge(ctx))
	})
}

// ── 内部辅助 ──

// resolveSettings 解析会议室生效配置：房间覆盖 > 系统配置 > 静态默认
func (s *availabilityService) resolveSettings(ctx context.Context, room *model.Room) (availability.WorkingHours, int, time.Duration) {
	hours := availability.WorkingHours{
		StartHour: s.cfg.Booking.OpenHour,
		EndHour:   s.cfg.Booking.CloseHour,
	}
	slotMinutes := s.cfg.Booking.SlotDurationMinutes
	maxAge := s.cfg.Booking.CacheMaxAge

	if sysCfg, err := s.repo.SystemConfig.Get(ctx); err == nil {
		hours.StartHour = sysCfg.OpenHour
		hours.EndHour = sysCfg.CloseHour
		slotMinutes = sysCfg.SlotDurationMinutes
		maxAge = time.Duration(sysCfg.CacheMaxAgeSeconds) * time.Second
	}

	if room.OpenHour != nil {
		hours.StartHour = *room.OpenHour
	}
	if room.CloseHour != nil {
		hours.EndHour = *room.CloseHour
	}
	if room.SlotDurationMinutes != nil {
		slotMinutes = *room.SlotDurationMinutes
	}
	return hours, slotMinutes, maxAge
}

// cacheMaxAge 系统配置可读时使用其缓存有效期，否则回退静态默认
func (s *availabilityService) cacheMaxAge(ctx context.Context) time.Duration {
	if sysCfg, err := s.repo.SystemConfig.Get(ctx); err == nil {
		return time.Duration(sysCfg.CacheMaxAgeSeconds) * time.Second
	}
	return s.cfg.Booking.CacheMaxAge
}
