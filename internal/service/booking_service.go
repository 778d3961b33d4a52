package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/esotericremi/Vii-Bookings-sub002/config"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/availability"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/dto"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/model"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/repository"
)

// ── 预订业务错误 ──

var (
	ErrBookingNotFound      = errors.New("预订不存在")
	ErrBookingConflict      = errors.New("该时段与已有预订冲突")
	ErrBookingInvalid       = errors.New("预订时间无效: end_time 必须晚于 start_time")
	ErrBookingInPast        = errors.New("不能预订已经开始的时段")
	ErrBookingBeyondHorizon = errors.New("预订时间超出可提前预订范围")
	ErrBookingCancelled     = errors.New("预订已取消，不能再修改")
	ErrBookingNotOwner      = errors.New("只有预订发起人或管理员可以操作此预订")
)

// BookingService 预订业务
type BookingService interface {
	Create(ctx context.Context, req *dto.CreateBookingRequest, callerID string) (*dto.BookingResponse, error)
	GetByID(ctx context.Context, id string) (*dto.BookingResponse, error)
	List(ctx context.Context, req *dto.BookingListRequest, callerID, callerRole string) ([]dto.BookingResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateBookingRequest, callerID, callerRole string) (*dto.BookingResponse, error)
	Cancel(ctx context.Context, id string, version int, callerID, callerRole string) (*dto.BookingResponse, error)
}

type bookingService struct {
	cfg    *config.Config
	repo   *repository.Repository
	engine *availability.Engine
	logger *zap.Logger
}

// NewBookingService 创建预订 Service
func NewBookingService(cfg *config.Config, repo *repository.Repository, engine *availability.Engine, logger *zap.Logger) BookingService {
	return &bookingService{cfg: cfg, repo: repo, engine: engine, logger: logger}
}

// ────────── Create ──────────

// Create 新建预订：校验区间 → 校验会议室 → 冲突检测 → 落库 → 发通知
// 冲突检测与落库之间存在竞态窗口，由数据库约束与乐观锁版本兜底
func (s *bookingService) Create(ctx context.Context, req *dto.CreateBookingRequest, callerID string) (*dto.BookingResponse, error) {
	if err := s.validateInterval(ctx, req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	room, err := s.repo.Room.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !room.IsActive {
		return nil, ErrRoomInactive
	}

	if err := s.ensureNoConflict(ctx, req.RoomID, req.StartTime, req.EndTime, ""); err != nil {
		return nil, err
	}

	booking := &model.Booking{
		RoomID:    req.RoomID,
		UserID:    callerID,
		Title:     req.Title,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Status:    model.BookingStatusConfirmed,
	}
	booking.CreatedBy = &callerID
	if err := s.repo.Booking.Create(ctx, booking); err != nil {
		return nil, err
	}
	booking.Room = room

	s.notify(ctx, callerID, model.NotificationTypeBookingCreated,
		"预订创建成功",
		fmt.Sprintf("「%s」已预订 %s %s - %s", room.Name,
			booking.StartTime.Format("2006-01-02"),
			booking.StartTime.Format("15:04"),
			booking.EndTime.Format("15:04")),
		booking.BookingID)

	s.logger.Info("预订已创建",
		zap.String("booking_id", booking.BookingID),
		zap.String("room_id", booking.RoomID),
		zap.String("user_id", callerID))
	return toBookingResponse(booking), nil
}

// ────────── GetByID ──────────

func (s *bookingService) GetByID(ctx context.Context, id string) (*dto.BookingResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return toBookingResponse(booking), nil
}

// ────────── List ──────────

// List 普通成员只能查看本人的预订，管理员可按任意条件过滤
func (s *bookingService) List(ctx context.Context, req *dto.BookingListRequest, callerID, callerRole string) ([]dto.BookingResponse, int64, error) {
	filter := repository.BookingFilter{
		RoomID: req.RoomID,
		UserID: req.UserID,
		Status: req.Status,
		Offset: (req.Page - 1) * req.PageSize,
		Limit:  req.PageSize,
	}
	if callerRole != model.RoleAdmin {
		filter.UserID = callerID
	}
	if req.Date != "" {
		date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err == nil {
			filter.Date = date
		}
	}

	bookings, total, err := s.repo.Booking.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.BookingResponse, 0, len(bookings))
	for i := range bookings {
		list = append(list, *toBookingResponse(&bookings[i]))
	}
	return list, total, nil
}

// ────────── Update ──────────

// Update 改时间或换会议室，乐观锁校验版本；时间变化时重新冲突检测（排除自身）
func (s *bookingService) Update(ctx context.Context, id string, req *dto.UpdateBookingRequest, callerID, callerRole string) (*dto.BookingResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if err := s.authorize(booking, callerID, callerRole); err != nil {
		return nil, err
	}
	if booking.Status == model.BookingStatusCancelled {
		return nil, ErrBookingCancelled
	}

	if req.RoomID != nil {
		room, err := s.repo.Room.GetByID(ctx, *req.RoomID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoomNotFound
			}
			return nil, err
		}
		if !room.IsActive {
			return nil, ErrRoomInactive
		}
		booking.RoomID = *req.RoomID
		booking.Room = room
	}
	if req.Title != nil {
		booking.Title = *req.Title
	}
	if req.StartTime != nil {
		booking.StartTime = *req.StartTime
	}
	if req.EndTime != nil {
		booking.EndTime = *req.EndTime
	}

	if err := s.validateInterval(ctx, booking.StartTime, booking.EndTime); err != nil {
		return nil, err
	}
	if err := s.ensureNoConflict(ctx, booking.RoomID, booking.StartTime, booking.EndTime, booking.BookingID); err != nil {
		return nil, err
	}

	booking.UpdatedBy = &callerID
	if err := s.repo.Booking.UpdateVersioned(ctx, booking, req.Version); err != nil {
		return nil, err
	}

	s.notify(ctx, booking.UserID, model.NotificationTypeBookingUpdated,
		"预订已变更",
		fmt.Sprintf("「%s」的预订时间已调整为 %s %s - %s", booking.Title,
			booking.StartTime.Format("2006-01-02"),
			booking.StartTime.Format("15:04"),
			booking.EndTime.Format("15:04")),
		booking.BookingID)

	return toBookingResponse(booking), nil
}

// ────────── Cancel ──────────

// Cancel 取消为状态流转，不做物理删除；已取消的预订再次取消按幂等处理
func (s *bookingService) Cancel(ctx context.Context, id string, version int, callerID, callerRole string) (*dto.BookingResponse, error) {
	booking, err := s.repo.Booking.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	if err := s.authorize(booking, callerID, callerRole); err != nil {
		return nil, err
	}
	if booking.Status == model.BookingStatusCancelled {
		return toBookingResponse(booking), nil
	}

	booking.Status = model.BookingStatusCancelled
	booking.UpdatedBy = &callerID
	if err := s.repo.Booking.UpdateVersioned(ctx, booking, version); err != nil {
		return nil, err
	}

	s.notify(ctx, booking.UserID, model.NotificationTypeBookingCancelled,
		"预订已取消",
		fmt.Sprintf("「%s」%s 的预订已取消", booking.Title, booking.StartTime.Format("2006-01-02 15:04")),
		booking.BookingID)

	s.logger.Info("预订已取消", zap.String("booking_id", id), zap.String("cancelled_by", callerID))
	return toBookingResponse(booking), nil
}

// ── 内部辅助 ──

// validateInterval 校验区间合法、未开始、且在可提前预订范围内
func (s *bookingService) validateInterval(ctx context.Context, start, end time.Time) error {
	if !end.After(start) {
		return ErrBookingInvalid
	}
	now := s.engine.Now()
	if start.Before(now) {
		return ErrBookingInPast
	}

	horizonDays := s.cfg.Booking.HorizonDays
	if sysCfg, err := s.repo.SystemConfig.Get(ctx); err == nil {
		horizonDays = sysCfg.HorizonDays
	}
	if horizonDays > 0 && start.After(now.AddDate(0, 0, horizonDays)) {
		return ErrBookingBeyondHorizon
	}
	return nil
}

// ensureNoConflict 对 [start, end) 做冲突检测，excludeID 非空时排除指定预订（改期场景）
func (s *bookingService) ensureNoConflict(ctx context.Context, roomID string, start, end time.Time, excludeID string) error {
	existing, err := s.repo.Booking.ListConfirmedInRange(ctx, roomID, start, end)
	if err != nil {
		return err
	}
	if excludeID != "" {
		filtered := existing[:0]
		for _, b := range existing {
			if b.BookingID != excludeID {
				filtered = append(filtered, b)
			}
		}
		existing = filtered
	}

	conflict, err := s.engine.CheckConflict(existing, start, end)
	if err != nil {
		return ErrBookingInvalid
	}
	if conflict {
		return ErrBookingConflict
	}
	return nil
}

// notify 通知写入失败不阻断主流程，仅记录日志
func (s *bookingService) notify(ctx context.Context, userID, typ, title, content, bookingID string) {
	n := &model.Notification{
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Content:   content,
		RelatedID: &bookingID,
	}
	if err := s.repo.Notification.Create(ctx, n); err != nil {
		s.logger.Warn("通知写入失败", zap.String("type", typ), zap.Error(err))
	}
}

func (s *bookingService) authorize(booking *model.Booking, callerID, callerRole string) error {
	if callerRole != model.RoleAdmin && booking.UserID != callerID {
		return ErrBookingNotOwner
	}
	return nil
}

func toBookingResponse(b *model.Booking) *dto.BookingResponse {
	resp := &dto.BookingResponse{
		ID:        b.BookingID,
		RoomID:    b.RoomID,
		Title:     b.Title,
		StartTime: b.StartTime,
		EndTime:   b.EndTime,
		Status:    b.Status,
		Version:   b.Version,
		CreatedAt: b.CreatedAt,
	}
	if b.Room != nil {
		resp.Room = toRoomResponse(b.Room)
	}
	if b.User != nil {
		resp.Owner = toUserResponse(b.User)
	}
	return resp
}
