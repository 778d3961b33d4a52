package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/esotericremi/Vii-Bookings-sub002/internal/model"
	apperrors "github.com/esotericremi/Vii-Bookings-sub002/pkg/errors"
)

// BookingFilter 预订列表过滤条件
type BookingFilter struct {
	RoomID string
	UserID string
	Status string
	// Date 非零时过滤该日（本地时区零点起 24 小时）内开始的预订
	Date   time.Time
	Offset int
	Limit  int
}

// BookingRepository 预订数据访问接口
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	List(ctx context.Context, filter BookingFilter) ([]model.Booking, int64, error)
	// ListConfirmedInRange 查询会议室在 [start, end) 内参与冲突检测的已确认预订
	ListConfirmedInRange(ctx context.Context, roomID string, start, end time.Time) ([]model.Booking, error)
	// UpdateVersioned 乐观锁更新；版本不匹配返回 ErrOptimisticLock
	UpdateVersioned(ctx context.Context, booking *model.Booking, expectedVersion int) error
}

// bookingRepo BookingRepository 的 GORM 实现
type bookingRepo struct {
	db *gorm.DB
}

// NewBookingRepo 创建 BookingRepository 实例
func NewBookingRepo(db *gorm.DB) BookingRepository {
	return &bookingRepo{db: db}
}

func (r *bookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

func (r *bookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	var booking model.Booking
	err := r.db.WithContext(ctx).
		Preload("Room").
		Preload("User").
		Where("booking_id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepo) List(ctx context.Context, filter BookingFilter) ([]model.Booking, int64, error) {
	var bookings []model.Booking
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Booking{})

	if filter.RoomID != "" {
		db = db.Where("room_id = ?", filter.RoomID)
	}
	if filter.UserID != "" {
		db = db.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	}
	if !filter.Date.IsZero() {
		dayStart := time.Date(filter.Date.Year(), filter.Date.Month(), filter.Date.Day(), 0, 0, 0, 0, filter.Date.Location())
		db = db.Where("start_time >= ? AND start_time < ?", dayStart, dayStart.AddDate(0, 0, 1))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Preload("Room").Preload("User").
		Offset(filter.Offset).Limit(filter.Limit).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *bookingRepo) ListConfirmedInRange(ctx context.Context, roomID string, start, end time.Time) ([]model.Booking, error) {
	var bookings []model.Booking
	err := r.db.WithContext(ctx).
		Where("room_id = ? AND status = ?", roomID, model.BookingStatusConfirmed).
		Where("start_time < ? AND end_time > ?", end, start).
		Order("start_time ASC").
		Find(&bookings).Error
	return bookings, err
}

func (r *bookingRepo) UpdateVersioned(ctx context.Context, booking *model.Booking, expectedVersion int) error {
	result := r.db.WithContext(ctx).
		Model(&model.Booking{}).
		Where("booking_id = ? AND version = ?", booking.BookingID, expectedVersion).
		Updates(map[string]interface{}{
			"room_id":    booking.RoomID,
			"title":      booking.Title,
			"start_time": booking.StartTime,
			"end_time":   booking.EndTime,
			"status":     booking.Status,
			"updated_by": booking.UpdatedBy,
			"updated_at": gorm.Expr("NOW()"),
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}
	booking.Version = expectedVersion + 1
	return nil
}
