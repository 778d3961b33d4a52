package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/esotericremi/Vii-Bookings-sub002/internal/model"
)

// RoomFilter 会议室列表过滤条件
type RoomFilter struct {
	MinCapacity *int
	Keyword     string
	ActiveOnly  bool
	Offset      int
	Limit       int
}

// RoomRepository 会议室数据访问接口
type RoomRepository interface {
	Create(ctx context.Context, room *model.Room) error
	GetByID(ctx context.Context, id string) (*model.Room, error)
	List(ctx context.Context, filter RoomFilter) ([]model.Room, int64, error)
	ListActive(ctx context.Context) ([]model.Room, error)
	Update(ctx context.Context, room *model.Room) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

// roomRepo RoomRepository 的 GORM 实现
type roomRepo struct {
	db *gorm.DB
}

// NewRoomRepo 创建 RoomRepository 实例
func NewRoomRepo(db *gorm.DB) RoomRepository {
	return &roomRepo{db: db}
}

func (r *roomRepo) Create(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

func (r *roomRepo) GetByID(ctx context.Context, id string) (*model.Room, error) {
	var room model.Room
	err := r.db.WithContext(ctx).
		Where("room_id = ?", id).
		First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepo) List(ctx context.Context, filter RoomFilter) ([]model.Room, int64, error) {
	var rooms []model.Room
	var total int64

	db := r.db.WithContext(ctx).Model(&model.Room{})

	if filter.ActiveOnly {
		db = db.Where("is_active = ?", true)
	}
	if filter.MinCapacity != nil {
		db = db.Where("capacity >= ?", *filter.MinCapacity)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		db = db.Where("(name ILIKE ? OR location ILIKE ?)", kw, kw)
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := db.Offset(filter.Offset).Limit(filter.Limit).
		Order("name ASC").
		Find(&rooms).Error; err != nil {
		return nil, 0, err
	}

	return rooms, total, nil
}

func (r *roomRepo) ListActive(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("name ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepo) Update(ctx context.Context, room *model.Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}

func (r *roomRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Room{}).
		Where("room_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
