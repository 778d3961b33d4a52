package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/esotericremi/Vii-Bookings-sub002/internal/dto"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/model"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/repository"
)

// ── 会议室业务错误 ──

var (
	ErrRoomNotFound     = errors.New("会议室不存在")
	ErrRoomInactive     = errors.New("会议室已停用")
	ErrRoomHoursInvalid = errors.New("开放时段配置无效：open_hour 必须小于 close_hour")
)

// RoomService 会议室管理业务
type RoomService interface {
	Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error)
	GetByID(ctx context.Context, id string) (*dto.RoomResponse, error)
	List(ctx context.Context, req *dto.RoomListRequest) ([]dto.RoomResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
}

type roomService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewRoomService 创建会议室 Service
func NewRoomService(repo *repository.Repository, logger *zap.Logger) RoomService {
	return &roomService{repo: repo, logger: logger}
}

// ────────── Create ──────────

func (s *roomService) Create(ctx context.Context, req *dto.CreateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	if err := validateRoomHours(req.OpenHour, req.CloseHour); err != nil {
		return nil, err
	}

	room := &model.Room{
		Name:                req.Name,
		Location:            req.Location,
		Capacity:            req.Capacity,
		Amenities:           model.StringArray(req.Amenities),
		OpenHour:            req.OpenHour,
		CloseHour:           req.CloseHour,
		SlotDurationMinutes: req.SlotDurationMinutes,
		IsActive:            true,
	}
	room.CreatedBy = &callerID
	if err := s.repo.Room.Create(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("会议室已创建", zap.String("room_id", room.RoomID), zap.String("name", room.Name))
	return toRoomResponse(room), nil
}

// ────────── GetByID ──────────

func (s *roomService) GetByID(ctx context.Context, id string) (*dto.RoomResponse, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return toRoomResponse(room), nil
}

// ────────── List ──────────

func (s *roomService) List(ctx context.Context, req *dto.RoomListRequest) ([]dto.RoomResponse, int64, error) {
	filter := repository.RoomFilter{
		MinCapacity: req.MinCapacity,
		Keyword:     req.Keyword,
		ActiveOnly:  req.ActiveOnly,
		Offset:      (req.Page - 1) * req.PageSize,
		Limit:       req.PageSize,
	}
	rooms, total, err := s.repo.Room.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.RoomResponse, 0, len(rooms))
	for i := range rooms {
		list = append(list, *toRoomResponse(&rooms[i]))
	}
	return list, total, nil
}

// ────────── Update ──────────

func (s *roomService) Update(ctx context.Context, id string, req *dto.UpdateRoomRequest, callerID string) (*dto.RoomResponse, error) {
	room, err := s.repo.Room.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		room.Name = *req.Name
	}
	if req.Location != nil {
		room.Location = *req.Location
	}
	if req.Capacity != nil {
		room.Capacity = *req.Capacity
	}
	if req.Amenities != nil {
		room.Amenities = model.StringArray(req.Amenities)
	}
	if req.OpenHour != nil {
		room.OpenHour = req.OpenHour
	}
	if req.CloseHour != nil {
		room.CloseHour = req.CloseHour
	}
	if req.SlotDurationMinutes != nil {
		room.SlotDurationMinutes = req.SlotDurationMinutes
	}
	if req.IsActive != nil {
		room.IsActive = *req.IsActive
	}
	if err := validateRoomHours(room.OpenHour, room.CloseHour); err != nil {
		return nil, err
	}
	room.UpdatedBy = &callerID

	if err := s.repo.Room.Update(ctx, room); err != nil {
		return nil, err
	}
	return toRoomResponse(room), nil
}

// ────────── Delete ──────────

func (s *roomService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Room.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoomNotFound
		}
		return err
	}
	if err := s.repo.Room.Delete(ctx, id, callerID); err != nil {
		return err
	}
	s.logger.Info("会议室已删除", zap.String("room_id", id), zap.String("deleted_by", callerID))
	return nil
}

// validateRoomHours 覆盖配置同时给出时才校验大小关系，单边覆盖由系统默认兜底
func validateRoomHours(open, close *int) error {
	if open != nil && close != nil && *open >= *close {
		return ErrRoomHoursInvalid
	}
	return nil
}

func toRoomResponse(r *model.Room) *dto.RoomResponse {
	return &dto.RoomResponse{
		ID:                  r.RoomID,
		Name:                r.Name,
		Location:            r.Location,
		Capacity:            r.Capacity,
		Amenities:           r.Amenities,
		OpenHour:            r.OpenHour,
		CloseHour:           r.CloseHour,
		SlotDurationMinutes: r.SlotDurationMinutes,
		IsActive:            r.IsActive,
	}
}
