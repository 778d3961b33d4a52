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

// ── 用户业务错误 ──

var (
	ErrUserNotFound   = errors.New("用户不存在")
	ErrForbidden      = errors.New("无权执行此操作")
	ErrSelfDelete     = errors.New("不能删除自己的账号")
	ErrSelfDemote     = errors.New("不能修改自己的角色")
	ErrEmailOccupied  = errors.New("邮箱已被其他用户使用")
)

// UserService 用户管理业务
type UserService interface {
	GetByID(ctx context.Context, id string) (*dto.UserDetailResponse, error)
	List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserDetailResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID, callerRole string) (*dto.UserDetailResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	AssignRole(ctx context.Context, id string, req *dto.AssignRoleRequest, callerID string) (*dto.UserDetailResponse, error)
}

type userService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewUserService 创建用户 Service
func NewUserService(repo *repository.Repository, logger *zap.Logger) UserService {
	return &userService{repo: repo, logger: logger}
}

// ────────── GetByID ──────────

func (s *userService) GetByID(ctx context.Context, id string) (*dto.UserDetailResponse, error) {
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return toUserDetailResponse(user), nil
}

// ────────── List ──────────

func (s *userService) List(ctx context.Context, req *dto.UserListRequest) ([]dto.UserDetailResponse, int64, error) {
	filter := repository.UserFilter{
		Role:    req.Role,
		Keyword: req.Keyword,
		Offset:  (req.Page - 1) * req.PageSize,
		Limit:   req.PageSize,
	}
	users, total, err := s.repo.User.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	list := make([]dto.UserDetailResponse, 0, len(users))
	for i := range users {
		list = append(list, *toUserDetailResponse(&users[i]))
	}
	return list, total, nil
}

// ────────── Update ──────────

// Update 管理员可更新任意用户；普通成员仅可更新本人且不可改 is_active
func (s *userService) Update(ctx context.Context, id string, req *dto.UpdateUserRequest, callerID, callerRole string) (*dto.UserDetailResponse, error) {
	if callerRole != model.RoleAdmin && callerID != id {
		return nil, ErrForbidden
	}
	if callerRole != model.RoleAdmin && req.IsActive != nil {
		return nil, ErrForbidden
	}

	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.Email != nil && *req.Email != user.Email {
		existing, err := s.repo.User.GetByEmail(ctx, *req.Email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, ErrEmailOccupied
		}
		user.Email = *req.Email
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedBy = &callerID

	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserDetailResponse(user), nil
}

// ────────── Delete ──────────

func (s *userService) Delete(ctx context.Context, id string, callerID string) error {
	if id == callerID {
		return ErrSelfDelete
	}
	if _, err := s.repo.User.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if err := s.repo.User.Delete(ctx, id, callerID); err != nil {
		return err
	}
	s.logger.Info("用户已删除", zap.String("user_id", id), zap.String("deleted_by", callerID))
	return nil
}

// ────────── AssignRole ──────────

func (s *userService) AssignRole(ctx context.Context, id string, req *dto.AssignRoleRequest, callerID string) (*dto.UserDetailResponse, error) {
	if id == callerID {
		return nil, ErrSelfDemote
	}
	user, err := s.repo.User.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Role = req.Role
	user.UpdatedBy = &callerID
	if err := s.repo.User.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("用户角色已变更", zap.String("user_id", id), zap.String("role", req.Role))
	return toUserDetailResponse(user), nil
}

func toUserDetailResponse(u *model.User) *dto.UserDetailResponse {
	return &dto.UserDetailResponse{
		UserResponse: *toUserResponse(u),
		IsActive:     u.IsActive,
		CreatedAt:    u.CreatedAt,
	}
}
