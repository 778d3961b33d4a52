package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/esotericremi/Vii-Bookings-sub002/internal/dto"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/model"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/repository"
)

// ErrConfigInvalid 系统配置更新校验失败
var ErrConfigInvalid = errors.New("系统配置无效: open_hour 必须小于 close_hour")

// SystemConfigService 系统配置业务
type SystemConfigService interface {
	Get(ctx context.Context) (*dto.SystemConfigResponse, error)
	Update(ctx context.Context, req *dto.UpdateSystemConfigRequest, callerID string) (*dto.SystemConfigResponse, error)
}

type systemConfigService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSystemConfigService 创建系统配置 Service
func NewSystemConfigService(repo *repository.Repository, logger *zap.Logger) SystemConfigService {
	return &systemConfigService{repo: repo, logger: logger}
}

func (s *systemConfigService) Get(ctx context.Context) (*dto.SystemConfigResponse, error) {
	cfg, err := s.repo.SystemConfig.Get(ctx)
	if err != nil {
		return nil, err
	}
	return toSystemConfigResponse(cfg), nil
}

func (s *systemConfigService) Update(ctx context.Context, req *dto.UpdateSystemConfigRequest, callerID string) (*dto.SystemConfigResponse, error) {
	cfg, err := s.repo.SystemConfig.Get(ctx)
	if err != nil {
		return nil, err
	}

	if req.OpenHour != nil {
		cfg.OpenHour = *req.OpenHour
	}
	if req.CloseHour != nil {
		cfg.CloseHour = *req.CloseHour
	}
	if req.SlotDurationMinutes != nil {
		cfg.SlotDurationMinutes = *req.SlotDurationMinutes
	}
	if req.CacheMaxAgeSeconds != nil {
		cfg.CacheMaxAgeSeconds = *req.CacheMaxAgeSeconds
	}
	if req.HorizonDays != nil {
		cfg.HorizonDays = *req.HorizonDays
	}
	if cfg.OpenHour >= cfg.CloseHour {
		return nil, ErrConfigInvalid
	}
	cfg.UpdatedBy = &callerID

	if err := s.repo.SystemConfig.Update(ctx, cfg); err != nil {
		return nil, err
	}

	s.logger.Info("系统配置已更新",
		zap.Int("open_hour", cfg.OpenHour),
		zap.Int("close_hour", cfg.CloseHour),
		zap.Int("slot_duration_minutes", cfg.SlotDurationMinutes),
		zap.String("updated_by", callerID))
	return toSystemConfigResponse(cfg), nil
}

func toSystemConfigResponse(cfg *model.SystemConfig) *dto.SystemConfigResponse {
	return &dto.SystemConfigResponse{
		OpenHour:            cfg.OpenHour,
		CloseHour:           cfg.CloseHour,
		SlotDurationMinutes: cfg.SlotDurationMinutes,
		CacheMaxAgeSeconds:  cfg.CacheMaxAgeSeconds,
		HorizonDays:         cfg.HorizonDays,
	}
}
