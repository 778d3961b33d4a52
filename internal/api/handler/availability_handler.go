package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/esotericremi/Vii-Bookings-sub002/internal/availability"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/cache"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/dto"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/service"
	"github.com/esotericremi/Vii-Bookings-sub002/pkg/response"
)

// AvailabilityHandler 可用性查询 HTTP 处理器
type AvailabilityHandler struct {
	availSvc service.AvailabilityService
}

// NewAvailabilityHandler 创建 AvailabilityHandler
func NewAvailabilityHandler(availSvc service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{availSvc: availSvc}
}

// GetDayAvailability 查询会议室某日时段可用性
// GET /api/v1/rooms/:id/availability?date=2026-03-02
func (h *AvailabilityHandler) GetDayAvailability(c *gin.Context) {
	var req dto.AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "date 参数缺失或格式无效")
		return
	}

	result, err := h.availSvc.GetDayAvailability(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, result)
}

// ListRoomsCached 经缓存层供数的会议室列表（离线可用）
// GET /api/v1/rooms/cached
func (h *AvailabilityHandler) ListRoomsCached(c *gin.Context) {
	result, err := h.availSvc.ListRoomsCached(c.Request.Context())
	if err != nil {
		h.handleAvailabilityError(c, err)
		return
	}

	response.OK(c, result)
}

// handleAvailabilityError 可用性查询错误到 HTTP 响应的统一映射
func (h *AvailabilityHandler) handleAvailabilityError(c *gin.Context, err error) {
	var liveErr *cache.LiveFetchError
	var cfgErr *availability.ConfigError
	switch {
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 13001, "会议室不存在")
	case errors.Is(err, cache.ErrOfflineUnavailable):
		response.ServiceUnavailable(c, 15001, "离线状态下无可用缓存数据")
	case errors.As(err, &liveErr):
		response.ServiceUnavailable(c, 15002, "数据源不可达且无缓存可用")
	case errors.As(err, &cfgErr):
		response.BadRequest(c, 15003, cfgErr.Error())
	default:
		response.InternalError(c)
	}
}
