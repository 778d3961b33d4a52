package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/esotericremi/Vii-Bookings-sub002/internal/dto"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/service"
	apperrors "github.com/esotericremi/Vii-Bookings-sub002/pkg/errors"
	"github.com/esotericremi/Vii-Bookings-sub002/pkg/response"
)

// BookingHandler 预订模块 HTTP 处理器
type BookingHandler struct {
	bookingSvc service.BookingService
}

// NewBookingHandler 创建 BookingHandler
func NewBookingHandler(bookingSvc service.BookingService) *BookingHandler {
	return &BookingHandler{bookingSvc: bookingSvc}
}

// CreateBooking 创建预订
// POST /api/v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	booking, err := h.bookingSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.Created(c, booking)
}

// ListBookings 预订列表（成员仅见本人，管理员可过滤）
// GET /api/v1/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	callerID, callerRole, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.BookingListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	bookings, total, err := h.bookingSvc.List(c.Request.Context(), &req, callerID, callerRole)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, bookings, total, req.Page, req.PageSize)
}

// GetBooking 预订详情
// GET /api/v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrBookingNotFound) {
			response.NotFound(c, 14001, "预订不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, booking)
}

// UpdateBooking 更新预订（改时间/换会议室，乐观锁）
// PUT /api/v1/bookings/:id
func (h *BookingHandler) UpdateBooking(c *gin.Context) {
	callerID, callerRole, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	booking, err := h.bookingSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID, callerRole)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// CancelBooking 取消预订（状态流转，乐观锁）
// POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	callerID, callerRole, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req struct {
		Version int `json:"version" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	booking, err := h.bookingSvc.Cancel(c.Request.Context(), c.Param("id"), req.Version, callerID, callerRole)
	if err != nil {
		h.handleBookingError(c, err)
		return
	}

	response.OK(c, booking)
}

// handleBookingError 预订业务错误到 HTTP 响应的统一映射
func (h *BookingHandler) handleBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBookingNotFound):
		response.NotFound(c, 14001, "预订不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 13001, "会议室不存在")
	case errors.Is(err, service.ErrRoomInactive):
		response.BadRequest(c, 13003, "会议室已停用")
	case errors.Is(err, service.ErrBookingConflict):
		response.Conflict(c, 14002, "该时段与已有预订冲突")
	case errors.Is(err, service.ErrBookingInvalid):
		response.BadRequest(c, 14003, "预订时间无效")
	case errors.Is(err, service.ErrBookingInPast):
		response.BadRequest(c, 14004, "不能预订已经开始的时段")
	case errors.Is(err, service.ErrBookingBeyondHorizon):
		response.BadRequest(c, 14005, "预订时间超出可提前预订范围")
	case errors.Is(err, service.ErrBookingCancelled):
		response.BadRequest(c, 14006, "预订已取消，不能再修改")
	case errors.Is(err, service.ErrBookingNotOwner):
		response.Forbidden(c, 14007, "只有预订发起人或管理员可以操作此预订")
	case errors.Is(err, apperrors.ErrOptimisticLock):
		response.Conflict(c, 14008, "数据已被其他操作修改，请刷新后重试")
	default:
		response.InternalError(c)
	}
}
