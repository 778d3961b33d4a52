package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/esotericremi/Vii-Bookings-sub002/internal/dto"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/service"
	"github.com/esotericremi/Vii-Bookings-sub002/pkg/response"
)

// RoomHandler 会议室模块 HTTP 处理器
type RoomHandler struct {
	roomSvc service.RoomService
}

// NewRoomHandler 创建 RoomHandler
func NewRoomHandler(roomSvc service.RoomService) *RoomHandler {
	return &RoomHandler{roomSvc: roomSvc}
}

// CreateRoom 创建会议室（管理员）
// POST /api/v1/rooms
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.roomSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrRoomHoursInvalid) {
			response.BadRequest(c, 13002, "开放时段配置无效")
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, room)
}

// ListRooms 会议室列表
// GET /api/v1/rooms
func (h *RoomHandler) ListRooms(c *gin.Context) {
	var req dto.RoomListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	rooms, total, err := h.roomSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, rooms, total, req.Page, req.PageSize)
}

// GetRoom 会议室详情
// GET /api/v1/rooms/:id
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.roomSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			response.NotFound(c, 13001, "会议室不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, room)
}

// UpdateRoom 更新会议室（管理员）
// PUT /api/v1/rooms/:id
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	room, err := h.roomSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRoomNotFound):
			response.NotFound(c, 13001, "会议室不存在")
		case errors.Is(err, service.ErrRoomHoursInvalid):
			response.BadRequest(c, 13002, "开放时段配置无效")
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, room)
}

// DeleteRoom 删除会议室（管理员）
// DELETE /api/v1/rooms/:id
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.roomSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			response.NotFound(c, 13001, "会议室不存在")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}
