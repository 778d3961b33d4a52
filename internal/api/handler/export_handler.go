package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/esotericremi/Vii-Bookings-sub002/internal/dto"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/service"
	"github.com/esotericremi/Vii-Bookings-sub002/pkg/response"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypeICS  = "text/calendar; charset=utf-8"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportBookings 导出预订报表
// GET /api/v1/export/bookings?room_id=&date=&status=
func (h *ExportHandler) ExportBookings(c *gin.Context) {
	callerID, callerRole, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	var req dto.ExportBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	buf, filename, err := h.exportSvc.ExportBookings(c.Request.Context(), &req, callerID, callerRole)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, contentTypeXLSX, filename, buf.Bytes())
}

// ExportBookingICS 导出单个预订为日历邀请
// GET /api/v1/export/bookings/:id/ics
func (h *ExportHandler) ExportBookingICS(c *gin.Context) {
	callerID, callerRole, ok := mustGetIdentity(c)
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportBookingICS(c.Request.Context(), c.Param("id"), callerID, callerRole)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	writeDownload(c, contentTypeICS, filename, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrExportNoBookings):
		response.NotFound(c, 16001, "筛选条件下无可导出的预订")
	case errors.Is(err, service.ErrBookingNotFound):
		response.NotFound(c, 14001, "预订不存在")
	case errors.Is(err, service.ErrBookingNotOwner):
		response.Forbidden(c, 14007, "只有预订发起人或管理员可以导出此预订")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}

// writeDownload 设置下载响应头并写出文件内容
func writeDownload(c *gin.Context, contentType, filename string, data []byte) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, data)
}
