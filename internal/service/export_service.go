package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/esotericremi/Vii-Bookings-sub002/config"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/dto"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/model"
	"github.com/esotericremi/Vii-Bookings-sub002/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoBookings   = errors.New("筛选条件下无可导出的预订")
	ErrExportGenerateFail = errors.New("生成导出文件失败")
)

// 报表导出一次最多取回的预订条数
const exportMaxRows = 5000

// ExportService 导出业务接口
//
// 设计说明：
//   - 预订报表导出为 Excel (.xlsx)，按筛选条件取数后平铺成行
//   - 单个预订可导出为 iCalendar (.ics) 日历邀请，供客户端日历导入
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportBookings 导出预订报表为 Excel
	ExportBookings(ctx context.Context, req *dto.ExportBookingsRequest, callerID, callerRole string) (*bytes.Buffer, string, error)
	// ExportBookingICS 导出单个预订为 iCalendar 日历邀请
	ExportBookingICS(ctx context.Context, bookingID, callerID, callerRole string) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger}
}

// ═══════════════════════════════════════════════════════════
// ExportBookings — 导出预订报表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单 Sheet "预订报表"
//   - 列：会议室 | 主题 | 日期 | 开始 | 结束 | 状态 | 预订人 | 创建时间
//   - 普通成员仅导出本人的预订，管理员可导出任意筛选结果
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportBookings(ctx context.Context, req *dto.ExportBookingsRequest, callerID, callerRole string) (*bytes.Buffer, string, error) {
	filter := repository.BookingFilter{
		RoomID: req.RoomID,
		Status: req.Status,
		Limit:  exportMaxRows,
	}
	if callerRole != model.RoleAdmin {
		filter.UserID = callerID
	}
	if req.Date != "" {
		if date, err := time.ParseInLocation("2006-01-02", req.Date, time.Local); err == nil {
			filter.Date = date
		}
	}

	bookings, _, err := s.repo.Booking.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询导出预订失败", zap.Error(err))
		return nil, "", err
	}
	if len(bookings) == 0 {
		return nil, "", ErrExportNoBookings
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "预订报表"
	idx, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 20)
	f.SetColWidth(sheetName, "B", "B", 30)
	f.SetColWidth(sheetName, "C", "E", 12)
	f.SetColWidth(sheetName, "F", "F", 10)
	f.SetColWidth(sheetName, "G", "H", 18)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"会议室", "主题", "日期", "开始", "结束", "状态", "预订人", "创建时间"}
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, cell(col, 1), h)
		f.SetCellStyle(sheetName, cell(col, 1), cell(col, 1), headerStyle)
	}

	statusNames := map[string]string{
		model.BookingStatusConfirmed: "已确认",
		model.BookingStatusCancelled: "已取消",
	}

	row := 2
	for i := range bookings {
		b := &bookings[i]
		roomName := b.RoomID
		if b.Room != nil {
			roomName = b.Room.Name
		}
		ownerName := b.UserID
		if b.User != nil {
			ownerName = b.User.Name
		}

		f.SetCellValue(sheetName, cell("A", row), roomName)
		f.SetCellValue(sheetName, cell("B", row), b.Title)
		f.SetCellValue(sheetName, cell("C", row), b.StartTime.Format("2006-01-02"))
		f.SetCellValue(sheetName, cell("D", row), b.StartTime.Format("15:04"))
		f.SetCellValue(sheetName, cell("E", row), b.EndTime.Format("15:04"))
		f.SetCellValue(sheetName, cell("F", row), statusNames[b.Status])
		f.SetCellValue(sheetName, cell("G", row), ownerName)
		f.SetCellValue(sheetName, cell("H", row), b.CreatedAt.Format("2006-01-02 15:04"))
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("预订报表_%s.xlsx", time.Now().Format("20060102"))
	return buf, filename, nil
}

// ═══════════════════════════════════════════════════════════
// ExportBookingICS — 导出单个预订为日历邀请
// ═══════════════════════════════════════════════════════════

func (s *exportService) ExportBookingICS(ctx context.Context, bookingID, callerID, callerRole string) (*bytes.Buffer, string, error) {
	booking, err := s.repo.Booking.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrBookingNotFound
		}
		s.logger.Error("查询预订失败", zap.Error(err))
		return nil, "", err
	}
	if callerRole != model.RoleAdmin && booking.UserID != callerID {
		return nil, "", ErrBookingNotOwner
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Vii Bookings//ZH")

	event := cal.AddEvent(booking.BookingID + "@vii-bookings")
	event.SetCreatedTime(booking.CreatedAt)
	event.SetDtStampTime(time.Now())
	event.SetStartAt(booking.StartTime)
	event.SetEndAt(booking.EndTime)
	event.SetSummary(booking.Title)
	if booking.Room != nil {
		location := booking.Room.Name
		if booking.Room.Location != "" {
			location += " · " + booking.Room.Location
		}
		event.SetLocation(location)
	}
	if booking.User != nil {
		event.SetDescription(fmt.Sprintf("预订人: %s", booking.User.Name))
	}
	if booking.Status == model.BookingStatusCancelled {
		event.SetStatus(ics.ObjectStatusCancelled)
	} else {
		event.SetStatus(ics.ObjectStatusConfirmed)
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("预订_%s.ics", booking.StartTime.Format("20060102_1504"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
