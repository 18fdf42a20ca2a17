package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"lab-system/internal/dto"
	"lab-system/internal/services"
	"lab-system/pkg/utils"
)

type ReportController struct {
	bookingService services.BookingServiceInterface
	logger         *zap.Logger
}

func NewReportController(bookingService services.BookingServiceInterface, logger *zap.Logger) *ReportController {
	return &ReportController{bookingService: bookingService, logger: logger}
}

// GetReport выгружает бронирования в XLSX.
func (c *ReportController) GetReport(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	filter := dto.BookingFilter{
		Status: ctx.QueryParam("status"),
		// Выгружаем все для экспорта
		Limit: 100000,
	}
	if v, err := strconv.ParseUint(ctx.QueryParam("equipment_id"), 10, 64); err == nil {
		filter.EquipmentID = v
	}

	bookings, _, err := c.bookingService.GetBookings(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return c.respondWithXLSX(ctx, bookings)
}

var reportHeaders = []string{
	"№", "Заявитель", "Оборудование", "Выдача", "Возврат", "Цель", "Статус", "Заметки",
}

func rowToSlice(item dto.BookingDTO) []interface{} {
	return []interface{}{
		item.ID, item.Requester, item.Equipment,
		item.PickupTime, item.ReturnTime,
		item.Purpose, item.Status, item.Notes,
	}
}

func (c *ReportController) respondWithXLSX(ctx echo.Context, data []dto.BookingDTO) error {
	f := excelize.NewFile()
	sheet := "Отчет по бронированиям"
	f.SetSheetName("Sheet1", sheet)
	f.SetSheetRow(sheet, "A1", &reportHeaders)
	style, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	f.SetCellStyle(sheet, "A1", "H1", style)

	for i, item := range data {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := rowToSlice(item)
		f.SetSheetRow(sheet, cell, &row)
	}
	f.SetColWidth(sheet, "B", "C", 25)
	f.SetColWidth(sheet, "D", "E", 20)
	f.SetColWidth(sheet, "F", "F", 40)
	f.SetColWidth(sheet, "H", "H", 40)

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
