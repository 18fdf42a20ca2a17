package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"lab-system/internal/dto"
	"lab-system/internal/services"
	"lab-system/pkg/constants"
	"lab-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type BookingController struct {
	bookingService services.BookingServiceInterface
	logger         *zap.Logger
}

func NewBookingController(bookingService services.BookingServiceInterface, logger *zap.Logger) *BookingController {
	return &BookingController{
		bookingService: bookingService,
		logger:         logger,
	}
}

func (c *BookingController) GetBookings(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actorID, err := utils.UserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	filter := dto.BookingFilter{
		Status: ctx.QueryParam("status"),
	}
	if v, err := strconv.ParseUint(ctx.QueryParam("equipment_id"), 10, 64); err == nil {
		filter.EquipmentID = v
	}
	if v, err := strconv.ParseUint(ctx.QueryParam("limit"), 10, 64); err == nil {
		filter.Limit = v
	}
	if v, err := strconv.ParseUint(ctx.QueryParam("offset"), 10, 64); err == nil {
		filter.Offset = v
	}
	// Студент видит только собственные брони.
	if !constants.IsStaff(utils.RoleFromCtx(reqCtx)) {
		filter.UserID = actorID
	}

	bookings, total, err := c.bookingService.GetBookings(reqCtx, filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, map[string]interface{}{
		"items": bookings,
		"total": total,
	}, "Бронирования получены", http.StatusOK)
}

func (c *BookingController) FindBooking(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	actorID, err := utils.UserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	booking, err := c.bookingService.FindBooking(reqCtx, actorID, utils.RoleFromCtx(reqCtx), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, booking, "Бронирование получено", http.StatusOK)
}

func (c *BookingController) CreateBooking(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	actorID, err := utils.UserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.CreateBookingDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	booking, err := c.bookingService.CreateBooking(reqCtx, actorID, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, booking, "Заявка на бронирование создана", http.StatusCreated)
}

func (c *BookingController) ApproveBooking(ctx echo.Context) error {
	return c.decide(ctx, c.bookingService.ApproveBooking, "Заявка утверждена")
}

func (c *BookingController) RejectBooking(ctx echo.Context) error {
	return c.decide(ctx, c.bookingService.RejectBooking, "Заявка отклонена")
}

func (c *BookingController) CancelBooking(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	actorID, err := utils.UserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	booking, err := c.bookingService.CancelBooking(reqCtx, actorID, utils.RoleFromCtx(reqCtx), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, booking, "Бронирование отменено", http.StatusOK)
}

func (c *BookingController) CompleteBooking(ctx echo.Context) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	booking, err := c.bookingService.CompleteBooking(reqCtx, id, time.Now())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, booking, "Бронирование завершено", http.StatusOK)
}

type decisionFunc func(ctx context.Context, staffID uint64, id uint64, payload dto.DecisionDTO) (*dto.BookingDTO, error)

func (c *BookingController) decide(ctx echo.Context, fn decisionFunc, message string) error {
	reqCtx := ctx.Request().Context()

	id, err := parseIDParam(ctx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	staffID, err := utils.UserIDFromCtx(reqCtx)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	var payload dto.DecisionDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusBadRequest, "некорректное тело запроса"), c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	booking, err := fn(reqCtx, staffID, id, payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, booking, message, http.StatusOK)
}

func parseIDParam(ctx echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid ID")
	}
	return id, nil
}
