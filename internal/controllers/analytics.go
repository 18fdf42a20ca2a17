package controllers

import (
	"net/http"

	"lab-system/internal/jobs"
	"lab-system/internal/services"
	"lab-system/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type AnalyticsController struct {
	analyticsService services.AnalyticsServiceInterface
	scheduler        *jobs.Scheduler
	windowDays       int
	logger           *zap.Logger
}

func NewAnalyticsController(
	analyticsService services.AnalyticsServiceInterface,
	scheduler *jobs.Scheduler,
	windowDays int,
	logger *zap.Logger,
) *AnalyticsController {
	return &AnalyticsController{
		analyticsService: analyticsService,
		scheduler:        scheduler,
		windowDays:       windowDays,
		logger:           logger,
	}
}

func (c *AnalyticsController) GetSnapshot(ctx echo.Context) error {
	snapshot, err := c.analyticsService.GetSnapshot(ctx.Request().Context(), c.windowDays)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}
	return utils.SuccessResponse(ctx, snapshot, "Сводка использования получена", http.StatusOK)
}

// RunJob запускает фоновую задачу вне расписания.
func (c *AnalyticsController) RunJob(ctx echo.Context) error {
	name := ctx.Param("name")
	if !c.scheduler.RunNow(ctx.Request().Context(), name) {
		return utils.ErrorResponse(ctx, echo.NewHTTPError(http.StatusNotFound, "задача не найдена"), c.logger)
	}
	return utils.SuccessResponse(ctx, nil, "Задача выполнена", http.StatusOK)
}
