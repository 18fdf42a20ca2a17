package routes

import (
	"lab-system/internal/controllers"
	"lab-system/internal/jobs"
	"lab-system/internal/services"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runAnalyticsRouter(
	group *echo.Group,
	analyticsService services.AnalyticsServiceInterface,
	scheduler *jobs.Scheduler,
	windowDays int,
	logger *zap.Logger,
	authMW *middleware.AuthMiddleware,
) {
	analyticsCtrl := controllers.NewAnalyticsController(analyticsService, scheduler, windowDays, logger)

	group.GET("/analytics", analyticsCtrl.GetSnapshot, authMW.StaffOnly)
	group.POST("/jobs/:name/run", analyticsCtrl.RunJob, authMW.StaffOnly)
}
