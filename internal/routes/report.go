package routes

import (
	"lab-system/internal/controllers"
	"lab-system/internal/services"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runReportRouter(group *echo.Group, bookingService services.BookingServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	reportCtrl := controllers.NewReportController(bookingService, logger)

	group.GET("/reports/bookings", reportCtrl.GetReport, authMW.StaffOnly)
}
