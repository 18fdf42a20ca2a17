package routes

import (
	"lab-system/internal/controllers"
	"lab-system/internal/services"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runBookingRouter(group *echo.Group, bookingService services.BookingServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	bookingCtrl := controllers.NewBookingController(bookingService, logger)

	group.GET("/bookings", bookingCtrl.GetBookings)
	group.GET("/bookings/:id", bookingCtrl.FindBooking)
	group.POST("/bookings", bookingCtrl.CreateBooking)
	group.POST("/bookings/:id/cancel", bookingCtrl.CancelBooking)

	// Решения по заявкам принимает только персонал.
	group.POST("/bookings/:id/approve", bookingCtrl.ApproveBooking, authMW.StaffOnly)
	group.POST("/bookings/:id/reject", bookingCtrl.RejectBooking, authMW.StaffOnly)
	group.POST("/bookings/:id/complete", bookingCtrl.CompleteBooking, authMW.StaffOnly)
}
