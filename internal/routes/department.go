package routes

import (
	"lab-system/internal/controllers"
	"lab-system/internal/services"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runDepartmentRouter(group *echo.Group, departmentService services.DepartmentServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	departmentCtrl := controllers.NewDepartmentController(departmentService, logger)

	group.GET("/departments", departmentCtrl.GetDepartments)
	group.GET("/departments/:id", departmentCtrl.FindDepartment)
	group.POST("/departments", departmentCtrl.CreateDepartment, authMW.StaffOnly)
	group.DELETE("/departments/:id", departmentCtrl.DeleteDepartment, authMW.StaffOnly)
}
