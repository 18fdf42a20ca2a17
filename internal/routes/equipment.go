package routes

import (
	"lab-system/internal/controllers"
	"lab-system/internal/services"
	"lab-system/pkg/middleware"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runEquipmentRouter(group *echo.Group, equipmentService services.EquipmentServiceInterface, logger *zap.Logger, authMW *middleware.AuthMiddleware) {
	equipmentCtrl := controllers.NewEquipmentController(equipmentService, logger)

	group.GET("/equipments", equipmentCtrl.GetEquipments)
	group.GET("/equipments/:id", equipmentCtrl.FindEquipment)
	group.POST("/equipments", equipmentCtrl.CreateEquipment, authMW.StaffOnly)
	group.PUT("/equipments/:id", equipmentCtrl.UpdateEquipment, authMW.StaffOnly)
	group.DELETE("/equipments/:id", equipmentCtrl.DeleteEquipment, authMW.StaffOnly)
}
