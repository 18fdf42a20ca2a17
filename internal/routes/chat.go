package routes

import (
	"lab-system/internal/controllers"
	"lab-system/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func runChatRouter(group *echo.Group, chatService services.ChatServiceInterface, logger *zap.Logger) {
	chatCtrl := controllers.NewChatController(chatService, logger)

	group.POST("/chat", chatCtrl.Ask)
	group.GET("/chat/history", chatCtrl.History)
}
