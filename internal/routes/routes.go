package routes

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"lab-system/internal/jobs"
	"lab-system/internal/listeners"
	"lab-system/internal/repositories"
	"lab-system/internal/services"
	"lab-system/pkg/ai"
	"lab-system/pkg/config"
	"lab-system/pkg/eventbus"
	"lab-system/pkg/mailer"
	"lab-system/pkg/middleware"
	"lab-system/pkg/service"
)

// InitRouter собирает репозитории, сервисы, контроллеры и маршруты,
// подписывает слушателей на шину и регистрирует фоновые задачи.
func InitRouter(
	e *echo.Echo,
	dbConn *pgxpool.Pool,
	cacheRepo repositories.CacheRepositoryInterface,
	jwtSvc service.JWTService,
	bus *eventbus.Bus,
	scheduler *jobs.Scheduler,
	generator ai.GeneratorInterface,
	transport mailer.TransportInterface,
	cfg *config.Config,
	logger *zap.Logger,
) {
	api := e.Group("/api")
	authMW := middleware.NewAuthMiddleware(jwtSvc, logger)
	txManager := repositories.NewTxManager(dbConn)

	// --- Репозитории ---
	userRepo := repositories.NewUserRepository(dbConn)
	departmentRepo := repositories.NewDepartmentRepository(dbConn)
	equipmentRepo := repositories.NewEquipmentRepository(dbConn)
	bookingRepo := repositories.NewBookingRepository(dbConn)
	chatLogRepo := repositories.NewChatLogRepository(dbConn)

	// --- Сервисы ---
	checker := services.NewConflictChecker()
	authService := services.NewAuthService(userRepo, jwtSvc, logger)
	departmentService := services.NewDepartmentService(departmentRepo, logger)
	equipmentService := services.NewEquipmentService(equipmentRepo, bus, logger)
	bookingService := services.NewBookingService(bookingRepo, equipmentRepo, txManager, checker, bus, logger)
	chatService := services.NewChatService(generator, chatLogRepo, logger)
	analyticsService := services.NewAnalyticsService(bookingRepo, cacheRepo, logger)

	// --- Слушатели шины ---
	notificationListener := listeners.NewNotificationListener(transport, userRepo, cacheRepo, logger)
	notificationListener.Register(bus)

	// --- Фоновые задачи ---
	backfillJob := jobs.NewContentBackfillJob(equipmentRepo, generator, cfg.AI, logger)
	backfillJob.Register(bus)
	scheduler.Register(backfillJob, cfg.Jobs.BackfillInterval)
	scheduler.Register(jobs.NewMaintenanceReminderJob(equipmentRepo, userRepo, transport, generator, cfg.Jobs.WarrantyWindowDays, logger), cfg.Jobs.MaintenanceInterval)
	scheduler.Register(jobs.NewAnalyticsJob(analyticsService, cfg.Jobs.AnalyticsWindowDays, logger), cfg.Jobs.AnalyticsInterval)
	scheduler.Register(jobs.NewRetentionCleanupJob(chatLogRepo, cfg.Jobs.ChatRetentionDays, logger), cfg.Jobs.CleanupInterval)
	scheduler.Register(jobs.NewOverdueSweepJob(bookingRepo, bookingService, logger), cfg.Jobs.OverdueInterval)

	// --- Маршруты ---
	secureGroup := api.Group("", authMW.Auth)

	runAuthRouter(api, authService, logger)
	runBookingRouter(secureGroup, bookingService, logger, authMW)
	runEquipmentRouter(secureGroup, equipmentService, logger, authMW)
	runDepartmentRouter(secureGroup, departmentService, logger, authMW)
	runChatRouter(secureGroup, chatService, logger)
	runAnalyticsRouter(secureGroup, analyticsService, scheduler, cfg.Jobs.AnalyticsWindowDays, logger, authMW)
	runReportRouter(secureGroup, bookingService, logger, authMW)

	logger.Info("маршруты инициализированы")
}
