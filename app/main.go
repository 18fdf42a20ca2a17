package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"lab-system/internal/jobs"
	"lab-system/internal/repositories"
	"lab-system/internal/routes"
	"lab-system/migrations"
	"lab-system/pkg/ai"
	"lab-system/pkg/config"
	"lab-system/pkg/database/postgresql"
	apperrors "lab-system/pkg/errors"
	"lab-system/pkg/eventbus"
	applogger "lab-system/pkg/logger"
	"lab-system/pkg/mailer"
	"lab-system/pkg/service"
	"lab-system/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	e := echo.New()
	logger := applogger.NewLogger()
	cfg := config.New()

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("обнаружена паника в обработчике",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, "Внутренняя ошибка сервера", err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"http://localhost:5173"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders: []string{"Content-Disposition"},
	}))

	e.Validator = utils.NewValidator(validator.New())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := postgresql.Migrate(cfg.Postgres.DSN, migrations.FS); err != nil {
		logger.Fatal("не удалось применить миграции", zap.Error(err))
	}

	dbConn, err := postgresql.ConnectDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatal("не удалось подключиться к базе данных", zap.Error(err))
	}
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if _, err := redisClient.Ping(ctx).Result(); err != nil {
		logger.Fatal("не удалось подключиться к Redis", zap.Error(err), zap.String("address", cfg.Redis.Address))
	}
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	jwtSvc := service.NewJWTService(cfg.JWT.SecretKey, cfg.JWT.AccessTokenTTL, cfg.JWT.RefreshTokenTTL)

	generator, err := ai.NewGenerator(cfg.AI)
	if err != nil {
		logger.Fatal("не удалось инициализировать генератор", zap.Error(err))
	}
	transport := mailer.NewSMTPTransport(cfg.SMTP)

	bus := eventbus.New(logger)
	scheduler := jobs.NewScheduler(logger)

	routes.InitRouter(e, dbConn, cacheRepo, jwtSvc, bus, scheduler, generator, transport, cfg, logger)

	scheduler.Start(ctx)

	go func() {
		<-ctx.Done()
		logger.Info("остановка сервера")
		_ = e.Shutdown(context.Background())
	}()

	logger.Info("сервер запущен", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
		logger.Fatal("ошибка запуска сервера", zap.Error(err))
	}

	// Дожидаемся хвоста событий и фоновых циклов.
	bus.Wait()
	scheduler.Wait()
}
