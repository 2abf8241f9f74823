package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/facility-service/internal/api/http"
	"github.com/spec-kit/facility-service/internal/api/http/handlers"
	"github.com/spec-kit/facility-service/internal/auth"
	"github.com/spec-kit/facility-service/internal/config"
	"github.com/spec-kit/facility-service/internal/events"
	"github.com/spec-kit/facility-service/internal/lock"
	"github.com/spec-kit/facility-service/internal/observability"
	"github.com/spec-kit/facility-service/internal/persistence"
	"github.com/spec-kit/facility-service/internal/repository"
	"github.com/spec-kit/facility-service/internal/service"
	"github.com/spec-kit/facility-service/internal/storage"
	"github.com/spec-kit/facility-service/internal/worker"
)

const notificationWorkers = 2

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var locker lock.Locker
	if redis.Reachable() {
		locker = lock.NewRedisLocker(redis.Client, cfg.Lock.TTL())
	} else {
		logger.Warn("falling back to in-process locks")
		locker = lock.NewLocalLocker()
	}

	var uploader storage.Uploader = storage.Disabled{}
	if cfg.Storage.Enabled() {
		s3Uploader, err := storage.NewS3Uploader(ctx, cfg.Storage, logger)
		if err != nil {
			logger.Fatal("failed to init object storage", zap.Error(err))
		}
		uploader = s3Uploader
	}

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	roomRepo := repository.NewRoomRepository(pool)
	feedbackRepo := repository.NewFeedbackRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)

	dispatcher := events.NewInMemoryDispatcher()

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		UserRepo: userRepo,
		Logger:   logger,
	})
	teamService := service.NewTeamService(service.TeamDependencies{
		TeamRepo:   teamRepo,
		Locker:     locker,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	roomService := service.NewRoomService(service.RoomDependencies{
		RoomRepo:     roomRepo,
		FeedbackRepo: feedbackRepo,
		Logger:       logger,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		TaskRepo:   taskRepo,
		Uploader:   uploader,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	reportService := service.NewReportService(taskRepo, userRepo)

	notificationService := service.NewNotificationService(logger, cfg.Notification)
	notifier := worker.StartNotificationWorker(ctx, dispatcher, notificationService, logger, notificationWorkers)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: 12 << 20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.CORS.AllowOrigins)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, redis.Reachable(), metrics),
		Users:          handlers.NewUsersHandler(authService, teamService),
		Teams:          handlers.NewTeamsHandler(teamService),
		Rooms:          handlers.NewRoomsHandler(roomService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("fiber shutdown", zap.Error(err))
	}
	cancel()
	notifier.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
