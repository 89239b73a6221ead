package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/qrattend/attendance_service/internal/app"
	"github.com/qrattend/attendance_service/internal/config"
	httpctl "github.com/qrattend/attendance_service/internal/controller/http"
	"github.com/qrattend/attendance_service/internal/imaging"
	"github.com/qrattend/attendance_service/internal/notify"
	"github.com/qrattend/attendance_service/internal/repository"
	"github.com/qrattend/attendance_service/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	logger.Info("Starting attendance service",
		zap.String("environment", cfg.Environment),
		zap.String("http_addr", cfg.HTTPAddr),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.DBDSN)
	if err != nil {
		logger.Fatal("Failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		logger.Fatal("Failed to ping database", zap.Error(err))
	}

	migrator, err := app.NewMigrator(pool, "migrations")
	if err != nil {
		logger.Fatal("Failed to create migrator", zap.Error(err))
	}
	if err := migrator.Run(ctx); err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}
	migrator.Close()

	if cfg.FontDir != "" {
		imaging.SetFontDir(cfg.FontDir)
	}

	// Репозитории
	facultyRepo := repository.NewFacultyRepository(pool, logger)
	departmentRepo := repository.NewDepartmentRepository(pool, logger)
	groupRepo := repository.NewGroupRepository(pool, logger)
	subjectRepo := repository.NewSubjectRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	scheduleRepo := repository.NewScheduleRepository(pool, logger)
	classRepo := repository.NewClassRepository(pool, logger)
	attendanceRepo := repository.NewAttendanceRepository(pool, logger)
	reportRepo := repository.NewReportRepository(pool, logger)

	cache := service.NewClassListCache()

	// Интерфейс нельзя присваивать из nil-указателя, иначе проверка
	// notifier != nil в сервисе перестанет работать
	var notifier service.Notifier
	telegramNotifier, err := notify.NewTelegramNotifier(cfg.TelegramToken, userRepo, logger)
	if err != nil {
		logger.Fatal("Failed to create telegram notifier", zap.Error(err))
	}
	if telegramNotifier != nil {
		notifier = telegramNotifier
		logger.Info("Telegram notifications enabled")
	}

	// Сервисы
	userService := service.NewUserService(userRepo, logger)
	scheduleService := service.NewScheduleService(scheduleRepo, classRepo, cache, notifier, logger)
	classService := service.NewClassService(classRepo, userRepo, attendanceRepo, cache, logger)
	attendanceService := service.NewAttendanceService(classRepo, userRepo, attendanceRepo, logger)
	reportService := service.NewReportService(classRepo, attendanceRepo, userRepo, reportRepo, logger)

	// Фоновый планировщик занятий
	scheduler := app.NewScheduler(scheduleService, logger)
	scheduler.Start(ctx)
	defer scheduler.Stop()

	// HTTP
	fiberApp := fiber.New(fiber.Config{
		AppName: "attendance_service",
	})

	controller := httpctl.NewController(
		userService,
		classService,
		attendanceService,
		reportService,
		facultyRepo,
		departmentRepo,
		groupRepo,
		subjectRepo,
		scheduleRepo,
		logger,
	)
	controller.RegisterRoutes(fiberApp)

	go func() {
		if err := fiberApp.Listen(cfg.HTTPAddr); err != nil {
			logger.Fatal("HTTP server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	if err := fiberApp.Shutdown(); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}
}
