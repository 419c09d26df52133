package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/polas15-707-eng/teachassist-app/internal/config"
	"github.com/polas15-707-eng/teachassist-app/internal/database"
	"github.com/polas15-707-eng/teachassist-app/internal/event"
	"github.com/polas15-707-eng/teachassist-app/internal/handler"
	"github.com/polas15-707-eng/teachassist-app/internal/logger"
	"github.com/polas15-707-eng/teachassist-app/internal/mailer"
	"github.com/polas15-707-eng/teachassist-app/internal/repository"
	"github.com/polas15-707-eng/teachassist-app/internal/router"
	"github.com/polas15-707-eng/teachassist-app/internal/service"
	"github.com/polas15-707-eng/teachassist-app/internal/validator"
	"github.com/polas15-707-eng/teachassist-app/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting TeachAssist Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	userRepo := repository.NewUserRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	slotRepo := repository.NewSlotRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	overviewRepo := repository.NewOverviewRepository(pool)

	// ─── Initialize Event Publisher ────────────────────────────────────
	publisher := event.NewRedisPublisher(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb)
	accountService := service.NewAccountService(cfg, userRepo, teacherRepo, authService, publisher, log)
	teacherService := service.NewTeacherService(teacherRepo, publisher, log)
	courseService := service.NewCourseService(courseRepo)
	slotService := service.NewSlotService(slotRepo, teacherRepo)
	bookingService := service.NewBookingService(bookingRepo, teacherRepo, courseRepo, userRepo, publisher, log)
	overviewService := service.NewOverviewService(overviewRepo, teacherRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(accountService),
		Teacher:  handler.NewTeacherHandler(teacherService),
		Course:   handler.NewCourseHandler(courseService),
		Slot:     handler.NewSlotHandler(slotService),
		Booking:  handler.NewBookingHandler(bookingService),
		Overview: handler.NewOverviewHandler(overviewService),
		System:   handler.NewSystemHandler(cfg, pool, rdb, bookingService, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	m := buildMailer(cfg, log)
	notificationWorker := worker.NewNotificationWorker(rdb, m, log)
	reminderWorker := worker.NewReminderWorker(cfg, bookingService, log)

	go notificationWorker.Start(workerCtx)
	go func() {
		if err := reminderWorker.Start(workerCtx); err != nil {
			log.Error().Err(err).Msg("Reminder worker failed to start")
		}
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop background workers and wait for the queue to drain.
	workerCancel()
	time.Sleep(2 * time.Second) // Allow workers to drain.

	log.Info().Msg("Shutdown complete")
}

// buildMailer selects the outbound email backend from config.
func buildMailer(cfg *config.Config, log zerolog.Logger) mailer.Mailer {
	if cfg.MailBackend == "sendgrid" && cfg.SendgridAPIKey != "" {
		return mailer.NewSendgridMailer(cfg)
	}
	if cfg.MailBackend == "sendgrid" {
		log.Warn().Msg("SENDGRID_API_KEY not set, falling back to console mailer")
	}
	return mailer.NewConsoleMailer(log)
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
