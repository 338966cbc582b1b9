package main

import (
	"log"
	"net/http"
	"os"

	"clinicbook/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"clinicbook/internal/auth"
	"clinicbook/internal/cache"
	"clinicbook/internal/calendar"
	"clinicbook/internal/config"
	"clinicbook/internal/db"
	"clinicbook/internal/handler"
	"clinicbook/internal/model"
	"clinicbook/internal/notify"
	"clinicbook/internal/repository"
	"clinicbook/internal/router"
	"clinicbook/internal/service"
)

// @title Clinic Appointment API
// @version 1.0
// @description Clinic appointment booking API with availability checks and best-effort notifications.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Str("service", "clinicbook").Logger()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Appointment{},
		&model.NotificationLog{},
	); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	// Seed fixture users and appointments on first run.
	if created, err := db.SeedFixtures(gormDB); err != nil {
		log.Fatalf("seed fixtures: %v", err)
	} else if created > 0 {
		logger.Info().Int("rows", created).Msg("seeded fixture data")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Repositories
	userRepo := repository.NewUserRepository(gormDB)
	apptRepo := repository.NewAppointmentRepository(gormDB)
	logRepo := repository.NewNotificationLogRepository(gormDB)

	// Auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// External collaborators; unconfigured channels stay nil and are
	// reported as skipped by the dispatcher.
	calendarClient := calendar.NewClient(cfg.CalendarBaseURL, cfg.CalendarID, cfg.CalendarAPIKey, cfg.CalendarTimeZone, logger)
	if !calendarClient.Configured() {
		logger.Warn().Msg("calendar not configured: bookings will only be saved locally")
	}

	var emailSender notify.EmailSender
	if cfg.SMTPUser != "" && cfg.SMTPPassword != "" && cfg.SMTPFrom != "" {
		emailSender = notify.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPFrom, logger)
	} else {
		logger.Warn().Msg("smtp not configured: email notifications will be skipped")
	}

	var smsSender notify.SMSSender
	if cfg.SMSBaseURL != "" && cfg.SMSAPIKey != "" && cfg.SMSSender != "" {
		smsSender = notify.NewInfobipClient(cfg.SMSBaseURL, cfg.SMSAPIKey, cfg.SMSSender, logger)
	} else {
		logger.Warn().Msg("sms gateway not configured: sms notifications will be skipped")
	}

	var recordSync notify.RecordSync
	if cfg.SyncBaseURL != "" && cfg.SyncAPIKey != "" {
		recordSync = notify.NewSIMSClient(cfg.SyncBaseURL, cfg.SyncAPIKey)
	} else {
		logger.Warn().Msg("record sync not configured: student record sync will be skipped")
	}

	dispatcher := notify.NewDispatcher(
		emailSender,
		smsSender,
		recordSync,
		notify.NewTemplateEngine(),
		logRepo,
		cfg.SMSCountryCode,
		logger,
	)
	defer dispatcher.Close()

	// Closed before the dispatcher so in-flight follow-ups can still log.
	tasks := service.NewBackground(2, 100)
	defer tasks.Close()

	// Services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore)
	userService := service.NewUserService(userRepo, cacheClient)
	bookingService := service.NewBookingService(userRepo, apptRepo, calendarClient, dispatcher, tasks, cfg.CalendarTimeZone, logger)
	appointmentService := service.NewAppointmentService(apptRepo, cacheClient, dispatcher, tasks)
	statsService := service.NewStatsService(apptRepo, logRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	appointmentHandler := handler.NewAppointmentHandler(bookingService, appointmentService)
	adminHandler := handler.NewAdminHandler(statsService)

	router.Register(e, cfg, authHandler, userHandler, appointmentHandler, adminHandler)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
