package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/brightsmile/clinic-api/internal/config"
	appointmentHandler "github.com/brightsmile/clinic-api/internal/handler/appointment"
	authHandler "github.com/brightsmile/clinic-api/internal/handler/auth"
	billingHandler "github.com/brightsmile/clinic-api/internal/handler/billing"
	inventoryHandler "github.com/brightsmile/clinic-api/internal/handler/inventory"
	patientHandler "github.com/brightsmile/clinic-api/internal/handler/patient"
	scheduleHandler "github.com/brightsmile/clinic-api/internal/handler/schedule"
	staffHandler "github.com/brightsmile/clinic-api/internal/handler/staff"
	treatmentHandler "github.com/brightsmile/clinic-api/internal/handler/treatment"
	"github.com/brightsmile/clinic-api/internal/middleware"
	"github.com/brightsmile/clinic-api/internal/model"
	"github.com/brightsmile/clinic-api/internal/repository/postgres"
	"github.com/brightsmile/clinic-api/internal/router"
	appointmentService "github.com/brightsmile/clinic-api/internal/service/appointment"
	authService "github.com/brightsmile/clinic-api/internal/service/auth"
	billingService "github.com/brightsmile/clinic-api/internal/service/billing"
	inventoryService "github.com/brightsmile/clinic-api/internal/service/inventory"
	notificationService "github.com/brightsmile/clinic-api/internal/service/notification"
	patientService "github.com/brightsmile/clinic-api/internal/service/patient"
	rbacService "github.com/brightsmile/clinic-api/internal/service/rbac"
	scheduleService "github.com/brightsmile/clinic-api/internal/service/schedule"
	staffService "github.com/brightsmile/clinic-api/internal/service/staff"
	treatmentService "github.com/brightsmile/clinic-api/internal/service/treatment"
	"github.com/brightsmile/clinic-api/pkg/security"
	"github.com/brightsmile/clinic-api/pkg/upload"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	if err := model.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	uploadStore, err := upload.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxSizeBytes)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upload store")
	}

	userRepo := postgres.NewUserRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	treatmentRepo := postgres.NewTreatmentRepository(db)
	invoiceRepo := postgres.NewInvoiceRepository(db)
	inventoryRepo := postgres.NewInventoryRepository(db)
	scheduleRepo := postgres.NewScheduleRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	hasher := security.NewBcryptHasher(0)

	rbacSvc := rbacService.NewService()
	authSvc := authService.NewService(userRepo, sessionRepo, hasher)
	patientSvc := patientService.NewService(patientRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, userRepo)
	treatmentSvc := treatmentService.NewService(treatmentRepo)
	billingSvc := billingService.NewService(invoiceRepo, patientRepo)
	inventorySvc := inventoryService.NewService(inventoryRepo)
	staffSvc := staffService.NewService(userRepo, hasher)
	scheduleSvc := scheduleService.NewService(scheduleRepo, userRepo)
	notificationSvc := notificationService.NewService(outboxRepo)

	authMiddleware := middleware.NewAuthMiddleware(authSvc, rbacSvc)

	r := router.New(authMiddleware, db, router.Config{
		RateLimitRPS:   cfg.RateLimit.RequestsPerSecond,
		RateLimitBurst: cfg.RateLimit.Burst,
		CORSConfig:     corsConfig(cfg),
		UploadsDir:     cfg.Uploads.Dir,
		MetricsPrefix:  "clinic_api",
	},
		authHandler.NewHandler(authSvc, rbacSvc, false),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc, patientSvc, notificationSvc),
		treatmentHandler.NewHandler(treatmentSvc, uploadStore),
		billingHandler.NewHandler(billingSvc),
		inventoryHandler.NewHandler(inventorySvc),
		staffHandler.NewHandler(staffSvc),
		scheduleHandler.NewHandler(scheduleSvc),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

func corsConfig(cfg *config.Config) middleware.CORSConfig {
	c := middleware.DefaultCORSConfig()
	if len(cfg.CORS.AllowedOrigins) > 0 {
		c.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	if cfg.CORS.MaxAge > 0 {
		c.MaxAge = cfg.CORS.MaxAge
	}
	return c
}
