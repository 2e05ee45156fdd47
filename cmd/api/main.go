package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/helioscare/clinic-api/internal/config"
	"github.com/helioscare/clinic-api/internal/handler"
	appointmentHandler "github.com/helioscare/clinic-api/internal/handler/appointment"
	authHandler "github.com/helioscare/clinic-api/internal/handler/auth"
	clinicHandler "github.com/helioscare/clinic-api/internal/handler/clinic"
	doctorHandler "github.com/helioscare/clinic-api/internal/handler/doctor"
	patientHandler "github.com/helioscare/clinic-api/internal/handler/patient"
	"github.com/helioscare/clinic-api/internal/middleware"
	"github.com/helioscare/clinic-api/internal/model"
	"github.com/helioscare/clinic-api/internal/repository/postgres"
	"github.com/helioscare/clinic-api/internal/router"
	appointmentService "github.com/helioscare/clinic-api/internal/service/appointment"
	authService "github.com/helioscare/clinic-api/internal/service/auth"
	clinicService "github.com/helioscare/clinic-api/internal/service/clinic"
	doctorService "github.com/helioscare/clinic-api/internal/service/doctor"
	patientService "github.com/helioscare/clinic-api/internal/service/patient"
	"github.com/helioscare/clinic-api/pkg/logger"
	"github.com/helioscare/clinic-api/pkg/messaging"
	redisbroker "github.com/helioscare/clinic-api/pkg/messaging/redis"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	clinicTZ, err := cfg.Clinic.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve clinic timezone")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	doctorRepo := postgres.NewDoctorRepository(base)
	clinicRepo := postgres.NewClinicRepository(base)
	patientRepo := postgres.NewPatientRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	userRepo := postgres.NewUserRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	authSvc := authService.NewService(userRepo, cfg.JWT)
	doctorSvc := doctorService.NewService(doctorRepo, outboxRepo, clinicTZ, appLogger)
	clinicSvc := clinicService.NewService(clinicRepo)
	patientSvc := patientService.NewService(patientRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, doctorRepo, patientRepo)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	handler.RegisterValidations()
	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		clinicHandler.NewHandler(clinicSvc),
		doctorHandler.NewHandler(doctorSvc),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		handler.NewHealthHandler(db),
		router.Config{
			RateLimit: middleware.RateLimiterConfig{
				RPS:   rate.Limit(cfg.Server.RateLimitRPS),
				Burst: cfg.Server.RateLimitBurst,
			},
			CORS:    middleware.DefaultCORSConfig(),
			Timeout: cfg.Server.RequestTimeout,
		},
	)
	r.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	broker, err := redisbroker.NewRedisBroker(redisbroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	// Doctor events from other replicas invalidate this replica's cached
	// doctors view.
	go invalidateOnDoctorEvents(ctx, broker, cfg.Worker.EventChannel, doctorSvc, appLogger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(err, "server shutdown failed")
	}
}

func invalidateOnDoctorEvents(ctx context.Context, broker messaging.Broker, channel string, doctorSvc *doctorService.Service, appLogger *logger.Logger) {
	messages, err := broker.Subscribe(ctx, channel)
	if err != nil {
		appLogger.Error(err, "failed to subscribe to event channel", "channel", channel)
		return
	}

	for raw := range messages {
		var msg struct {
			Type    string                   `json:"type"`
			Payload model.DoctorEventPayload `json:"payload"`
		}
		if err := json.Unmarshal(raw, &msg); err != nil {
			appLogger.Warn("discarding malformed event", "error", err.Error())
			continue
		}

		switch msg.Type {
		case model.EventDoctorUpserted, model.EventDoctorDeleted:
			doctorSvc.InvalidateListing(msg.Payload.ClinicID)
		}
	}
}
