package main

import (
	"context"
	"errors"
	"neonfit/studio-tracker/internal/advisor"
	"neonfit/studio-tracker/internal/api"
	"neonfit/studio-tracker/internal/config"
	"neonfit/studio-tracker/internal/database"
	"neonfit/studio-tracker/internal/logging"
	"neonfit/studio-tracker/internal/metrics"
	"neonfit/studio-tracker/internal/service"
	"neonfit/studio-tracker/internal/storage"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

// @title NeonFit Studio API
// @version 1.0
// @description API for tracking studio members, their workouts and progress.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   cfg.Log.Stdout,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	log.Infoln("starting studio tracker server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// --- Data store ---
	// Missing credentials leave the server up; every data route then answers 503.
	store, err := database.OpenOrUnconfigured(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("could not open data store: %v", err)
	}

	// --- Photo storage ---
	var photos storage.PhotoStorage
	if cfg.S3.Enabled() {
		photos, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %v", err)
		}
	} else {
		log.Infoln("photo storage disabled (s3.bucket_name / s3.region not set)")
	}

	// --- Services ---
	authService, err := service.NewAuthService(store.Users, cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		log.Fatalf("could not create auth service: %v", err)
	}
	coach := advisor.NewCoach(cfg.Advisor)
	if !coach.Configured() {
		log.Warnln("advisor API key not set, advice requests will get the setup notice")
	}

	promRegistry := metrics.SetupPrometheus()
	metricsManager := metrics.NewManager("studio", "server", promRegistry)

	// --- Gin engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.Services{
		Auth:     authService,
		Members:  service.NewMemberService(store.Members, store.Workouts, photos),
		Workouts: service.NewWorkoutService(store.Members, store.Workouts),
		Seed:     service.NewSeedService(store.Members, store.Workouts, nil),
		Coach:    coach,
		Metrics:  metricsManager,
		Registry: promRegistry,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Advisor.Timeout + 10*time.Second, // advice calls wait on the completion API
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Infoln("shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	err = multierr.Combine(
		server.Shutdown(ctxShutdown),
		store.Close(ctxShutdown),
	)
	if err != nil {
		log.Errorf("unclean shutdown: %v", err)
		os.Exit(1)
	}
	log.Infoln("server exiting")
}
