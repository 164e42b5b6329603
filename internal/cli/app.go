package cli

import (
	"context"
	"errors"
	"fmt"
	"neonfit/studio-tracker/internal/advisor"
	"neonfit/studio-tracker/internal/config"
	"neonfit/studio-tracker/internal/database"
	"neonfit/studio-tracker/internal/logging"
	"neonfit/studio-tracker/internal/service"
	"neonfit/studio-tracker/internal/storage"
	"neonfit/studio-tracker/internal/studio"
	"os"

	log "github.com/sirupsen/logrus"
)

// App is what one command invocation works with.
type App struct {
	Studio *studio.Studio
	Close  func()
}

// Opener builds the App for a command. configDir is the --config flag.
type Opener func(ctx context.Context, configDir string) (*App, error)

// OpenFromConfig wires the studio the same way the server wires its handlers.
func OpenFromConfig(ctx context.Context, configDir string) (*App, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogFileName:   cfg.Log.File,
		LogToStdout:   false,
		LogLevel:      cfg.Log.Level,
		LogFormatJSON: cfg.Log.JSON,
	})
	if cfg.Log.File == "" {
		// keep command output clean
		log.SetOutput(os.Stderr)
		log.SetLevel(log.WarnLevel)
	}

	if cfg.JWT.Secret == "" {
		return nil, errors.New("jwt.secret is empty (set JWT_SECRET)")
	}

	store, err := database.OpenOrUnconfigured(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open data store: %w", err)
	}

	var photos storage.PhotoStorage
	if cfg.S3.Enabled() {
		photos, err = storage.NewS3Storage(ctx, cfg.S3)
		if err != nil {
			log.Warnf("photo storage disabled: %v", err)
			photos = nil
		}
	}

	auth, err := service.NewAuthService(store.Users, cfg.JWT.Secret, cfg.JWT.Expiration)
	if err != nil {
		store.Close(ctx)
		return nil, err
	}

	st := studio.New(studio.Services{
		Auth:     auth,
		Members:  service.NewMemberService(store.Members, store.Workouts, photos),
		Workouts: service.NewWorkoutService(store.Members, store.Workouts),
		Seed:     service.NewSeedService(store.Members, store.Workouts, nil),
		Coach:    advisor.NewCoach(cfg.Advisor),
	}, studio.NewFileMarkerStore(cfg.Studio.SessionFile))

	return &App{
		Studio: st,
		Close: func() {
			if err := store.Close(context.Background()); err != nil {
				log.Warnf("close data store: %v", err)
			}
		},
	}, nil
}
