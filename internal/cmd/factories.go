package cmd

import (
	"time"

	"github.com/renato0307/farol/internal/adapters/sound"
	"github.com/renato0307/farol/internal/adapters/storage"
	"github.com/renato0307/farol/internal/adapters/usage"
	"github.com/renato0307/farol/internal/adapters/watch"
	"github.com/renato0307/farol/internal/config"
	"github.com/renato0307/farol/internal/ports"
	"github.com/renato0307/farol/internal/services"
	"github.com/renato0307/farol/internal/transcript"
)

// Container holds all dependencies for the application
type Container struct {
	// Services
	Engine              *services.Engine
	HistoryService      *services.HistoryService
	NotificationService *services.NotificationService
	StatsService        *services.StatsService
	Watcher             *watch.Manager

	// Repository is exposed for the history CRUD commands
	Repository ports.SessionRepository
}

// NewContainer creates a new Container with all dependencies wired
func NewContainer(settings *config.Settings) (*Container, error) {
	if settings == nil {
		settings = &config.Settings{}
	}

	dbPath := config.GetDBPath()
	if settings.DBPath != "" {
		dbPath = config.ExpandPath(settings.DBPath)
	}
	repository, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return nil, err
	}

	parser := transcript.NewParser()
	usageReader := usage.NewReader(parser)
	soundPlayer := sound.NewPlayer()

	engineConfig := services.EngineConfig{}
	if settings.RetentionMinutes != nil {
		engineConfig.Retention = time.Duration(*settings.RetentionMinutes) * time.Minute
	}
	if settings.SweepSeconds != nil {
		engineConfig.SweepInterval = time.Duration(*settings.SweepSeconds) * time.Second
	}
	engine := services.NewEngine(engineConfig)

	soundEnabled := true
	if settings.Sound != nil {
		soundEnabled = *settings.Sound
	}

	return &Container{
		Engine:              engine,
		HistoryService:      services.NewHistoryService(repository, usageReader),
		NotificationService: services.NewNotificationService(soundPlayer, soundEnabled),
		StatsService:        services.NewStatsService(engine, repository, usageReader),
		Watcher:             watch.NewManager(parser, engine),
		Repository:          repository,
	}, nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	if c.Repository != nil {
		return c.Repository.Close()
	}
	return nil
}
