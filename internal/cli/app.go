package cli

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"recurring-planner/internal/bot"
	"recurring-planner/internal/config"
	"recurring-planner/internal/repository"
	"recurring-planner/internal/service"
)

// app holds the wired dependencies shared by the commands.
type app struct {
	cfg        config.Config
	log        *zap.Logger
	db         *gorm.DB
	users      *repository.UserRepository
	projects   *repository.ProjectRepository
	tasks      *repository.TaskRepository
	rules      *repository.RecurrenceRepository
	access     *service.AccessService
	workspaces *service.WorkspaceService
	generator  *service.GeneratorService
}

func newLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	zap.ReplaceGlobals(logger)

	db, err := repository.NewDB(cfg.DatabaseURL, logger)
	if err != nil {
		return nil, fmt.Errorf("db: %w", err)
	}

	a := &app{
		cfg:      cfg,
		log:      logger,
		db:       db,
		users:    repository.NewUserRepository(db),
		projects: repository.NewProjectRepository(db),
		tasks:    repository.NewTaskRepository(db),
		rules:    repository.NewRecurrenceRepository(db),
	}

	a.access = service.NewAccessService(a.projects)
	a.workspaces = service.NewWorkspaceService(a.users, a.projects, a.access)

	var notifier service.Notifier
	if cfg.NotificationsReady {
		n, err := bot.New(cfg.TelegramToken, "", cfg.TelegramChatID, a.projects, cfg.Location, logger.Named("bot"))
		if err != nil {
			// The digest is optional.
			logger.Warn("telegram notifier disabled", zap.Error(err))
		} else {
			notifier = n
		}
	}

	store := repository.NewRecurrenceStore(a.rules, a.tasks)
	a.generator = service.NewGeneratorService(store, notifier, cfg.Location, logger.Named("generator"))
	return a, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Warn("failed to close database", zap.Error(err))
		}
	}
	_ = a.log.Sync()
}
