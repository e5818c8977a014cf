package main

import (
	"github.com/taskhive/taskhive/internal/config"
	"github.com/taskhive/taskhive/internal/handlers"
	"github.com/taskhive/taskhive/internal/models"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/internal/utils"
	"github.com/taskhive/taskhive/pkg/logger"
)

// appServices holds all initialized handlers needed by the application.
type appServices struct {
	authHandler      *handlers.AuthHandler
	userHandler      *handlers.UserHandler
	companyHandler   *handlers.CompanyHandler
	teamHandler      *handlers.TeamHandler
	taskHandler      *handlers.TaskHandler
	activityHandler  *handlers.ActivityHandler
	systemLogHandler *handlers.SystemLogHandler
}

// bootstrap initializes all application dependencies: database, services,
// schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	db := models.GetDB()

	services.InitSystemLogger(db)
	services.StartLogCleanupScheduler(db, cfg.Log.RetentionDays)

	authHandler := handlers.NewAuthHandler(db, cfg)
	if err := authHandler.CreateAdminIfNotExists(); err != nil {
		logger.Warn().Err(err).Msg("Failed to create admin user")
	}

	return &appServices{
		authHandler:      authHandler,
		userHandler:      handlers.NewUserHandler(db),
		companyHandler:   handlers.NewCompanyHandler(db),
		teamHandler:      handlers.NewTeamHandler(db),
		taskHandler:      handlers.NewTaskHandler(db),
		activityHandler:  handlers.NewActivityHandler(db),
		systemLogHandler: handlers.NewSystemLogHandler(db),
	}
}

// shutdown gracefully stops background schedulers.
func (s *appServices) shutdown() {
	services.StopLogCleanupScheduler()
	logger.Info().Msg("Schedulers stopped")
}
