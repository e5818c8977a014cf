package main

import (
	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/handlers"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/pkg/logger"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	r.Use(middleware.RequestID(), logger.GinLogger(), logger.GinRecovery())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS())

	r.GET("/health", handlers.Health)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/register", svc.authHandler.Register)
			auth.POST("/login", svc.authHandler.Login)
			auth.POST("/refresh", svc.authHandler.Refresh)
		}

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(), middleware.AuditLog())
		{
			// Auth
			protected.GET("/auth/me", svc.authHandler.GetCurrentUser)
			protected.POST("/auth/logout", svc.authHandler.Logout)

			// Profiles
			protected.GET("/profiles", svc.userHandler.List)
			protected.GET("/profiles/:id", svc.userHandler.GetByID)

			// Companies
			protected.GET("/companies", svc.companyHandler.List)
			protected.GET("/companies/:id", svc.companyHandler.GetByID)
			protected.POST("/companies", svc.companyHandler.Create)
			protected.PUT("/companies/:id", svc.companyHandler.Update)
			protected.DELETE("/companies/:id", svc.companyHandler.Delete)

			// Teams and memberships
			protected.GET("/teams", svc.teamHandler.List)
			protected.GET("/teams/:id", svc.teamHandler.GetByID)
			protected.POST("/teams", svc.teamHandler.Create)
			protected.PUT("/teams/:id", svc.teamHandler.Update)
			protected.DELETE("/teams/:id", svc.teamHandler.Delete)
			protected.GET("/teams/:id/members", svc.teamHandler.Members)
			protected.POST("/teams/:id/add-member", svc.teamHandler.AddMember)
			protected.POST("/teams/:id/remove-member", svc.teamHandler.RemoveMember)
			protected.POST("/teams/:id/change-role", svc.teamHandler.ChangeRole)

			// Tasks
			protected.GET("/tasks", svc.taskHandler.List)
			protected.GET("/tasks/:id", svc.taskHandler.GetByID)
			protected.POST("/tasks", svc.taskHandler.Create)
			protected.PUT("/tasks/:id", svc.taskHandler.Update)
			protected.DELETE("/tasks/:id", svc.taskHandler.Delete)
			protected.POST("/tasks/:id/assign", svc.taskHandler.Assign)
			protected.GET("/tasks/:id/activity", svc.taskHandler.Activity)

			// Activity trail
			protected.GET("/activity-logs", svc.activityHandler.List)
		}

		// Admin only routes
		admin := api.Group("")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/system-logs", svc.systemLogHandler.List)
			admin.GET("/system-logs/modules", svc.systemLogHandler.GetModules)
			admin.POST("/system-logs/cleanup", svc.systemLogHandler.Cleanup)
		}
	}
}
