package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hoangtm/task-admin-api/internal/auth"
	"github.com/hoangtm/task-admin-api/internal/config"
	"github.com/hoangtm/task-admin-api/internal/database"
	"github.com/hoangtm/task-admin-api/internal/handlers"
	"github.com/hoangtm/task-admin-api/internal/middleware"
	"github.com/hoangtm/task-admin-api/internal/models"
	"github.com/hoangtm/task-admin-api/internal/realtime"
	"github.com/hoangtm/task-admin-api/internal/repository"
	"github.com/hoangtm/task-admin-api/internal/services"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	if err := database.Connect(cfg); err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := database.Migrate(); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}
	if err := database.SeedRoles(database.GetDB()); err != nil {
		log.Fatalf("role seeding failed: %v", err)
	}

	router := buildRouter(cfg)

	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}

func buildRouter(cfg *config.Config) *gin.Engine {
	db := database.GetDB()

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	hub := realtime.NewHub()

	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	deptRepo := repository.NewDepartmentRepository(db)
	provinceRepo := repository.NewProvinceRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	noteRepo := repository.NewNoteRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	notificationService := services.NewNotificationService(notificationRepo, hub)
	taskService := services.NewTaskService(taskRepo, userRepo, deptRepo, notificationService)
	authService := services.NewAuthService(userRepo, tokens)
	userService := services.NewUserService(userRepo)
	orgService := services.NewOrgService(deptRepo, provinceRepo, userRepo)
	noteService := services.NewNoteService(noteRepo)
	activityService := services.NewActivityService(activityRepo)
	settingService := services.NewSettingService(settingRepo)

	authHandler := handlers.NewAuthHandler(authService, activityService)
	taskHandler := handlers.NewTaskHandler(taskService, activityService)
	userHandler := handlers.NewUserHandler(userService, activityService)
	deptHandler := handlers.NewDepartmentHandler(orgService, activityService)
	provinceHandler := handlers.NewProvinceHandler(orgService)
	noteHandler := handlers.NewNoteHandler(noteService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	settingHandler := handlers.NewSettingHandler(settingService)
	activityHandler := handlers.NewActivityHandler(activityService)
	wsHandler := handlers.NewWSHandler(hub)

	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(tokens)

	router.GET("/ws", requireAuth, wsHandler.Serve)

	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/verify-2fa", authHandler.VerifyTwoFactor)
		api.POST("/auth/register", authHandler.Register)

		authenticated := api.Group("")
		authenticated.Use(requireAuth)
		{
			authenticated.GET("/auth/me", authHandler.Me)
			authenticated.PATCH("/auth/profile", userHandler.UpdateProfile)
			authenticated.POST("/auth/change-password", userHandler.ChangePassword)

			tasks := authenticated.Group("/tasks")
			{
				tasks.GET("", taskHandler.ListTasks)
				tasks.POST("", middleware.RequirePermission(models.PermTaskCreate), taskHandler.CreateTask)
				tasks.GET("/deleted", taskHandler.ListDeletedTasks)
				tasks.GET("/:id", taskHandler.GetTask)
				tasks.PATCH("/:id", taskHandler.UpdateTask)
				tasks.PATCH("/:id/assignments", taskHandler.UpdateAssignments)
				tasks.POST("/:id/delegate", middleware.RequirePermission(models.PermTaskDelegate), taskHandler.DelegateTask)
				tasks.POST("/:id/delegate/propose", middleware.RequirePermission(models.PermTaskDelegate), taskHandler.ProposeDelegation)
				tasks.POST("/:id/delegate/respond", taskHandler.RespondDelegation)
				tasks.POST("/:id/cancel", taskHandler.CancelTask)
				tasks.DELETE("/:id", taskHandler.DeleteTask)
				tasks.POST("/:id/restore", taskHandler.RestoreTask)
			}

			notes := authenticated.Group("/notes")
			{
				notes.GET("", noteHandler.ListNotes)
				notes.POST("", noteHandler.CreateNote)
				notes.GET("/:id", noteHandler.GetNote)
				notes.PATCH("/:id", noteHandler.UpdateNote)
				notes.DELETE("/:id", noteHandler.DeleteNote)
			}

			notifications := authenticated.Group("/notifications")
			{
				notifications.GET("", notificationHandler.ListNotifications)
				notifications.POST("/:id/read", notificationHandler.MarkRead)
				notifications.POST("/read-all", notificationHandler.MarkAllRead)
			}

			authenticated.GET("/departments", deptHandler.ListDepartments)
			authenticated.GET("/departments/:id", deptHandler.GetDepartment)
			authenticated.GET("/provinces", provinceHandler.ListProvinces)
			authenticated.GET("/provinces/:id", provinceHandler.GetProvince)

			org := authenticated.Group("")
			org.Use(middleware.RequirePermission(models.PermOrgManage))
			{
				org.POST("/departments", deptHandler.CreateDepartment)
				org.PATCH("/departments/:id", deptHandler.UpdateDepartment)
				org.DELETE("/departments/:id", deptHandler.DeleteDepartment)
				org.POST("/departments/:id/members", deptHandler.AddMember)
				org.DELETE("/departments/:id/members", deptHandler.RemoveMember)
				org.POST("/departments/:id/heads", deptHandler.AddHead)
				org.DELETE("/departments/:id/heads", deptHandler.RemoveHead)

				org.POST("/provinces", provinceHandler.CreateProvince)
				org.PATCH("/provinces/:id", provinceHandler.UpdateProvince)
				org.DELETE("/provinces/:id", provinceHandler.DeleteProvince)
			}

			userAdmin := authenticated.Group("/users")
			userAdmin.Use(middleware.RequirePermission(models.PermUserManage))
			{
				userAdmin.GET("", userHandler.ListUsers)
				userAdmin.GET("/:id", userHandler.GetUser)
				userAdmin.PATCH("/:id", userHandler.UpdateUser)
			}

			settings := authenticated.Group("/settings")
			settings.Use(middleware.RequirePermission(models.PermUserManage))
			{
				settings.GET("", settingHandler.ListSettings)
				settings.GET("/:key", settingHandler.GetSetting)
				settings.PUT("/:key", settingHandler.PutSetting)
			}
		}

		admin := api.Group("/admin")
		admin.Use(middleware.RequireAPIKey(cfg.AdminAPIKey))
		{
			admin.GET("/activity-logs", activityHandler.ListActivityLogs)
		}
	}

	return router
}
