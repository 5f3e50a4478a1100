package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"achievo/internal/config"
	"achievo/internal/database"
	"achievo/internal/googleauth"
	"achievo/internal/handlers"
	"achievo/internal/logger"
	"achievo/internal/middleware"
	"achievo/internal/repository"
	"achievo/internal/services"
	"achievo/internal/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger.Init(cfg.Env)
	defer logger.Sync()
	log := logger.Get()

	db, err := database.NewManager(cfg)
	if err != nil {
		log.Fatalw("database connection failed", "error", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := db.Close(ctx); err != nil {
			log.Errorw("database disconnect failed", "error", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.EnsureIndexes(ctx); err != nil {
		cancel()
		log.Fatalw("index bootstrap failed", "error", err)
	}
	cancel()

	// Repositories
	users := repository.NewMongoUsers(db.DB())
	goals := repository.NewMongoGoals(db.DB())
	habits := repository.NewMongoHabits(db.DB())
	habitLogs := repository.NewMongoHabitLogs(db.DB())
	bills := repository.NewMongoBills(db.DB())
	prefs := repository.NewMongoPreferences(db.DB())

	// Services
	userService := services.NewUserService(users, goals, habits, habitLogs, bills, prefs)
	goalService := services.NewGoalService(goals)
	habitService := services.NewHabitService(habits, habitLogs)
	billService := services.NewBillService(bills)
	analyticsService := services.NewAnalyticsService(goals, habits, habitLogs)
	preferencesService := services.NewPreferencesService(prefs)
	reportService := services.NewReportService(users, goals, habits, bills)

	google := googleauth.NewFromConfig(cfg)
	if google == nil {
		log.Infow("google login disabled, client id or secret not set")
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, google)
	goalHandler := handlers.NewGoalHandler(goalService)
	habitHandler := handlers.NewHabitHandler(habitService)
	billHandler := handlers.NewBillHandler(billService)
	preferencesHandler := handlers.NewPreferencesHandler(preferencesService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)
	reportHandler := handlers.NewReportHandler(reportService)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Register()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/google/login", authHandler.GoogleLogin)
			auth.GET("/google/callback", authHandler.GoogleCallback)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.POST("/auth/logout", authHandler.Logout)
			protected.GET("/profile", authHandler.GetProfile)
			protected.PUT("/profile", authHandler.UpdateProfile)
			protected.PUT("/profile/password", authHandler.ChangePassword)
			protected.DELETE("/account", authHandler.DeleteAccount)

			protected.GET("/goals", goalHandler.List)
			protected.POST("/goals", goalHandler.Create)
			protected.DELETE("/goals", goalHandler.DeleteAll)
			protected.GET("/goals/categories", goalHandler.Categories)
			protected.POST("/goals/bulk", goalHandler.Bulk)
			protected.GET("/goals/:id", goalHandler.Get)
			protected.PUT("/goals/:id", goalHandler.Update)
			protected.POST("/goals/:id/toggle", goalHandler.Toggle)
			protected.DELETE("/goals/:id", goalHandler.Delete)
			protected.GET("/stats", goalHandler.Stats)

			protected.GET("/habits", habitHandler.List)
			protected.POST("/habits", habitHandler.Create)
			protected.GET("/habits/:id", habitHandler.Get)
			protected.PUT("/habits/:id", habitHandler.Update)
			protected.DELETE("/habits/:id", habitHandler.Delete)
			protected.POST("/habits/:id/log", habitHandler.Log)

			protected.GET("/bills", billHandler.Overview)
			protected.POST("/bills", billHandler.Create)
			protected.GET("/bills/:id", billHandler.Get)
			protected.PUT("/bills/:id", billHandler.Update)
			protected.DELETE("/bills/:id", billHandler.Delete)

			protected.GET("/analytics", analyticsHandler.Overview)
			protected.GET("/preferences", preferencesHandler.Get)
			protected.PUT("/preferences", preferencesHandler.Update)

			protected.GET("/export/data", reportHandler.ExportData)
			protected.GET("/export/bills/:type", reportHandler.ExportBills)
		}
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infow("server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("forced shutdown", "error", err)
	}
}
