// File: medibook/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"medibook/config"
	"medibook/cron"
	"medibook/database"
	appointmentRepo "medibook/database/repository/appointment"
	prescriptionRepo "medibook/database/repository/prescription"
	scheduleRepo "medibook/database/repository/schedule"
	userRepoPkg "medibook/database/repository/user"
	"medibook/handlers"
	"medibook/middleware"
	"medibook/routes"
	"medibook/services/appointment"
	"medibook/services/availability"
	"medibook/services/notification"
	"medibook/services/prescription"
	"medibook/services/schedule"
	"medibook/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	// repositories.
	schedRepo := scheduleRepo.NewMongoScheduleRepo()
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()
	prescRepo := prescriptionRepo.NewMongoPrescriptionRepo()
	userRepo := userRepoPkg.NewMongoUserRepo()

	for _, ensure := range []func() error{
		schedRepo.EnsureIndexes,
		apptRepo.EnsureIndexes,
		prescRepo.EnsureIndexes,
	} {
		if err := ensure(); err != nil {
			logger.Sugar().Fatalf("main: failed to ensure indexes: %v", err)
		}
	}

	// services.
	notifier := &notification.DefaultNotificationService{
		Client: notification.NewClient(),
	}
	checker := &availability.Checker{Schedules: schedRepo}

	scheduleService := &schedule.DefaultScheduleService{
		Repo: schedRepo,
	}
	appointmentService := &appointment.DefaultAppointmentService{
		Repo:         apptRepo,
		Schedules:    schedRepo,
		Availability: checker,
		Notifier:     notifier,
	}
	prescriptionService := &prescription.DefaultPrescriptionService{
		Repo:         prescRepo,
		Appointments: apptRepo,
		Notifier:     notifier,
	}

	// Background worker for queued mail and reminders.
	cron.InitNotificationWorker(userRepo, apptRepo)
	utils.StartHealthMonitor(utils.GetAuthCacheClient(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	handlerBundle := &routes.HandlerBundle{
		Appointments:  handlers.NewAppointmentHandler(appointmentService),
		Schedules:     handlers.NewScheduleHandler(scheduleService, checker),
		Prescriptions: handlers.NewPrescriptionHandler(prescriptionService),
		Doctors:       handlers.NewDoctorHandler(userRepo),
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
