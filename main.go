// File: dencare/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dencare/config"
	"dencare/cron"
	"dencare/database"
	appointmentRepo "dencare/database/repository/appointment"
	notificationRepo "dencare/database/repository/notification"
	userRepo "dencare/database/repository/user"
	"dencare/handlers"
	"dencare/models"
	"dencare/routes"
	"dencare/services/realtime"
	"dencare/services/reconciler"
	"dencare/services/scheduling"
	"dencare/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	db := database.GetDatabase()

	// repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo(db)
	notifRepo := notificationRepo.NewMongoNotificationRepo(db)
	usrRepo := userRepo.NewMongoUserRepo(db)

	if err := apptRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create appointment indexes: %v", err)
	}
	if err := notifRepo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to create notification indexes: %v", err)
	}

	// realtime hub and dispatcher.
	hub := realtime.NewHub(usrRepo, notifRepo, apptRepo, int64(config.AppConfig.BacklogLimit), logger)
	dispatcher := realtime.NewDispatcher(hub, notifRepo, logger)

	// scheduling engine.
	clinicLoc := config.ClinicLocation()
	engine := &scheduling.DefaultSchedulingEngine{
		Repo:     apptRepo,
		Hours:    models.DefaultWorkingHours(),
		Catalog:  models.DefaultServiceCatalog(),
		Stride:   config.AppConfig.SlotStrideMinutes,
		Location: clinicLoc,
		Notifier: dispatcher,
		Cache:    utils.GetCacheClient(),
		CacheTTL: time.Duration(config.AppConfig.SlotCacheTTLSec) * time.Second,
	}

	// reminder queue and worker.
	reminderQueue := cron.NewReminderQueue()
	defer reminderQueue.Close()
	cron.InitReminderWorker(dispatcher, apptRepo)

	// background reconciler.
	recon := &reconciler.Reconciler{
		Interval:      config.ReconcileInterval(),
		Location:      clinicLoc,
		Appointments:  apptRepo,
		Notifications: notifRepo,
		Users:         usrRepo,
		Presence:      hub.Presence,
		Alerts:        dispatcher,
		Reminders:     reminderQueue,
		Logger:        logger,
	}
	recon.Start()
	defer recon.Stop()

	// infra health snapshots for the system_health broadcast.
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, utils.GetCacheClient(), database.MongoClient)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	bookingHandler := handlers.NewBookingHandler(engine, logger)
	notificationHandler := handlers.NewNotificationHandler(notifRepo, int64(config.AppConfig.BacklogLimit))
	realtimeHandler := handlers.NewRealtimeHandler(hub)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		AvailableSlotsHandler:          bookingHandler.AvailableSlotsHandler,
		BookAppointmentHandler:         bookingHandler.BookAppointmentHandler,
		ListAppointmentsHandler:        bookingHandler.ListAppointmentsHandler,
		GetAppointmentHandler:          bookingHandler.GetAppointmentHandler,
		UpdateAppointmentStatusHandler: bookingHandler.UpdateAppointmentStatusHandler,
		ListNotificationsHandler:       notificationHandler.ListNotificationsHandler,
		MarkNotificationReadHandler:    notificationHandler.MarkNotificationReadHandler,
		WebsocketHandler:               realtimeHandler.WebsocketHandler,
	}

	// Register routes with the assembled handler bundle.
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
