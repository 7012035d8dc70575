// File: frontdesk/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frontdesk/calendar"
	"frontdesk/config"
	"frontdesk/cron"
	"frontdesk/database"
	appointmentRepo "frontdesk/database/repository/appointment"
	"frontdesk/handlers"
	"frontdesk/middleware"
	"frontdesk/routes"
	"frontdesk/services/crm"
	"frontdesk/services/scheduling"
	"frontdesk/services/tasks"
	"frontdesk/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()

	loc := config.AppConfig.BusinessLocation()
	calendarTimeout := time.Duration(config.AppConfig.CalendarTimeoutSec) * time.Second

	// The calendar collaborator owns durable storage and arbitrates conflicts.
	var calendarPort calendar.Port
	switch config.AppConfig.CalendarProvider {
	case "memory":
		logger.Sugar().Warn("main: using in-memory calendar; bookings will not survive a restart")
		calendarPort = calendar.NewMemoryCalendar()
	default:
		gcal, err := calendar.NewGoogleCalendar(context.Background(),
			config.AppConfig.GoogleCredentials, loc, calendarTimeout)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize google calendar: %v", err)
		}
		calendarPort = gcal
	}

	// repositories.
	apptRepo := appointmentRepo.NewMongoAppointmentRepo()

	// Reminder queue.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	})
	defer asynqClient.Close()
	reminderScheduler := &tasks.AsynqReminderScheduler{Client: asynqClient}
	cron.InitReminderWorker(apptRepo)

	// services.
	engine := scheduling.NewDefaultBookingEngine(calendarPort, apptRepo, reminderScheduler, scheduling.Settings{
		CalendarID:    config.AppConfig.CalendarID,
		StartHour:     config.AppConfig.BusinessStartHour,
		EndHour:       config.AppConfig.BusinessEndHour,
		SlotMinutes:   config.AppConfig.SlotDurationMin,
		LookaheadDays: config.AppConfig.LookaheadDays,
		Location:      loc,
	})
	schedulingHandler := handlers.NewSchedulingHandler(engine, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		CheckAvailableSlots: schedulingHandler.CheckAvailableSlots,
		BookAppointment:     schedulingHandler.BookAppointment,
		CancelAppointment:   schedulingHandler.CancelAppointment,
		GetNextAvailable:    schedulingHandler.GetNextAvailable,
	}

	// The CRM is an optional collaborator; bookings work without it.
	if config.AppConfig.CRMSheetID != "" {
		customerService, err := crm.NewSheetsCustomerService(context.Background(),
			config.AppConfig.GoogleCredentials, config.AppConfig.CRMSheetID,
			utils.GetCacheClient(), calendarTimeout)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize crm service: %v", err)
		}
		crmHandler := handlers.NewCRMHandler(customerService, logger)
		handlerBundle.LookupCustomer = crmHandler.LookupCustomer
		handlerBundle.RegisterCustomer = crmHandler.RegisterCustomer
		handlerBundle.UpdateCustomerNotes = crmHandler.UpdateCustomerNotes
		handlerBundle.CreateSupportTicket = crmHandler.CreateSupportTicket
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

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
