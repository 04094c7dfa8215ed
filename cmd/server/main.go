package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"limo/internal/app"
	"limo/internal/config"
	"limo/internal/handler"
	internalRedis "limo/internal/redis"
	"limo/internal/service"
	"limo/internal/square"
)

func main() {
	// Load configuration.
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	log.Printf("Square environment: %s", cfg.Square.Environment)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic first so downstream clients can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	// Redis is optional; it only backs the idempotent-response cache.
	var responseStore *internalRedis.ResponseStore
	if cfg.Redis.Addr != "" {
		redisClient, err := internalRedis.NewClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
		responseStore = internalRedis.NewResponseStore(redisClient)
		log.Println("Connected to Redis")
	}

	// Email is optional; bookings report emailsSent=false without it.
	var sender service.Sender
	if cfg.Email.Configured() {
		sender = service.NewSMTPSender(cfg.Email)
		log.Println("Email delivery enabled")
	}
	emailService := service.NewEmailService(sender, cfg.Email.BusinessTo, cfg.Email.QueueSize)
	defer emailService.Close()

	// Wire dependencies.
	squareClient := square.NewClient(
		square.BaseURL(cfg.Square.Environment),
		cfg.Square.AccessToken,
		&http.Client{Timeout: cfg.Square.Timeout},
	)
	paymentService := service.NewPaymentService(squareClient, cfg.Square.LocationID)
	bookingService := service.NewBookingService(emailService)

	router := app.NewRouter(app.RouterDeps{
		PaymentHandler: handler.NewPaymentHandler(paymentService),
		BookingHandler: handler.NewBookingHandler(bookingService),
		HealthHandler:  handler.NewHealthHandler(cfg.Square, cfg.Email, squareClient, emailService),
		ResponseStore:  responseStore,
		NewRelicApp:    nrApp,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine.
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
