package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"maninews/internal/config"
	"maninews/internal/database"
	"maninews/internal/repositories"
	"maninews/internal/seed"
	"maninews/internal/server"
	"maninews/internal/services"
	"maninews/pkg/rabbitmq"

	"golang.org/x/text/language"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// --- Database ---
	db, err := database.Open(database.Options{
		Driver:         cfg.DatabaseDriver,
		DSN:            cfg.DatabaseDSN,
		MaxOpenConns:   cfg.DBMaxOpenConns,
		MaxIdleTime:    cfg.DBMaxIdleTime,
		ConnectTimeout: cfg.DBConnectTimeout,
	})
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	locale, err := language.Parse(cfg.SiteLocale)
	if err != nil {
		log.Printf("Invalid SITE_LOCALE %q, falling back to pt-BR: %v", cfg.SiteLocale, err)
		locale = language.BrazilianPortuguese
	}
	store := repositories.NewGORMStorage(db, repositories.Options{
		PasswordCost: cfg.BcryptCost,
		Locale:       locale,
	})

	// --- Initialize RabbitMQ Client ---
	// Events are optional: without RABBITMQ_URL nothing is published.
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Printf("RabbitMQ unavailable, article events disabled: %v", err)
		} else {
			defer mqClient.Close()
			publisher = mqClient
		}
	}

	// --- Services & bootstrap ---
	svc := server.NewServices(cfg, store, publisher)

	seedCtx, cancel := context.WithTimeout(context.Background(), cfg.DBConnectTimeout+cfg.QueryTimeout)
	err = seed.Run(seedCtx, store, svc.Auth, seed.Options{
		SampleData:    cfg.SeedSampleData,
		AdminUsername: cfg.AdminUsername,
		AdminEmail:    cfg.AdminEmail,
		AdminPassword: cfg.AdminPassword,
	})
	cancel()
	if err != nil {
		log.Fatalf("Failed to bootstrap database: %v", err)
	}

	app := server.New(cfg, svc)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("Server gracefully stopped")
}
