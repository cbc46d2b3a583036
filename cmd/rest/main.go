package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gymflow-be/internal/bootstrap"
	"gymflow-be/internal/config"
	"gymflow-be/internal/server"
	"gymflow-be/internal/tracer"
	"gymflow-be/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()
	if cfg.Auth.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set")
	}

	// 2. Tracing (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(cfg.App.Environment)
	defer shutdownTracer(context.Background())

	// 3. Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.App.Environment != "production")
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 4. Container
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Close()

	// 5. Background workers share one lifetime with the HTTP server
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go container.WebSocketHub.Run(ctx)
	go func() {
		log.Println("Background: Starting check-in feed consumer...")
		if err := container.FeedConsumer.Consume(ctx); err != nil {
			log.Printf("Background feed consumer error: %v", err)
		}
	}()
	if container.ActivityService != nil {
		container.ActivityService.Start(ctx)
	}

	// 6. Server
	srv := server.New(cfg, container)
	go func() {
		if err := srv.Run(); err != nil {
			log.Printf("Server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
	}
}
