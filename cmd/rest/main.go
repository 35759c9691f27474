package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"gymflow-be/internal/bootstrap"
	"gymflow-be/internal/config"
	"gymflow-be/internal/server"
	"gymflow-be/internal/tracer"
	"gymflow-be/pkg/database"

	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	shutdownTracer := tracer.InitTracer(ctx, cfg.App.Environment)
	defer shutdownTracer(context.Background())

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, cfg.Database.LogLevel)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(ctx, gormDB, cfg)
	defer container.Close()

	srv := server.New(cfg, container)

	// 4. Run server and background workers until a signal or a failure.
	// The save queue outlives the signal: it is closed only after the HTTP
	// drain, so runs finishing during shutdown are still recorded.
	g, gctx := errgroup.WithContext(ctx)
	workerCtx := context.WithoutCancel(gctx)

	g.Go(func() error {
		return container.WebSocketHub.Run(gctx)
	})
	g.Go(func() error {
		log.Println("Background: Starting Consumer Service...")
		return container.ConsumerService.Consume(workerCtx)
	})
	g.Go(func() error {
		return container.EventService.Listen(gctx)
	})
	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		container.CloseQueue()
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Server stopped with error: %v", err)
		return
	}
	log.Println("Server stopped")
}
