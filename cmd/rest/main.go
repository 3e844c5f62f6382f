package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"lexi-drafting-be/internal/bootstrap"
	"lexi-drafting-be/internal/config"
	"lexi-drafting-be/internal/server"
	"lexi-drafting-be/internal/tracer"
	"lexi-drafting-be/pkg/database"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Load Configuration
	cfg := config.Load()

	// 2. Database is optional; without it everything lives in memory
	var gormDB *gorm.DB
	if cfg.Database.Connection != "" {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, database.DefaultOptions())
		if err != nil {
			log.Fatalf("Unable to connect to GORM DB: %v", err)
		}
		gormDB = db
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg)
	if err != nil {
		log.Fatalf("Bootstrap failed: %v", err)
	}
	defer container.Close()

	shutdownTracer := tracer.InitTracer(ctx, cfg.App.OtelEnabled, cfg.App.OtelEndpoint, container.Logger)
	defer shutdownTracer(context.Background())

	// 4. Background services and the HTTP server share one lifecycle
	srv := server.New(cfg, container)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		container.WebSocketHub.Run(gctx)
		return nil
	})
	for _, consumer := range container.ConsumerServices {
		if err := consumer.Consume(gctx); err != nil {
			log.Fatalf("Consumer failed to subscribe: %v", err)
		}
	}
	if err := container.ActivityService.Start(gctx); err != nil {
		container.Logger.Warn("MAIN", "Activity feed is local only", map[string]interface{}{"error": err.Error()})
	}

	g.Go(srv.Run)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Server stopped: %v", err)
	}
}
