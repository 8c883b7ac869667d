package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ai-kiosk/config"
	httpapi "ai-kiosk/kiosk-svc/internal/api/http"
	"ai-kiosk/kiosk-svc/internal/app"
	"ai-kiosk/kiosk-svc/internal/service"
	"ai-kiosk/kiosk-svc/internal/storage"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	config.LoadEnv()
	settings := app.LoadSettings()

	logger := config.NewLogger(settings.Env)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres(logger)
	defer db.Close()

	var rdb *redis.Client
	if os.Getenv("REDIS_HOST") != "" {
		rdb = config.MustInitRedis(logger)
		defer rdb.Close()
	}

	var publisher service.EventPublisher
	if config.KafkaEnabled() {
		writer := config.NewKafkaWriter(settings.KafkaTopic)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
		logger.Infow("publishing order events", "topic", settings.KafkaTopic)
	}

	svc, err := app.Build(ctx, settings, db, rdb, publisher, logger)
	if err != nil {
		logger.Fatalw("failed to build services", "error", err)
	}
	if err := svc.Repo.EnsureSchema(ctx); err != nil {
		logger.Fatalw("failed to prepare schema", "error", err)
	}

	handler := httpapi.NewHandler(svc.Catalog, svc.Cart, svc.Dialogue, svc.Repo, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpapi.Serve(gctx, settings.Addr, httpapi.NewRouter(handler), logger)
	})
	g.Go(func() error {
		index, err := svc.Catalog.Index(gctx)
		if err != nil {
			logger.Warnw("catalog warm-up failed", "error", err)
			return nil
		}
		logger.Infow("catalog loaded", "stores", len(index.StoreNames()), "categories", len(index.Categories()))
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatalw("kiosk service stopped", "error", err)
	}
}
