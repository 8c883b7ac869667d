package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ai-kiosk/agg-svc/internal/service"
	"ai-kiosk/agg-svc/internal/storage"
	"ai-kiosk/config"

	"golang.org/x/sync/errgroup"
)

func main() {
	config.LoadEnv()
	logger := config.NewLogger(config.GetString("ENV", "production"))
	defer logger.Sync()

	if !config.KafkaEnabled() {
		logger.Fatalw("KAFKA_BROKER is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(logger)
	defer rdb.Close()

	topic := config.GetString("KAFKA_TOPIC", config.DefaultOrdersTopic)
	reader := config.NewKafkaReader(topic, config.GetString("KAFKA_GROUP_ID", "agg-svc"))
	defer reader.Close()

	consumer := service.NewConsumer(reader, storage.NewStore(rdb), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return consumer.Start(gctx)
	})

	logger.Infow("aggregating order events", "topic", topic)
	if err := g.Wait(); err != nil {
		logger.Fatalw("aggregation stopped", "error", err)
	}
}
