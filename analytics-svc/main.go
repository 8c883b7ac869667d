package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	httpapi "ai-kiosk/analytics-svc/internal/api/http"
	"ai-kiosk/analytics-svc/internal/service"
	"ai-kiosk/config"

	"golang.org/x/sync/errgroup"
)

func main() {
	config.LoadEnv()
	logger := config.NewLogger(config.GetString("ENV", "production"))
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(logger)
	defer rdb.Close()

	handler := httpapi.NewHandler(service.NewAnalyticsService(rdb), logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return httpapi.StartServer(gctx, config.GetString("ANALYTICS_ADDR", ":8083"), httpapi.NewRouter(handler), logger)
	})
	if err := g.Wait(); err != nil {
		logger.Fatalw("analytics service stopped", "error", err)
	}
}
