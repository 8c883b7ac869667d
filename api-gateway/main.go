package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ai-kiosk/api-gateway/internal/gateway"
	"ai-kiosk/config"

	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"
)

func main() {
	config.LoadEnv()
	logger := config.NewLogger(config.GetString("ENV", "production"))
	defer logger.Sync()

	gw := gateway.NewGateway(gateway.Config{
		KioskSvcURL:     config.GetString("KIOSK_SVC_URL", "http://localhost:8084"),
		AnalyticsSvcURL: config.GetString("ANALYTICS_SVC_URL", "http://localhost:8083"),
		FrontendDir:     config.GetString("FRONTEND_DIR", "./frontend"),
	}, &http.Client{Timeout: 90 * time.Second}, logger)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8080", "http://127.0.0.1:8080", "*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	addr := config.GetString("GATEWAY_ADDR", ":8080")
	srv := &http.Server{Addr: addr, Handler: c.Handler(gw.SetupRoutes())}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infow("api gateway starting", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Fatalw("api gateway stopped", "error", err)
	}
}
