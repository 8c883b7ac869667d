package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func NewRouter(handler *Handler) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	return cors.Default().Handler(r)
}

// StartServer serves until ctx is cancelled.
func StartServer(ctx context.Context, addr string, handler http.Handler, logger *zap.SugaredLogger) error {
	srv := &http.Server{Addr: addr, Handler: handler, ReadTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("analytics service starting", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
