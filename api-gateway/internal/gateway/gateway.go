package gateway

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

type Config struct {
	KioskSvcURL     string
	AnalyticsSvcURL string
	FrontendDir     string
}

type Gateway struct {
	config Config
	client HTTPClient
	logger *zap.SugaredLogger
}

func NewGateway(config Config, client HTTPClient, logger *zap.SugaredLogger) *Gateway {
	return &Gateway{
		config: config,
		client: client,
		logger: logger,
	}
}

func (g *Gateway) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]string{
		"status":  "healthy",
		"service": "api-gateway",
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func (g *Gateway) ProxyRequest(w http.ResponseWriter, r *http.Request, targetURL string) {
	started := time.Now()

	url := targetURL + r.URL.Path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		g.logger.Errorw("failed to create upstream request", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	for k, v := range r.Header {
		req.Header[k] = v
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.logger.Errorw("upstream request failed", "target", targetURL, "path", r.URL.Path, "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for k, v := range resp.Header {
		w.Header()[k] = v
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		g.logger.Warnw("failed to copy upstream response", "error", err)
	}
	g.logger.Infow("proxied",
		"method", r.Method,
		"path", r.URL.Path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(started).Milliseconds(),
	)
}

// RouteHandler forwards kiosk API calls and serves the frontend for everything else.
func (g *Gateway) RouteHandler(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path

	// The kiosk frontend posts direct commands to /api/proxy.
	if path == "/api/proxy" || path == "/api/proxy/" {
		r.URL.Path = "/api/orders/process-command/"
		g.ProxyRequest(w, r, g.config.KioskSvcURL)
		return
	}

	if strings.HasPrefix(path, "/api/orders") || strings.HasPrefix(path, "/api/stores") {
		g.ProxyRequest(w, r, g.config.KioskSvcURL)
		return
	}

	if strings.HasPrefix(path, "/api/analytics/") {
		g.ProxyRequest(w, r, g.config.AnalyticsSvcURL)
		return
	}

	if strings.HasPrefix(path, "/api/") {
		g.logger.Debugw("unmatched API route", "path", path)
		http.Error(w, "API route not found", http.StatusNotFound)
		return
	}

	http.ServeFile(w, r, g.config.FrontendDir+"/index.html")
}

func (g *Gateway) SetupRoutes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", g.HealthCheck).Methods("GET")
	r.PathPrefix("/api/").HandlerFunc(g.RouteHandler)
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.Dir(g.config.FrontendDir))))
	r.PathPrefix("/").HandlerFunc(g.RouteHandler)
	return r
}
