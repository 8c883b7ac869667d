package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"ai-kiosk/analytics-svc/internal/domain"
	"ai-kiosk/analytics-svc/internal/service"
	"ai-kiosk/rediskeys"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Analytics service.AnalyticsInterface
	Logger    *zap.SugaredLogger
	now       func() time.Time
}

func NewHandler(svc service.AnalyticsInterface, logger *zap.SugaredLogger) *Handler {
	return &Handler{Analytics: svc, Logger: logger, now: time.Now}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "analytics-svc"})
	}).Methods("GET")
	r.HandleFunc("/api/analytics/popular", h.getTopOverall).Methods("GET")
	r.HandleFunc("/api/analytics/stores/{store}/popular", h.getTopItems).Methods("GET")
	r.HandleFunc("/api/analytics/daily", h.getDaily).Methods("GET")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func limitParam(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

func (h *Handler) getTopOverall(w http.ResponseWriter, r *http.Request) {
	items, err := h.Analytics.TopOverall(r.Context(), limitParam(r))
	if err != nil {
		h.Logger.Errorw("top items failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []domain.ItemPopularity{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) getTopItems(w http.ResponseWriter, r *http.Request) {
	store := mux.Vars(r)["store"]
	items, err := h.Analytics.TopItems(r.Context(), store, limitParam(r))
	if err != nil {
		h.Logger.Errorw("store top items failed", "store", store, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []domain.ItemPopularity{}
	}
	writeJSON(w, http.StatusOK, items)
}

// getDaily accepts ?date=YYYY-MM-DD (default today) and ?days=N (default 1).
func (h *Handler) getDaily(w http.ResponseWriter, r *http.Request) {
	end := h.now()
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := time.ParseInLocation(rediskeys.DateLayout, raw, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		end = parsed
	}
	days := 1
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "days must be a number")
			return
		}
		days = parsed
	}

	summaries, err := h.Analytics.Daily(r.Context(), end, days)
	if errors.Is(err, service.ErrInvalidRange) {
		writeError(w, http.StatusBadRequest, "days must be between 1 and "+strconv.Itoa(service.MaxDays))
		return
	}
	if err != nil {
		h.Logger.Errorw("daily summary failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, summaries)
}
