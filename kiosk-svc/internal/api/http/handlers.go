package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"ai-kiosk/kiosk-svc/internal/domain"
	"ai-kiosk/kiosk-svc/internal/service"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	Catalog  service.CatalogServiceInterface
	Cart     service.CartServiceInterface
	Dialogue service.DialogueServiceInterface
	DB       Pinger
	Logger   *zap.SugaredLogger
}

func NewHandler(catalogSvc service.CatalogServiceInterface, cartSvc service.CartServiceInterface, dialogueSvc service.DialogueServiceInterface, db Pinger, logger *zap.SugaredLogger) *Handler {
	return &Handler{
		Catalog:  catalogSvc,
		Cart:     cartSvc,
		Dialogue: dialogueSvc,
		DB:       db,
		Logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/health", h.healthCheck).Methods("GET")

	for _, path := range []string{"/api/orders/process-command", "/api/orders/process-command/"} {
		r.HandleFunc(path, h.processCommand).Methods("POST")
	}
	for _, path := range []string{"/api/orders/chat", "/api/orders/chat/"} {
		r.HandleFunc(path, h.chat).Methods("POST")
	}
	r.HandleFunc("/api/orders/{id:[0-9]+}", h.getOrder).Methods("GET")
	r.HandleFunc("/api/orders/{id:[0-9]+}/qrcode", h.getOrderQRCode).Methods("GET")

	r.HandleFunc("/api/stores", h.getStores).Methods("GET")
	r.HandleFunc("/api/stores", h.createStore).Methods("POST")
	r.HandleFunc("/api/stores/{id:[0-9]+}", h.deleteStore).Methods("DELETE")
	r.HandleFunc("/api/stores/{id:[0-9]+}/menu", h.getStoreMenu).Methods("GET")
	r.HandleFunc("/api/stores/{id:[0-9]+}/menu", h.createMenuItem).Methods("POST")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "kiosk-svc",
		"timestamp": time.Now().Format(time.RFC3339),
	}
	status := http.StatusOK
	if h.DB != nil {
		if err := h.DB.Ping(r.Context()); err != nil {
			response["status"] = "unhealthy"
			response["error"] = err.Error()
			status = http.StatusServiceUnavailable
		}
	}
	writeJSON(w, status, response)
}

func (h *Handler) processCommand(w http.ResponseWriter, r *http.Request) {
	var req domain.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}
	resp, err := h.Dialogue.HandleCommand(r.Context(), req)
	if errors.Is(err, service.ErrMissingInput) {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if err != nil {
		h.Logger.Errorw("command failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) chat(w http.ResponseWriter, r *http.Request) {
	var req domain.TurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON format: "+err.Error())
		return
	}
	resp, err := h.Dialogue.HandleTurn(r.Context(), req)
	if errors.Is(err, service.ErrMissingInput) {
		writeError(w, http.StatusBadRequest, "Message is required")
		return
	}
	if err != nil {
		h.Logger.Errorw("chat turn failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type orderResponse struct {
	domain.OrderSnapshot
	QRCodeURL string `json:"qrCodeUrl,omitempty"`
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	order, err := h.Cart.Get(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := orderResponse{OrderSnapshot: order.Snapshot()}
	if order.Status == domain.OrderCompleted {
		resp.QRCodeURL = service.QRLink(order.ID)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getOrderQRCode(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	qr, err := h.Cart.QRCode(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && len(qr) == 0) {
		http.Error(w, "QR code not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(qr)
}

func (h *Handler) getStores(w http.ResponseWriter, r *http.Request) {
	stores, err := h.Catalog.ListStores(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stores == nil {
		stores = []domain.Store{}
	}
	writeJSON(w, http.StatusOK, stores)
}

func (h *Handler) createStore(w http.ResponseWriter, r *http.Request) {
	var store domain.Store
	if err := json.NewDecoder(r.Body).Decode(&store); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.Catalog.CreateStore(r.Context(), &store); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, store)
}

func (h *Handler) deleteStore(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	rows, err := h.Catalog.DeleteStore(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if rows == 0 {
		writeError(w, http.StatusNotFound, "Store not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getStoreMenu(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	items, err := h.Catalog.ListMenu(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	var item domain.MenuItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	item.StoreID = id
	if err := h.Catalog.CreateMenuItem(r.Context(), &item); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func statusFor(err error) int {
	if errors.Is(err, service.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
