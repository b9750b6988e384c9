package health

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	httputil "snpr/pkg/http"
	"snpr/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Pinger is satisfied by *mongo.Client.
type Pinger interface {
	Ping(ctx context.Context, rp *readpref.ReadPref) error
}

type Response struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
}

type Handler struct {
	db      Pinger
	metrics http.Handler
	log     *logger.Logger
}

// NewHandler serves /health, /ready and, when metrics is non-nil, /metrics.
func NewHandler(db Pinger, metrics http.Handler, log *logger.Logger) *Handler {
	return &Handler{
		db:      db,
		metrics: metrics,
		log:     log,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := httputil.WriteJSON(w, http.StatusOK, Response{
		Status: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Health", "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	if h.db == nil {
		h.writeUnavailable(w, r, "not configured")
		return
	}

	if err := h.db.Ping(ctx, nil); err != nil {
		h.log.Error("Database health check failed",
			"error", err,
			"path", r.URL.Path,
		)
		h.writeUnavailable(w, r, "error")
		return
	}

	if err := httputil.WriteJSON(w, http.StatusOK, Response{
		Status:   "ready",
		Database: "ok",
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) writeUnavailable(w http.ResponseWriter, r *http.Request, database string) {
	if err := httputil.WriteJSON(w, http.StatusServiceUnavailable, Response{
		Status:   "unavailable",
		Database: database,
	}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "Ready", "operation", "WriteJSON", "error", err)
	}
}

func (h *Handler) Metrics(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.metrics.ServeHTTP(w, r)
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	if h.metrics != nil {
		router.GET("/metrics", h.Metrics)
	}
}
