package handler

import (
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"

	"snpr/internal/news/service"
	apperrors "snpr/pkg/errors"
	httputil "snpr/pkg/http"
	"snpr/pkg/logger"
)

type NewsHandler struct {
	service service.NewsService
	log     *logger.Logger
}

func NewNewsHandler(service service.NewsService, log *logger.Logger) *NewsHandler {
	return &NewsHandler{
		service: service,
		log:     log,
	}
}

func (h *NewsHandler) Latest(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			h.writeError(w, apperrors.InvalidInput("invalid limit parameter: "+s))
			return
		}
		limit = v
	}

	feed, err := h.service.Latest(r.Context(), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, feed); err != nil {
		h.log.Error("failed to write success response", "handler", "Latest", "operation", "WriteSuccess", "error", err)
	}
}

func (h *NewsHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", "Latest", "operation", "WriteError", "error", writeErr)
	}
}

func (h *NewsHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/news", h.Latest)
}
