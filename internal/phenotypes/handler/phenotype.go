package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"snpr/internal/phenotypes/service"
	apperrors "snpr/pkg/errors"
	httputil "snpr/pkg/http"
	"snpr/pkg/logger"
	"snpr/pkg/model"
)

type PhenotypeHandler struct {
	service service.PhenotypeService
	log     *logger.Logger
}

func NewPhenotypeHandler(service service.PhenotypeService, log *logger.Logger) *PhenotypeHandler {
	return &PhenotypeHandler{
		service: service,
		log:     log,
	}
}

// addUserPhenotypeRequest keeps variation as a pointer so an absent field is
// rejected instead of being read as "".
type addUserPhenotypeRequest struct {
	UserID    string  `json:"user_id"`
	Variation *string `json:"variation"`
}

func (h *PhenotypeHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var p model.Phenotype
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		h.writeDecodeError(w, "Create", err)
		return
	}

	if err := h.service.Create(r.Context(), &p); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, p); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *PhenotypeHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, p); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PhenotypeHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	phenotypes, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, phenotypes, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *PhenotypeHandler) AddUserPhenotype(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req addUserPhenotypeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeDecodeError(w, "AddUserPhenotype", err)
		return
	}

	if req.Variation == nil {
		err := apperrors.Validation("User phenotype validation failed", map[string]any{
			"variation": "is required",
		})
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddUserPhenotype", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	up := model.UserPhenotype{
		UserID:    req.UserID,
		Variation: *req.Variation,
	}
	if err := h.service.AddUserPhenotype(r.Context(), ps.ByName("id"), &up); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "AddUserPhenotype", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, up); err != nil {
		h.log.Error("failed to write created response", "handler", "AddUserPhenotype", "operation", "WriteCreated", "error", err)
	}
}

func (h *PhenotypeHandler) ListUserPhenotypes(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userPhenotypes, err := h.service.ListUserPhenotypes(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "ListUserPhenotypes", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, userPhenotypes); err != nil {
		h.log.Error("failed to write success response", "handler", "ListUserPhenotypes", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PhenotypeHandler) KnownVariations(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	known, err := h.service.KnownVariations(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "KnownVariations", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, known); err != nil {
		h.log.Error("failed to write success response", "handler", "KnownVariations", "operation", "WriteSuccess", "error", err)
	}
}

func (h *PhenotypeHandler) writeDecodeError(w http.ResponseWriter, handler string, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		if writeErr := httputil.WriteError(w, apperrors.PayloadTooLarge(maxBytesErr.Limit)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
		Code:  apperrors.CodeInvalidInput,
	}); writeErr != nil {
		h.log.Error("failed to write JSON response", "handler", handler, "operation", "WriteJSON", "error", writeErr)
	}
}

func (h *PhenotypeHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/phenotypes", h.Create)
	router.GET("/api/v1/phenotypes", h.GetAll)
	router.GET("/api/v1/phenotypes/id/:id", h.GetByID)
	router.POST("/api/v1/phenotypes/id/:id/user-phenotypes", h.AddUserPhenotype)
	router.GET("/api/v1/phenotypes/id/:id/user-phenotypes", h.ListUserPhenotypes)
	router.GET("/api/v1/phenotypes/id/:id/known-variations", h.KnownVariations)
}
