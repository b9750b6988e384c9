package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"snpr/internal/genotypes/service"
	apperrors "snpr/pkg/errors"
	httputil "snpr/pkg/http"
	"snpr/pkg/logger"
)

// multipartMemory is how much of an upload is buffered in memory before
// mime/multipart spills it to a temp file.
const multipartMemory = 8 << 20

type GenotypeHandler struct {
	service service.GenotypeService
	log     *logger.Logger
}

func NewGenotypeHandler(service service.GenotypeService, log *logger.Logger) *GenotypeHandler {
	return &GenotypeHandler{
		service: service,
		log:     log,
	}
}

// Upload expects multipart/form-data with user_id, filetype and file fields.
func (h *GenotypeHandler) Upload(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, "Upload", apperrors.PayloadTooLarge(maxBytesErr.Limit))
			return
		}
		h.writeError(w, "Upload", apperrors.InvalidInput("Invalid multipart body"))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.log.Warn("failed to remove multipart temp files", "error", err)
		}
	}()

	req := service.UploadRequest{
		UserID:   r.FormValue("user_id"),
		Filetype: r.FormValue("filetype"),
	}

	file, header, err := r.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		h.writeError(w, "Upload", apperrors.InvalidInput("Invalid file field"))
		return
	}
	if file != nil {
		defer file.Close()
		req.Body = file
		req.Filename = header.Filename
		req.Size = header.Size
		req.ContentType = header.Header.Get("Content-Type")
	}

	g, err := h.service.Upload(r.Context(), req)
	if err != nil {
		h.writeError(w, "Upload", err)
		return
	}

	if err := httputil.WriteCreated(w, g); err != nil {
		h.log.Error("failed to write created response", "handler", "Upload", "operation", "WriteCreated", "error", err)
	}
}

func (h *GenotypeHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	g, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, g); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *GenotypeHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	genotypes, totalCount, err := h.service.GetAll(r.Context(), limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, genotypes, totalCount, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *GenotypeHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *GenotypeHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/genotypes", h.Upload)
	router.GET("/api/v1/genotypes", h.GetAll)
	router.GET("/api/v1/genotypes/id/:id", h.GetByID)
}
