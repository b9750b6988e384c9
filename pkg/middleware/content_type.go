package middleware

import (
	"mime"
	"net/http"
	"slices"

	apperrors "snpr/pkg/errors"
	httputil "snpr/pkg/http"
	"snpr/pkg/logger"
)

const (
	ContentTypeJSON      = "application/json"
	ContentTypeMultipart = "multipart/form-data"
)

// ContentTypeValidation rejects bodies on POST/PUT/PATCH whose media type is
// not in allowed. With no allowed types given, only JSON is accepted.
func ContentTypeValidation(log *logger.Logger, allowed ...string) func(http.Handler) http.Handler {
	if len(allowed) == 0 {
		allowed = []string{ContentTypeJSON}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r.Method) {
				contentType := extractContentType(r.Header.Get("Content-Type"))

				if !slices.Contains(allowed, contentType) {
					rejectInvalidContentType(w, log, r, contentType, allowed)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

func extractContentType(header string) string {
	if header == "" {
		return ""
	}

	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return ""
	}
	return mediaType
}

func rejectInvalidContentType(w http.ResponseWriter, log *logger.Logger, r *http.Request, contentType string, allowed []string) {
	log.Warn("Invalid Content-Type header",
		"request_id", RequestID(r.Context()),
		"content_type", contentType,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if err := httputil.WriteError(w, apperrors.UnsupportedMediaType(contentType, allowed)); err != nil {
		log.Error("failed to write JSON response", "operation", "WriteError", "error", err)
	}
}
