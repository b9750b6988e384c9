package middleware

import (
	"net/http"

	apperrors "snpr/pkg/errors"
	httputil "snpr/pkg/http"
)

// MaxRequestSize rejects requests whose declared Content-Length exceeds limit
// and caps the body reader for the rest, so chunked uploads fail on read.
func MaxRequestSize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > limit {
				_ = httputil.WriteError(w, apperrors.PayloadTooLarge(limit))
				return
			}

			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}

			next.ServeHTTP(w, r)
		})
	}
}
