package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"snpr/pkg/logger"
	"snpr/pkg/metrics"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestRecovery(t *testing.T) {
	h := Recovery(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Internal server error") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestRequestLogging_RequestID(t *testing.T) {
	var seen string
	h := RequestLogging(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if len(seen) != 32 {
			t.Errorf("generated request id %q, want 32 hex chars", seen)
		}
		if rec.Header().Get(RequestIDHeader) != seen {
			t.Errorf("response header = %q, want %q", rec.Header().Get(RequestIDHeader), seen)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if seen != "abc-123" {
			t.Errorf("request id = %q, want abc-123", seen)
		}
	})
}

func TestContentTypeValidation(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		method      string
		contentType string
		wantStatus  int
	}{
		{name: "json accepted by default", method: http.MethodPost, contentType: "application/json", wantStatus: http.StatusOK},
		{name: "json with charset", method: http.MethodPost, contentType: "application/json; charset=utf-8", wantStatus: http.StatusOK},
		{name: "text rejected", method: http.MethodPost, contentType: "text/plain", wantStatus: http.StatusUnsupportedMediaType},
		{name: "missing rejected", method: http.MethodPut, contentType: "", wantStatus: http.StatusUnsupportedMediaType},
		{name: "get skips check", method: http.MethodGet, contentType: "", wantStatus: http.StatusOK},
		{name: "multipart rejected by default", method: http.MethodPost, contentType: "multipart/form-data; boundary=x", wantStatus: http.StatusUnsupportedMediaType},
		{
			name:        "multipart accepted when allowed",
			allowed:     []string{ContentTypeJSON, ContentTypeMultipart},
			method:      http.MethodPost,
			contentType: "multipart/form-data; boundary=x",
			wantStatus:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := ContentTypeValidation(logger.Discard(), tt.allowed...)(okHandler())
			req := httptest.NewRequest(tt.method, "/", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestMaxRequestSize(t *testing.T) {
	var readErr error
	h := MaxRequestSize(8)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, readErr = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("declared length too large", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789")))
		if rec.Code != http.StatusRequestEntityTooLarge {
			t.Errorf("status = %d, want 413", rec.Code)
		}
	})

	t.Run("undeclared length capped on read", func(t *testing.T) {
		readErr = nil
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789"))
		req.ContentLength = -1
		h.ServeHTTP(httptest.NewRecorder(), req)

		var maxErr *http.MaxBytesError
		if !errors.As(readErr, &maxErr) {
			t.Errorf("read error = %v, want *http.MaxBytesError", readErr)
		}
	})

	t.Run("within limit", func(t *testing.T) {
		readErr = nil
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123")))
		if rec.Code != http.StatusOK || readErr != nil {
			t.Errorf("status = %d, err = %v", rec.Code, readErr)
		}
	})
}

func TestRequestTimeout(t *testing.T) {
	t.Run("slow handler times out", func(t *testing.T) {
		h := RequestTimeout(20 * time.Millisecond)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusGatewayTimeout {
			t.Errorf("status = %d, want 504", rec.Code)
		}
	})

	t.Run("fast handler passes", func(t *testing.T) {
		h := RequestTimeout(time.Second)(okHandler())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
			t.Errorf("status = %d body = %q", rec.Code, rec.Body.String())
		}
	})

	t.Run("panic reaches recovery", func(t *testing.T) {
		h := Recovery(logger.Discard())(RequestTimeout(time.Second)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("boom")
		})))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
	})
}

func TestRequestMetrics(t *testing.T) {
	m := metrics.New("test")
	h := RequestMetrics(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	path := "/api/v1/phenotypes/id/65a1f0c2e4b0a1b2c3d4e5f6"
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))

	got := testutil.ToFloat64(m.HTTPRequests.WithLabelValues(http.MethodGet, "/api/v1/phenotypes/id/:id", "404"))
	if got != 2 {
		t.Errorf("requests_total = %v, want 2", got)
	}
}
