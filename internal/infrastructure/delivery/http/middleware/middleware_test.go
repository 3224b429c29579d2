package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"oxyget/internal/infrastructure/delivery/http/middleware"

	"github.com/google/uuid"
)

func TestRecoverer(t *testing.T) {
	tests := []struct {
		name      string
		handler   http.HandlerFunc
		wantPanic any
	}{
		{
			name: "no panic",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
		},
		{
			name: "string panic recovered",
			handler: func(_ http.ResponseWriter, _ *http.Request) {
				panic("test panic")
			},
		},
		{
			name: "error panic recovered",
			handler: func(_ http.ResponseWriter, _ *http.Request) {
				panic(errors.New("test error panic"))
			},
		},
		{
			name: "http.ErrAbortHandler re-panics",
			handler: func(_ http.ResponseWriter, _ *http.Request) {
				panic(http.ErrAbortHandler)
			},
			wantPanic: http.ErrAbortHandler,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				rvr := recover()
				if rvr != tt.wantPanic {
					t.Errorf("recovered %v; want %v", rvr, tt.wantPanic)
				}
			}()

			h := middleware.Recoverer(tt.handler)
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	}
}

func TestRequestIDGenerated(t *testing.T) {
	var seen string

	h := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen, _ = r.Context().Value(middleware.RequestIDKey).(string)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	got := rec.Header().Get(middleware.HeaderXRequestID)
	if got == "" || got != seen {
		t.Errorf("response header = %q, context value = %q; want matching non-empty id", got, seen)
	}

	if _, err := uuid.Parse(got); err != nil {
		t.Errorf("generated id %q is not a UUID: %v", got, err)
	}
}

func TestRequestIDPreserved(t *testing.T) {
	h := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderXRequestID, "client-id")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get(middleware.HeaderXRequestID); got != "client-id" {
		t.Errorf("response header = %q; want client-supplied id", got)
	}
}

func TestLoggerPassesThrough(t *testing.T) {
	called := false

	h := middleware.Logger(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if !called || rec.Code != http.StatusTeapot {
		t.Errorf("called = %v, code = %d; want handler invoked untouched", called, rec.Code)
	}
}
