package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/playperu/radioguessr/internal/handler/health"
)

type mockChecker struct{ err error }

func (m mockChecker) Check(_ context.Context) error { return m.err }

func TestHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]health.Checker
		wantStatus int
		wantBody   map[string]string
	}{
		{
			name:       "no checks",
			checks:     map[string]health.Checker{},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{},
		},
		{
			name: "upstream healthy",
			checks: map[string]health.Checker{
				"upstream": mockChecker{},
				"sessions": health.CheckerFunc(func(context.Context) error { return nil }),
			},
			wantStatus: http.StatusOK,
			wantBody:   map[string]string{"upstream": "ok", "sessions": "ok"},
		},
		{
			name: "upstream down",
			checks: map[string]health.Checker{
				"upstream": mockChecker{err: errors.New("connection refused")},
				"sessions": mockChecker{},
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"upstream": "error", "sessions": "ok"},
		},
		{
			name: "all down",
			checks: map[string]health.Checker{
				"upstream": mockChecker{err: errors.New("timeout")},
				"sessions": health.CheckerFunc(func(context.Context) error { return errors.New("full") }),
			},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   map[string]string{"upstream": "error", "sessions": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(slog.New(slog.DiscardHandler), tt.checks)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body map[string]struct {
				Status string
				Error  string
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decoding response: %v", err)
			}

			for name, want := range tt.wantBody {
				if got := body[name].Status; got != want {
					t.Errorf("%s status = %q, want %q", name, got, want)
				}
				if want == "error" && body[name].Error == "" {
					t.Errorf("%s: expected error message", name)
				}
			}
		})
	}
}
