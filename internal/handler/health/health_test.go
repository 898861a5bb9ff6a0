package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/playperu/triviachat/internal/handler/health"
)

type mockChecker struct{ err error }

func (m mockChecker) Check(_ context.Context) error { return m.err }

type body struct {
	Status         string
	Checks         map[string]struct{ Status string }
	ActiveSessions *int
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name        string
		checks      map[string]health.Checker
		optional    []string
		wantStatus  int
		wantOverall string
		wantChecks  map[string]string
	}{
		{
			name: "all healthy",
			checks: map[string]health.Checker{
				"sqlite": mockChecker{},
				"redis":  mockChecker{},
			},
			optional:    []string{"redis"},
			wantStatus:  http.StatusOK,
			wantOverall: "ok",
			wantChecks:  map[string]string{"sqlite": "ok", "redis": "ok"},
		},
		{
			name: "sqlite down",
			checks: map[string]health.Checker{
				"sqlite": mockChecker{err: errors.New("locked")},
				"redis":  mockChecker{},
			},
			optional:    []string{"redis"},
			wantStatus:  http.StatusServiceUnavailable,
			wantOverall: "error",
			wantChecks:  map[string]string{"sqlite": "error", "redis": "ok"},
		},
		{
			name: "optional redis down",
			checks: map[string]health.Checker{
				"sqlite": mockChecker{},
				"redis":  mockChecker{err: errors.New("refused")},
			},
			optional:    []string{"redis"},
			wantStatus:  http.StatusOK,
			wantOverall: "degraded",
			wantChecks:  map[string]string{"sqlite": "ok", "redis": "error"},
		},
		{
			name: "required redis down",
			checks: map[string]health.Checker{
				"sqlite": mockChecker{},
				"redis":  mockChecker{err: errors.New("refused")},
			},
			wantStatus:  http.StatusServiceUnavailable,
			wantOverall: "error",
			wantChecks:  map[string]string{"sqlite": "ok", "redis": "error"},
		},
		{
			name: "both down",
			checks: map[string]health.Checker{
				"sqlite": mockChecker{err: errors.New("db")},
				"redis":  mockChecker{err: errors.New("cache")},
			},
			optional:    []string{"redis"},
			wantStatus:  http.StatusServiceUnavailable,
			wantOverall: "error",
			wantChecks:  map[string]string{"sqlite": "error", "redis": "error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := health.NewHandler(slog.Default(), tt.checks).Optional(tt.optional...)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			h.Routes().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var got body
			if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
				t.Fatalf("decoding response: %v", err)
			}
			if got.Status != tt.wantOverall {
				t.Errorf("overall = %q, want %q", got.Status, tt.wantOverall)
			}
			for name, want := range tt.wantChecks {
				if s := got.Checks[name].Status; s != want {
					t.Errorf("%s status = %q, want %q", name, s, want)
				}
			}
			if got.ActiveSessions != nil {
				t.Errorf("activeSessions = %d without a session counter", *got.ActiveSessions)
			}
		})
	}
}

func TestHandlerReportsSessions(t *testing.T) {
	h := health.NewHandler(slog.Default(), map[string]health.Checker{
		"sqlite": health.CheckerFunc(func(context.Context) error { return nil }),
	}).WithSessions(func() int { return 4 })

	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	var got body
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if got.ActiveSessions == nil || *got.ActiveSessions != 4 {
		t.Errorf("activeSessions = %v, want 4", got.ActiveSessions)
	}
}
