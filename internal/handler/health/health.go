package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

const (
	statusOK       = "ok"
	statusDegraded = "degraded"
	statusError    = "error"
)

type Handler struct {
	checks   map[string]Checker
	optional map[string]bool
	sessions func() int
	logger   *slog.Logger
}

func NewHandler(logger *slog.Logger, checks map[string]Checker) *Handler {
	return &Handler{checks: checks, optional: map[string]bool{}, logger: logger}
}

// Optional marks checks whose failure degrades the service without making
// it unavailable.
func (h *Handler) Optional(names ...string) *Handler {
	for _, n := range names {
		h.optional[n] = true
	}
	return h
}

// WithSessions reports the number of running games next to the checks.
func (h *Handler) WithSessions(count func() int) *Handler {
	h.sessions = count
	return h
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.check)
	return r
}

type result struct {
	Status string `json:"status"`
}

type response struct {
	Status         string            `json:"status"`
	Checks         map[string]result `json:"checks"`
	ActiveSessions *int              `json:"activeSessions,omitempty"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := response{Status: statusOK, Checks: make(map[string]result, len(h.checks))}
	status := http.StatusOK

	for name, c := range h.checks {
		if err := c.Check(ctx); err != nil {
			h.logger.Error("health check failed", "name", name, "optional", h.optional[name], "error", err)
			resp.Checks[name] = result{Status: statusError}
			if h.optional[name] {
				if resp.Status == statusOK {
					resp.Status = statusDegraded
				}
				continue
			}
			resp.Status = statusError
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = result{Status: statusOK}
	}

	if h.sessions != nil {
		n := h.sessions()
		resp.ActiveSessions = &n
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(resp)
}
