package server

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strconv"

	"github.com/playperu/triviachat/internal/game"
	"github.com/playperu/triviachat/internal/trivia"
)

type Leaderboard interface {
	Top(ctx context.Context, n int) ([]trivia.ScoreEntry, error)
	Reset(ctx context.Context) error
}

type GameHistory interface {
	RecentGames(ctx context.Context, limit int) ([]trivia.GameResult, error)
}

// ActiveSession is one running game as reported by GET /api/sessions.
type ActiveSession struct {
	Transport string `json:"transport"`
	game.SessionInfo
}

// queryLimit reads ?limit=, clamped to [1, ceiling].
func queryLimit(r *http.Request, fallback, ceiling int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return fallback
	}
	return min(n, ceiling)
}

func handleLeaderboard(board Leaderboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if board == nil {
			writeError(w, http.StatusNotFound, "all-time leaderboard is disabled")
			return
		}
		top, err := board.Top(r.Context(), queryLimit(r, 10, 100))
		if err != nil {
			writeError(w, http.StatusServiceUnavailable, "leaderboard unavailable")
			return
		}
		writeJSON(w, http.StatusOK, top)
	}
}

// handleResetLeaderboard clears the all-time totals.
func handleResetLeaderboard(board Leaderboard, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if board == nil {
			writeError(w, http.StatusNotFound, "all-time leaderboard is disabled")
			return
		}
		if err := board.Reset(r.Context()); err != nil {
			logger.Error("resetting leaderboard", "error", err)
			writeError(w, http.StatusServiceUnavailable, "leaderboard unavailable")
			return
		}
		logger.Info("all-time leaderboard reset", "admin", adminFrom(r).Email)
		writeJSON(w, http.StatusOK, StatusResponse{Status: "reset"})
	}
}

func handleRecentGames(history GameHistory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		games, err := history.RecentGames(r.Context(), queryLimit(r, 20, 100))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, games)
	}
}

// handleSessions lists running games across transports, oldest first.
func handleSessions(registries map[string]*game.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		out := []ActiveSession{}
		for transport, reg := range registries {
			for _, s := range reg.Sessions() {
				out = append(out, ActiveSession{Transport: transport, SessionInfo: s.Info()})
			}
		}
		slices.SortFunc(out, func(a, b ActiveSession) int {
			return a.StartedAt.Compare(b.StartedAt)
		})
		writeJSON(w, http.StatusOK, out)
	}
}
