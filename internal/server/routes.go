package server

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, d Deps) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Trivia Chat API", "/openapi.json", "/docs"))

	// Web chat transport: {chatID} is parsed by chatMiddleware.
	r.Route("/api/chats/{chatID}", func(r chi.Router) {
		r.Use(chatMiddleware)
		r.Post("/start", handleChatCommand(d.Engine, logger, commandStart))
		r.Post("/stop", handleChatCommand(d.Engine, logger, commandStop))
		r.Post("/messages", handleChatMessage(d.Engine, logger))
		r.Get("/events", handleEvents(d.Broker))
		r.Get("/ws", handleChatWS(d.Engine, d.Broker, logger))
	})

	r.Get("/api/leaderboard", handleLeaderboard(d.Leaderboard))
	r.Get("/api/games", handleRecentGames(d.History))

	r.Post("/api/admin/login", handleAdminLogin(d.Admin, logger))
	r.Post("/api/admin/logout", handleAdminLogout(d.Admin, logger))

	r.Group(func(r chi.Router) {
		r.Use(adminAuthMiddleware(d.Admin))
		r.Get("/api/admin/me", handleAdminMe())
		r.Get("/api/admin/questions", handleAdminListQuestions(d.Questions))
		r.Post("/api/admin/questions", handleAdminCreateQuestion(d.Questions))
		r.Get("/api/admin/questions/{id}", handleAdminGetQuestion(d.Questions))
		r.Delete("/api/admin/questions/{id}", handleAdminDeleteQuestion(d.Questions))
		r.Delete("/api/admin/leaderboard", handleResetLeaderboard(d.Leaderboard, logger))
		r.Get("/api/sessions", handleSessions(d.Sessions))
	})
}
