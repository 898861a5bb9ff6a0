package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/playperu/triviachat/internal/game"
)

// Dispatcher is the game engine as seen by the web chat transport.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev game.Event) error
}

// ChatMessageRequest is the request body for POST /api/chats/{chatID}/messages.
type ChatMessageRequest struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

const (
	commandStart = "start"
	commandStop  = "stop"
)

var errBadChatInput = errors.New("sender and text are required")

// chatEvent builds the engine event for one inbound web chat action. An
// empty command means a text message.
func chatEvent(chatID int64, command, sender, text string) (game.Event, error) {
	switch command {
	case commandStart:
		return game.StartCommand{ChatID: chatID}, nil
	case commandStop:
		return game.StopCommand{ChatID: chatID}, nil
	case "":
	default:
		return nil, errors.New("unknown command " + command)
	}

	sender = strings.TrimSpace(sender)
	text = strings.TrimSpace(text)
	if sender == "" || text == "" {
		return nil, errBadChatInput
	}
	return game.TextMessage{ChatID: chatID, Sender: sender, Body: text}, nil
}

func handleChatCommand(engine Dispatcher, logger *slog.Logger, command string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		chatID := chatFrom(r)
		ev, _ := chatEvent(chatID, command, "", "")

		if err := engine.Dispatch(r.Context(), ev); err != nil {
			logger.Error("chat command failed", "chat_id", chatID, "command", command, "error", err)
			writeError(w, http.StatusServiceUnavailable, "questions are unavailable")
			return
		}
		writeJSON(w, http.StatusAccepted, StatusResponse{Status: "accepted"})
	}
}

func handleChatMessage(engine Dispatcher, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ChatMessageRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		chatID := chatFrom(r)
		ev, err := chatEvent(chatID, "", req.Sender, req.Text)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := engine.Dispatch(r.Context(), ev); err != nil {
			logger.Error("chat message failed", "chat_id", chatID, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusAccepted, StatusResponse{Status: "accepted"})
	}
}
