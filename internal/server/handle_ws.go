package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

// ChatFrame is a client frame on the chat websocket. Command is "start",
// "stop" or empty for a text message.
type ChatFrame struct {
	Command string `json:"command,omitempty"`
	Sender  string `json:"sender,omitempty"`
	Text    string `json:"text,omitempty"`
}

const wsSessionLimit = 2 * time.Hour

// handleChatWS carries a web chat over one websocket: client frames are
// dispatched to the engine and the chat's announcements are written back as
// ChatEvent JSON.
func handleChatWS(engine Dispatcher, broker *Broker, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		chatID := chatFrom(r)
		ch := broker.Subscribe(chatID)
		defer broker.Unsubscribe(chatID, ch)

		ctx, cancel := context.WithTimeout(r.Context(), wsSessionLimit)
		defer cancel()

		go func() {
			defer cancel()
			for {
				var f ChatFrame
				if err := wsjson.Read(ctx, conn, &f); err != nil {
					logger.Debug("websocket read ended", "chat_id", chatID, "error", err)
					return
				}
				ev, err := chatEvent(chatID, f.Command, f.Sender, f.Text)
				if err != nil {
					logger.Debug("ignoring websocket frame", "chat_id", chatID, "error", err)
					continue
				}
				if err := engine.Dispatch(ctx, ev); err != nil {
					logger.Error("websocket dispatch failed", "chat_id", chatID, "error", err)
				}
			}
		}()

		for {
			select {
			case <-ctx.Done():
				conn.Close(websocket.StatusNormalClosure, "")
				return
			case data := <-ch:
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					logger.Debug("websocket write failed", "chat_id", chatID, "error", err)
					return
				}
			}
		}
	}
}
