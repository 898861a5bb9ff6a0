// Package telegram connects the game engine to the Telegram Bot API using
// long polling.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/playperu/triviachat/internal/game"
	"github.com/playperu/triviachat/internal/trivia"
)

const (
	startCommand = "start"
	stopCommand  = "stop"

	pollTimeout = 60
	// httpTimeout bounds every Bot API request, long polls included.
	httpTimeout = (pollTimeout + 15) * time.Second
)

// Client is the part of *tgbotapi.BotAPI the bot uses.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Dispatcher interface {
	Dispatch(ctx context.Context, ev game.Event) error
}

// Connect authorizes token against the Bot API.
func Connect(token string, logger *slog.Logger) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: httpTimeout})
	if err != nil {
		return nil, fmt.Errorf("creating bot api: %w", err)
	}
	logger.Info("authorized telegram bot", "username", api.Self.UserName)
	return api, nil
}

// Messenger delivers engine announcements as Telegram messages.
type Messenger struct {
	api Client
}

func NewMessenger(api Client) *Messenger {
	return &Messenger{api: api}
}

// Send returns when the Bot API answers or ctx is done, whichever is first.
// A request abandoned on ctx keeps running until the HTTP client times out.
func (m *Messenger) Send(ctx context.Context, msg trivia.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		_, err := m.api.Send(render(msg))
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("sending to chat %d: %w", msg.ChatID, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("sending to chat %d: %w", msg.ChatID, ctx.Err())
	}
}

// render maps an announcement onto a Bot API message. Choices become a
// one-time reply keyboard with one button per row.
func render(msg trivia.Message) tgbotapi.MessageConfig {
	out := tgbotapi.NewMessage(msg.ChatID, msg.Text)
	if msg.Format == trivia.FormatMarkdown {
		out.ParseMode = tgbotapi.ModeMarkdown
	}

	switch {
	case len(msg.Choices) > 0:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(msg.Choices))
		for _, c := range msg.Choices {
			rows = append(rows, tgbotapi.NewKeyboardButtonRow(tgbotapi.NewKeyboardButton(c)))
		}
		kb := tgbotapi.NewReplyKeyboard(rows...)
		kb.OneTimeKeyboard = true
		kb.ResizeKeyboard = true
		out.ReplyMarkup = kb
	case msg.ClearChoices:
		out.ReplyMarkup = tgbotapi.NewRemoveKeyboard(true)
	}
	return out
}

// Bot feeds Telegram updates into a Dispatcher.
type Bot struct {
	api      Client
	username string
	engine   Dispatcher
	logger   *slog.Logger
}

// NewBot builds a poller for the bot called username. Commands addressed to
// any other bot are ignored.
func NewBot(api Client, username string, engine Dispatcher, logger *slog.Logger) *Bot {
	return &Bot{api: api, username: username, engine: engine, logger: logger}
}

// Run polls for updates until ctx is cancelled. Updates are dispatched one
// at a time in arrival order.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = pollTimeout
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handle(ctx, update)
		}
	}
}

func (b *Bot) handle(ctx context.Context, update tgbotapi.Update) {
	ev, ok := toEvent(update, b.username)
	if !ok {
		return
	}
	if err := b.engine.Dispatch(ctx, ev); err != nil {
		b.logger.Error("handling update", "update_id", update.UpdateID, "error", err)
	}
}

// toEvent classifies a text message. Other update kinds, unknown commands
// and commands for other bots are ignored.
func toEvent(update tgbotapi.Update, username string) (game.Event, bool) {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		return nil, false
	}
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		command, target, addressed := strings.Cut(msg.CommandWithAt(), "@")
		if addressed && !strings.EqualFold(target, username) {
			return nil, false
		}
		switch command {
		case startCommand:
			return game.StartCommand{ChatID: chatID}, true
		case stopCommand:
			return game.StopCommand{ChatID: chatID}, true
		}
		return nil, false
	}

	sender := "Someone"
	if msg.From != nil && msg.From.FirstName != "" {
		sender = msg.From.FirstName
	}
	return game.TextMessage{ChatID: chatID, Sender: sender, Body: msg.Text}, true
}
