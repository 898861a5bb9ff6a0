package telegram

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/playperu/triviachat/internal/game"
	"github.com/playperu/triviachat/internal/trivia"
)

type fakeClient struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	sendErr error
	updates chan tgbotapi.Update
	stopped bool
}

func newFakeClient() *fakeClient {
	return &fakeClient{updates: make(chan tgbotapi.Update)}
}

func (c *fakeClient) Send(ch tgbotapi.Chattable) (tgbotapi.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, ch)
	return tgbotapi.Message{}, c.sendErr
}

func (c *fakeClient) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return c.updates
}

func (c *fakeClient) StopReceivingUpdates() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()
}

type recordingDispatcher struct {
	mu     sync.Mutex
	events []game.Event
}

func (d *recordingDispatcher) Dispatch(_ context.Context, ev game.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, ev)
	return nil
}

func (d *recordingDispatcher) snapshot() []game.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]game.Event(nil), d.events...)
}

func textUpdate(chatID int64, from, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: 1,
		Message: &tgbotapi.Message{
			Chat: &tgbotapi.Chat{ID: chatID},
			From: &tgbotapi.User{FirstName: from},
			Text: text,
		},
	}
}

func commandUpdate(chatID int64, text string) tgbotapi.Update {
	u := textUpdate(chatID, "Ana", text)
	u.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}}
	return u
}

func TestToEvent(t *testing.T) {
	tests := []struct {
		name   string
		update tgbotapi.Update
		want   game.Event
		ok     bool
	}{
		{"start", commandUpdate(5, "/start"), game.StartCommand{ChatID: 5}, true},
		{"start addressed to bot", commandUpdate(5, "/start@TriviaBot"), game.StartCommand{ChatID: 5}, true},
		{"bot name is case-insensitive", commandUpdate(5, "/stop@triviabot"), game.StopCommand{ChatID: 5}, true},
		{"start for another bot", commandUpdate(5, "/start@OtherBot"), nil, false},
		{"stop for another bot", commandUpdate(5, "/stop@OtherBot"), nil, false},
		{"stop", commandUpdate(5, "/stop"), game.StopCommand{ChatID: 5}, true},
		{"unknown command", commandUpdate(5, "/help"), nil, false},
		{"text", textUpdate(5, "Ana", "🎯 10"), game.TextMessage{ChatID: 5, Sender: "Ana", Body: "🎯 10"}, true},
		{"anonymous sender", textUpdate(5, "", "lima"), game.TextMessage{ChatID: 5, Sender: "Someone", Body: "lima"}, true},
		{"no message", tgbotapi.Update{UpdateID: 9}, nil, false},
		{"empty text", textUpdate(5, "Ana", ""), nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := toEvent(tt.update, "TriviaBot")
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("event = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestRenderChoices(t *testing.T) {
	out := render(trivia.Message{ChatID: 3, Text: "pick", Choices: []string{"🎯 10", "🎯 20", "🎯 50"}})

	kb, ok := out.ReplyMarkup.(tgbotapi.ReplyKeyboardMarkup)
	if !ok {
		t.Fatalf("reply markup = %T, want ReplyKeyboardMarkup", out.ReplyMarkup)
	}
	if !kb.OneTimeKeyboard || !kb.ResizeKeyboard {
		t.Errorf("keyboard one-time = %v, resize = %v", kb.OneTimeKeyboard, kb.ResizeKeyboard)
	}
	if len(kb.Keyboard) != 3 || kb.Keyboard[2][0].Text != "🎯 50" {
		t.Errorf("keyboard = %+v", kb.Keyboard)
	}
	if out.ParseMode != "" {
		t.Errorf("parse mode = %q, want plain", out.ParseMode)
	}
}

func TestRenderMarkdownAndClear(t *testing.T) {
	out := render(trivia.Message{ChatID: 3, Text: "*bold*", Format: trivia.FormatMarkdown, ClearChoices: true})

	if out.ParseMode != tgbotapi.ModeMarkdown {
		t.Errorf("parse mode = %q, want %q", out.ParseMode, tgbotapi.ModeMarkdown)
	}
	rm, ok := out.ReplyMarkup.(tgbotapi.ReplyKeyboardRemove)
	if !ok || !rm.RemoveKeyboard {
		t.Errorf("reply markup = %#v, want keyboard removal", out.ReplyMarkup)
	}
}

func TestMessengerSend(t *testing.T) {
	c := newFakeClient()
	m := NewMessenger(c)

	if err := m.Send(context.Background(), trivia.Message{ChatID: 1, Text: "hi"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(c.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(c.sent))
	}

	c.sendErr = errors.New("flood wait")
	if err := m.Send(context.Background(), trivia.Message{ChatID: 1, Text: "hi"}); err == nil {
		t.Error("api failure not reported")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Send(ctx, trivia.Message{ChatID: 1, Text: "late"}); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled send = %v, want context.Canceled", err)
	}
}

func TestRunDispatchesInOrderUntilCancelled(t *testing.T) {
	c := newFakeClient()
	d := &recordingDispatcher{}
	bot := NewBot(c, "TriviaBot", d, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- bot.Run(ctx) }()

	c.updates <- commandUpdate(8, "/start")
	c.updates <- textUpdate(8, "Bo", "🎯 20")
	c.updates <- commandUpdate(8, "/stop")
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}

	want := []game.Event{
		game.StartCommand{ChatID: 8},
		game.TextMessage{ChatID: 8, Sender: "Bo", Body: "🎯 20"},
		game.StopCommand{ChatID: 8},
	}
	got := d.snapshot()
	if len(got) != len(want) {
		t.Fatalf("dispatched %d events, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %#v, want %#v", i, got[i], want[i])
		}
	}

	c.mu.Lock()
	stopped := c.stopped
	c.mu.Unlock()
	if !stopped {
		t.Error("polling not stopped")
	}
}

type stallingClient struct {
	*fakeClient
	delay time.Duration
}

func (c stallingClient) Send(ch tgbotapi.Chattable) (tgbotapi.Message, error) {
	time.Sleep(c.delay)
	return c.fakeClient.Send(ch)
}

func TestMessengerSendHonoursDeadline(t *testing.T) {
	m := NewMessenger(stallingClient{fakeClient: newFakeClient(), delay: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := m.Send(ctx, trivia.Message{ChatID: 1, Text: "hello"})
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("Send returned after %s, want about 50ms", elapsed)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}
