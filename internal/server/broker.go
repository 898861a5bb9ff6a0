package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/playperu/triviachat/internal/trivia"
)

// ChatEvent is the payload streamed to web chat subscribers.
type ChatEvent struct {
	Type    string         `json:"type"`
	Message trivia.Message `json:"message"`
}

const subscriberBuffer = 32

// Broker is an in-process pub/sub for web chats, keyed by chat ID. It is
// the game.Messenger of the web transport.
type Broker struct {
	mu   sync.RWMutex
	subs map[int64]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[int64]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded ChatEvents for the
// chat.
func (b *Broker) Subscribe(chatID int64) chan []byte {
	ch := make(chan []byte, subscriberBuffer)
	b.mu.Lock()
	if b.subs[chatID] == nil {
		b.subs[chatID] = make(map[chan []byte]struct{})
	}
	b.subs[chatID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

func (b *Broker) Unsubscribe(chatID int64, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[chatID], ch)
	if len(b.subs[chatID]) == 0 {
		delete(b.subs, chatID)
	}
	b.mu.Unlock()
}

// Subscribers reports how many listeners a chat has.
func (b *Broker) Subscribers(chatID int64) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[chatID])
}

// Send publishes msg to every subscriber of its chat. A chat nobody is
// watching drops the message.
func (b *Broker) Send(_ context.Context, msg trivia.Message) error {
	data, err := json.Marshal(ChatEvent{Type: "message", Message: msg})
	if err != nil {
		return err
	}
	b.mu.RLock()
	for ch := range b.subs[msg.ChatID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
	return nil
}
