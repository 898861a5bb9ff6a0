package game

// Event is an inbound chat event, already classified by the transport.
type Event interface {
	chat() int64
}

// StartCommand opens the setup prompt for a chat.
type StartCommand struct {
	ChatID int64
}

// StopCommand ends the chat's game immediately.
type StopCommand struct {
	ChatID int64
}

// TextMessage is free text from a participant. The engine resolves it into
// a SetupChoice or an AnswerAttempt depending on the session's phase.
type TextMessage struct {
	ChatID int64
	Sender string
	Body   string
}

type SetupChoice struct {
	ChatID int64
	Count  int
}

type AnswerAttempt struct {
	ChatID      int64
	Participant string
	Text        string
}

func (e StartCommand) chat() int64  { return e.ChatID }
func (e StopCommand) chat() int64   { return e.ChatID }
func (e TextMessage) chat() int64   { return e.ChatID }
func (e SetupChoice) chat() int64   { return e.ChatID }
func (e AnswerAttempt) chat() int64 { return e.ChatID }
