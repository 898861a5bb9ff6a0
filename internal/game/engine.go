// Package game runs timed trivia sessions in chat rooms.
//
// An Engine owns the sessions of one messaging transport. Inbound events
// arrive through Dispatch; announcements leave through a Messenger. Each
// asked question gets its own stage scheduler goroutine that races against
// incoming answers, and a per-question instance number makes sure exactly
// one of them settles the question.
package game

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/playperu/triviachat/internal/trivia"
)

// Messenger delivers announcements to a chat.
type Messenger interface {
	Send(ctx context.Context, msg trivia.Message) error
}

// QuestionSource provides the question bank a new session copies into its
// pool.
type QuestionSource interface {
	Questions(ctx context.Context) ([]trivia.Question, error)
}

// Recorder is told about every game that ended after asking at least one
// question.
type Recorder interface {
	RecordGame(ctx context.Context, result trivia.GameResult) error
}

// Recorders fans a result out to several recorders.
type Recorders []Recorder

func (rs Recorders) RecordGame(ctx context.Context, result trivia.GameResult) error {
	var errs []error
	for _, r := range rs {
		if err := r.RecordGame(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Timings are the fixed delays of a game.
type Timings struct {
	// StageDelay is how long each hint stage lasts.
	StageDelay time.Duration
	// AnswerPause separates a settled question from the next one.
	AnswerPause time.Duration
	// QuestionPause separates the "moving on" notice from the question.
	QuestionPause time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		StageDelay:    12 * time.Second,
		AnswerPause:   3 * time.Second,
		QuestionPause: 2 * time.Second,
	}
}

const sendTimeout = 10 * time.Second

type Engine struct {
	sessions *Registry
	source   QuestionSource
	out      Messenger
	recorder Recorder
	logger   *slog.Logger
	timings  Timings
	waiter   Waiter
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

type Option func(*Engine)

func WithTimings(t Timings) Option { return func(e *Engine) { e.timings = t } }

func WithWaiter(w Waiter) Option { return func(e *Engine) { e.waiter = w } }

func WithRecorder(r Recorder) Option { return func(e *Engine) { e.recorder = r } }

func WithLogger(l *slog.Logger) Option { return func(e *Engine) { e.logger = l } }

func NewEngine(sessions *Registry, source QuestionSource, out Messenger, opts ...Option) *Engine {
	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		sessions: sessions,
		source:   source,
		out:      out,
		recorder: Recorders(nil),
		logger:   slog.Default(),
		timings:  DefaultTimings(),
		waiter:   timerWaiter{},
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Sessions exposes the engine's registry for reporting.
func (e *Engine) Sessions() *Registry { return e.sessions }

// Dispatch routes an inbound event. Events for chats without a session and
// unrecognized setup choices are handled in chat and do not return errors.
func (e *Engine) Dispatch(ctx context.Context, ev Event) error {
	switch ev := ev.(type) {
	case StartCommand:
		return e.Prompt(ctx, ev.ChatID)
	case StopCommand:
		e.StopSession(ctx, ev.ChatID)
		return nil
	case TextMessage:
		resolved := e.resolve(ev)
		if resolved == nil {
			return nil
		}
		return e.Dispatch(ctx, resolved)
	case SetupChoice:
		err := e.StartSession(ctx, ev.ChatID, ev.Count)
		if errors.Is(err, trivia.ErrInvalidSelection) || errors.Is(err, trivia.ErrNoActiveSession) {
			return nil
		}
		return err
	case AnswerAttempt:
		e.SubmitAnswer(ctx, ev.ChatID, ev.Participant, ev.Text)
		return nil
	default:
		return fmt.Errorf("unknown event %T", ev)
	}
}

func (e *Engine) resolve(msg TextMessage) Event {
	s, ok := e.sessions.Get(msg.ChatID)
	if !ok {
		return nil
	}
	s.mu.Lock()
	awaiting := s.awaitingSetup
	s.mu.Unlock()

	if awaiting {
		return SetupChoice{ChatID: msg.ChatID, Count: parseChoice(msg.Body)}
	}
	return AnswerAttempt{ChatID: msg.ChatID, Participant: msg.Sender, Text: msg.Body}
}

// Prompt opens a fresh session for chatID and asks how many questions to
// play. A session already running in the chat is discarded silently.
func (e *Engine) Prompt(ctx context.Context, chatID int64) error {
	questions, err := e.source.Questions(ctx)
	if err != nil {
		e.send(trivia.Message{ChatID: chatID, Text: msgUnavailable})
		return fmt.Errorf("loading questions: %w", err)
	}

	s := newSession(e.ctx, chatID, questions, e.now())
	if old := e.sessions.Put(s); old != nil {
		e.discard(old)
		e.logger.Info("session replaced", "chat_id", chatID, "game_id", old.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	e.send(trivia.Message{ChatID: chatID, Text: msgWelcome, Choices: choiceLabels()})
	e.logger.Info("session created", "chat_id", chatID, "game_id", s.ID, "questions", len(questions))
	return nil
}

// StartSession fixes the number of questions for a session awaiting setup
// and starts the first question. Counts outside trivia.QuestionCounts are
// answered with a re-prompt and trivia.ErrInvalidSelection.
func (e *Engine) StartSession(ctx context.Context, chatID int64, count int) error {
	s, ok := e.sessions.Get(chatID)
	if !ok {
		return trivia.ErrNoActiveSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || !s.awaitingSetup {
		return trivia.ErrNoActiveSession
	}
	if !trivia.ValidQuestionCount(count) {
		e.send(trivia.Message{ChatID: chatID, Text: msgSelectFromMenu, Choices: choiceLabels()})
		return trivia.ErrInvalidSelection
	}

	s.awaitingSetup = false
	s.target = count
	e.send(trivia.Message{ChatID: chatID, Text: msgCountAccepted(count), ClearChoices: true})
	e.logger.Info("game started", "chat_id", chatID, "game_id", s.ID, "target", count)

	e.spawn(s, func() { e.advance(s) })
	return nil
}

// SubmitAnswer checks text against the live question of the chat. On a
// match it settles the question, credits participant and returns the points
// awarded. Wrong answers change nothing and stay silent.
func (e *Engine) SubmitAnswer(ctx context.Context, chatID int64, participant, text string) (int, bool) {
	s, ok := e.sessions.Get(chatID)
	if !ok {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended || !s.active || !s.matches(text) {
		return 0, false
	}

	points := trivia.PointsForStage(s.stage)
	answer := s.answer
	s.settle()
	total := s.scores.Add(participant, points)

	e.send(trivia.Message{ChatID: chatID, Text: msgCorrect(answer, participant, points), Format: trivia.FormatMarkdown})
	e.logger.Info("question answered",
		"chat_id", chatID,
		"game_id", s.ID,
		"question", s.asked,
		"stage", s.stage,
		"participant", participant,
		"points", points,
		"total", total,
	)

	e.spawn(s, func() {
		if e.waiter.Wait(s.ctx, e.timings.AnswerPause) {
			e.advance(s)
		}
	})
	return points, true
}

// StopSession ends the chat's game at once and reports whether one was
// running.
func (e *Engine) StopSession(ctx context.Context, chatID int64) bool {
	s, ok := e.sessions.Get(chatID)
	if !ok {
		return false
	}

	result, ok := e.end(s, trivia.EndReasonStopped, "")
	if !ok {
		return false
	}
	e.record(result)
	return true
}

// end finishes s unless it already ended, optionally announcing notice
// before the leaderboard.
func (e *Engine) end(s *Session, reason trivia.EndReason, notice string) (*trivia.GameResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return nil, false
	}
	if notice != "" {
		e.send(trivia.Message{ChatID: s.ChatID, Text: notice})
	}
	return e.finish(s, reason), true
}

// Close ends every session without announcements and waits for background
// work to drain.
func (e *Engine) Close() {
	e.cancel()
	for _, s := range e.sessions.Sessions() {
		e.discard(s)
		e.sessions.Remove(s.ChatID, s)
	}
	e.wg.Wait()
}

// advance asks the next question, or ends the game when the target is
// reached or the pool runs dry.
func (e *Engine) advance(s *Session) {
	q, n, done := e.drawNext(s)
	if done {
		return
	}

	if !e.waiter.Wait(s.ctx, e.timings.QuestionPause) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return
	}

	instance := s.beginQuestion(q)
	timerCtx, stop := context.WithCancel(s.ctx)
	s.stopTimer = stop

	e.send(trivia.Message{ChatID: s.ChatID, Text: msgQuestion(n, s.target, q.Question), Format: trivia.FormatMarkdown})
	e.logger.Debug("question asked", "chat_id", s.ChatID, "game_id", s.ID, "question", n, "instance", instance)

	e.spawn(s, func() { e.runStages(timerCtx, s, instance) })
}

// drawNext reserves the next question and announces it. done is true when
// the game ended instead.
func (e *Engine) drawNext(s *Session) (q trivia.Question, n int, done bool) {
	var result *trivia.GameResult
	defer func() { e.record(result) }()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ended {
		return q, 0, true
	}

	if s.asked >= s.target {
		result = e.finish(s, trivia.EndReasonCompleted)
		return q, 0, true
	}

	q, err := s.pool.Draw()
	if errors.Is(err, trivia.ErrEmptyPool) {
		e.send(trivia.Message{ChatID: s.ChatID, Text: msgNoMoreQuestions})
		result = e.finish(s, trivia.EndReasonExhausted)
		return q, 0, true
	}

	s.asked++
	e.send(trivia.Message{ChatID: s.ChatID, Text: msgMovingOn(s.asked, s.target)})
	return q, s.asked, false
}

// finish ends s, announces the leaderboard and removes it from the
// registry. The caller holds s.mu and records the returned result once the
// lock is released.
func (e *Engine) finish(s *Session, reason trivia.EndReason) *trivia.GameResult {
	s.ended = true
	s.settle()
	s.cancel()

	board := s.scores.Leaderboard()
	e.send(trivia.Message{ChatID: s.ChatID, Text: msgLeaderboard(board), Format: trivia.FormatMarkdown})
	e.sessions.Remove(s.ChatID, s)

	e.logger.Info("game ended",
		"chat_id", s.ChatID,
		"game_id", s.ID,
		"reason", reason,
		"asked", s.asked,
		"target", s.target,
		"scorers", len(board),
	)

	if s.asked == 0 {
		return nil
	}
	return &trivia.GameResult{
		ID:             s.ID,
		ChatID:         s.ChatID,
		TargetCount:    s.target,
		QuestionsAsked: s.asked,
		Reason:         reason,
		Leaderboard:    board,
		StartedAt:      s.StartedAt,
		EndedAt:        e.now(),
	}
}

// discard ends s without announcing anything.
func (e *Engine) discard(s *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ended = true
	s.settle()
	s.cancel()
}

func (e *Engine) record(result *trivia.GameResult) {
	if result == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := e.recorder.RecordGame(ctx, *result); err != nil {
		e.logger.Error("recording game", "chat_id", result.ChatID, "game_id", result.ID, "error", err)
	}
}

// send delivers msg and logs failures. Callers hold the session lock so
// announcements leave in the same order as the transitions behind them.
func (e *Engine) send(msg trivia.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()
	if err := e.out.Send(ctx, msg); err != nil {
		e.logger.Error("sending message", "chat_id", msg.ChatID, "error", err)
	}
}

// spawn runs fn for s in a tracked goroutine. A panic ends the session
// with an apology instead of leaving it unreachable.
func (e *Engine) spawn(s *Session, fn func()) {
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("game task panicked", "chat_id", s.ChatID, "game_id", s.ID, "panic", r)
				if result, ok := e.end(s, trivia.EndReasonFailed, msgUnavailable); ok {
					e.record(result)
				}
			}
		}()
		fn()
	}()
}
