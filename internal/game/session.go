package game

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playperu/triviachat/internal/hint"
	"github.com/playperu/triviachat/internal/pool"
	"github.com/playperu/triviachat/internal/trivia"
)

// Scoreboard accumulates points per participant and remembers the order in
// which participants first scored.
type Scoreboard struct {
	points map[string]int
	order  []string
}

func NewScoreboard() *Scoreboard {
	return &Scoreboard{points: make(map[string]int)}
}

// Add credits pts to name and returns the new total.
func (b *Scoreboard) Add(name string, pts int) int {
	if _, ok := b.points[name]; !ok {
		b.order = append(b.order, name)
	}
	b.points[name] += pts
	return b.points[name]
}

// Leaderboard lists participants with positive scores, highest first. Equal
// scores keep the order in which participants first scored.
func (b *Scoreboard) Leaderboard() []trivia.ScoreEntry {
	entries := make([]trivia.ScoreEntry, 0, len(b.order))
	for _, name := range b.order {
		if p := b.points[name]; p > 0 {
			entries = append(entries, trivia.ScoreEntry{Name: name, Points: p})
		}
	}
	slices.SortStableFunc(entries, func(a, b trivia.ScoreEntry) int {
		return b.Points - a.Points
	})
	return entries
}

// Session is the live state of one trivia game in one chat. All fields
// below mu are guarded by it; the engine and the stage scheduler are the
// only writers.
type Session struct {
	ID        string
	ChatID    int64
	StartedAt time.Time

	// ctx is cancelled when the session ends or is replaced, aborting every
	// pending wait that belongs to it.
	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	awaitingSetup bool
	target        int
	asked         int
	scores        *Scoreboard
	questionText  string
	answer        string
	mask          *hint.Mask
	stage         int
	active        bool
	instance      uint64
	stopTimer     context.CancelFunc
	pool          *pool.Pool
	ended         bool
}

func newSession(parent context.Context, chatID int64, questions []trivia.Question, now time.Time) *Session {
	ctx, cancel := context.WithCancel(parent)
	return &Session{
		ID:            uuid.NewString(),
		ChatID:        chatID,
		StartedAt:     now,
		ctx:           ctx,
		cancel:        cancel,
		awaitingSetup: true,
		scores:        NewScoreboard(),
		pool:          pool.New(questions, nil),
	}
}

// beginQuestion makes q the live question and returns its instance number.
func (s *Session) beginQuestion(q trivia.Question) uint64 {
	s.instance++
	s.questionText = q.Question
	s.answer = q.Answer
	s.mask = hint.NewMask(q.Answer, nil)
	s.stage = 0
	s.active = true
	return s.instance
}

// settle closes the live question. Only the caller that observes active and
// flips it wins the question; everyone else must back off.
func (s *Session) settle() {
	s.active = false
	s.answer = ""
	s.cancelTimer()
}

// live reports whether instance is still the question waiting for an answer.
func (s *Session) live(instance uint64) bool {
	return !s.ended && s.active && s.instance == instance
}

func (s *Session) cancelTimer() {
	if s.stopTimer != nil {
		s.stopTimer()
		s.stopTimer = nil
	}
}

// matches reports whether text contains the live answer, ignoring case and
// surrounding space.
func (s *Session) matches(text string) bool {
	want := strings.ToLower(strings.TrimSpace(s.answer))
	if want == "" {
		return false
	}
	return strings.Contains(strings.ToLower(strings.TrimSpace(text)), want)
}

// SessionInfo is a point-in-time copy of a session for reporting.
type SessionInfo struct {
	ID             string              `json:"id"`
	ChatID         int64               `json:"chatId"`
	StartedAt      time.Time           `json:"startedAt"`
	AwaitingSetup  bool                `json:"awaitingSetup"`
	TargetCount    int                 `json:"targetCount"`
	QuestionsAsked int                 `json:"questionsAsked"`
	Remaining      int                 `json:"remaining"`
	Stage          int                 `json:"stage"`
	QuestionActive bool                `json:"questionActive"`
	Leaderboard    []trivia.ScoreEntry `json:"leaderboard"`
}

func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SessionInfo{
		ID:             s.ID,
		ChatID:         s.ChatID,
		StartedAt:      s.StartedAt,
		AwaitingSetup:  s.awaitingSetup,
		TargetCount:    s.target,
		QuestionsAsked: s.asked,
		Remaining:      s.pool.Len(),
		Stage:          s.stage,
		QuestionActive: s.active,
		Leaderboard:    s.scores.Leaderboard(),
	}
}
