// Package trivia defines the core domain types shared by the game engine,
// the question bank and the messaging transports. It has no external
// dependencies.
package trivia

import (
	"errors"
	"slices"
	"time"
)

var (
	// ErrInvalidSelection is returned when setup text is not one of the
	// offered question counts. Callers re-prompt instead of failing.
	ErrInvalidSelection = errors.New("invalid question count selection")

	// ErrEmptyPool is returned by a pool with no questions left. The engine
	// treats it as a normal end of game.
	ErrEmptyPool = errors.New("question pool is empty")

	// ErrNoActiveSession is returned for events addressed to a chat without a
	// running game.
	ErrNoActiveSession = errors.New("no active session")
)

// QuestionCounts are the game lengths a chat can pick from.
var QuestionCounts = []int{10, 20, 50}

// StagePoints maps a hint stage to the points a correct answer earns.
var StagePoints = [...]int{5, 3, 2, 1}

// ValidQuestionCount reports whether n is one of QuestionCounts.
func ValidQuestionCount(n int) bool {
	return slices.Contains(QuestionCounts, n)
}

// PointsForStage returns the score for a correct answer at stage.
// Out of range stages earn the last stage's value.
func PointsForStage(stage int) int {
	switch {
	case stage < 0:
		return StagePoints[0]
	case stage >= len(StagePoints):
		return StagePoints[len(StagePoints)-1]
	}
	return StagePoints[stage]
}

type Question struct {
	ID       string `json:"id,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type ScoreEntry struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
}

type EndReason string

const (
	EndReasonCompleted EndReason = "completed"
	EndReasonExhausted EndReason = "exhausted"
	EndReasonStopped   EndReason = "stopped"
	EndReasonFailed    EndReason = "failed"
)

// GameResult is the settled outcome of one session, handed to recorders when
// the session ends.
type GameResult struct {
	ID             string       `json:"id"`
	ChatID         int64        `json:"chatId"`
	TargetCount    int          `json:"targetCount"`
	QuestionsAsked int          `json:"questionsAsked"`
	Reason         EndReason    `json:"reason"`
	Leaderboard    []ScoreEntry `json:"leaderboard"`
	StartedAt      time.Time    `json:"startedAt"`
	EndedAt        time.Time    `json:"endedAt"`
}

// Format selects how a transport renders message text.
type Format int

const (
	FormatPlain Format = iota
	FormatMarkdown
)

// Message is one outbound announcement to a chat.
type Message struct {
	ChatID int64  `json:"chatId"`
	Text   string `json:"text"`
	Format Format `json:"format"`
	// Choices, when set, asks the transport to present a fixed option menu.
	Choices []string `json:"choices,omitempty"`
	// ClearChoices asks the transport to dismiss a previously shown menu.
	ClearChoices bool `json:"clearChoices,omitempty"`
}
