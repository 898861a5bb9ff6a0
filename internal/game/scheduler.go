package game

import (
	"context"
	"time"

	"github.com/playperu/triviachat/internal/hint"
	"github.com/playperu/triviachat/internal/trivia"
)

// Waiter blocks for d or until ctx is done, reporting whether the full
// delay elapsed.
type Waiter interface {
	Wait(ctx context.Context, d time.Duration) bool
}

type timerWaiter struct{}

func (timerWaiter) Wait(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// stageReveal is the hint fraction shown when a stage begins. Stage 0 shows
// no hint: the question itself was just posted.
func stageReveal(stage int) (float64, bool) {
	switch stage {
	case 1:
		return 0, true
	case 2:
		return 0.2, true
	case 3:
		return 0.4, true
	}
	return 0, false
}

// runStages drives one question instance through its hint stages and
// expires it if nobody answers. It re-checks the instance after every wait
// and exits quietly once the question was settled elsewhere.
func (e *Engine) runStages(ctx context.Context, s *Session, instance uint64) {
	for stage := range len(trivia.StagePoints) {
		if !e.waiter.Wait(ctx, e.timings.StageDelay) {
			return
		}
		if !e.enterStage(s, instance, stage) {
			return
		}
	}

	if !e.waiter.Wait(ctx, e.timings.StageDelay) {
		return
	}
	if !e.expire(s, instance) {
		return
	}

	if e.waiter.Wait(s.ctx, e.timings.AnswerPause) {
		e.advance(s)
	}
}

func (e *Engine) enterStage(s *Session, instance uint64, stage int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live(instance) {
		return false
	}

	s.stage = stage
	fraction, ok := stageReveal(stage)
	if !ok {
		return true
	}

	h := s.mask.Render(fraction)
	e.send(trivia.Message{ChatID: s.ChatID, Text: msgHint(s.asked, s.target, s.questionText, h)})
	e.logger.Debug("hint revealed",
		"chat_id", s.ChatID,
		"game_id", s.ID,
		"stage", stage,
		"maskable", hint.MaskableCount(s.answer),
	)
	return true
}

// expire settles an unanswered question and reveals its answer.
func (e *Engine) expire(s *Session, instance uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.live(instance) {
		return false
	}

	answer := s.answer
	s.settle()
	e.send(trivia.Message{ChatID: s.ChatID, Text: msgTimesUp(answer), Format: trivia.FormatMarkdown})
	e.logger.Info("question expired", "chat_id", s.ChatID, "game_id", s.ID, "question", s.asked)
	return true
}
