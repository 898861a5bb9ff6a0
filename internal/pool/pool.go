// Package pool provides an exhausting, randomly sampled supply of questions
// for a single game.
package pool

import (
	"math/rand/v2"

	"github.com/playperu/triviachat/internal/trivia"
)

// Pool is not safe for concurrent use; a game session owns its pool and
// draws from it under the session lock.
type Pool struct {
	remaining []trivia.Question
	rng       *rand.Rand
}

// New copies questions so draws never touch the caller's slice. A nil rng
// uses the global source.
func New(questions []trivia.Question, rng *rand.Rand) *Pool {
	remaining := make([]trivia.Question, len(questions))
	copy(remaining, questions)
	return &Pool{remaining: remaining, rng: rng}
}

// Draw removes and returns a uniformly chosen question.
func (p *Pool) Draw() (trivia.Question, error) {
	n := len(p.remaining)
	if n == 0 {
		return trivia.Question{}, trivia.ErrEmptyPool
	}

	var i int
	if p.rng != nil {
		i = p.rng.IntN(n)
	} else {
		i = rand.IntN(n)
	}

	q := p.remaining[i]
	p.remaining[i] = p.remaining[n-1]
	p.remaining[n-1] = trivia.Question{}
	p.remaining = p.remaining[:n-1]
	return q, nil
}

func (p *Pool) Len() int { return len(p.remaining) }
