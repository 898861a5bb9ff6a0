package pool_test

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/playperu/triviachat/internal/pool"
	"github.com/playperu/triviachat/internal/trivia"
)

func bank(n int) []trivia.Question {
	qs := make([]trivia.Question, n)
	for i := range qs {
		qs[i] = trivia.Question{Question: fmt.Sprintf("q%d", i), Answer: fmt.Sprintf("a%d", i)}
	}
	return qs
}

func TestDrawExhaustsWithoutRepeats(t *testing.T) {
	p := pool.New(bank(25), rand.New(rand.NewPCG(1, 1)))

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		q, err := p.Draw()
		if err != nil {
			t.Fatalf("draw %d: %v", i, err)
		}
		if seen[q.Question] {
			t.Fatalf("question %q drawn twice", q.Question)
		}
		seen[q.Question] = true
		if got, want := p.Len(), 25-i-1; got != want {
			t.Fatalf("Len = %d, want %d", got, want)
		}
	}

	if _, err := p.Draw(); !errors.Is(err, trivia.ErrEmptyPool) {
		t.Fatalf("draw from empty pool: err = %v, want ErrEmptyPool", err)
	}
}

func TestPoolsAreIndependent(t *testing.T) {
	shared := bank(3)
	a := pool.New(shared, nil)
	b := pool.New(shared, nil)

	for range 3 {
		if _, err := a.Draw(); err != nil {
			t.Fatalf("draw a: %v", err)
		}
	}
	if b.Len() != 3 {
		t.Errorf("b.Len = %d after draining a, want 3", b.Len())
	}
	for i, q := range shared {
		if q.Question != fmt.Sprintf("q%d", i) {
			t.Errorf("shared bank mutated at %d: %+v", i, q)
		}
	}
}

func TestDrawIsRoughlyUniform(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 42))
	counts := make(map[string]int)
	const rounds = 4000
	for range rounds {
		q, err := pool.New(bank(4), rng).Draw()
		if err != nil {
			t.Fatal(err)
		}
		counts[q.Question]++
	}
	for name, c := range counts {
		if c < rounds/4-200 || c > rounds/4+200 {
			t.Errorf("%s drawn %d times out of %d", name, c, rounds)
		}
	}
}
