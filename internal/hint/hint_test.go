package hint_test

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/playperu/triviachat/internal/hint"
)

func revealed(s string) int {
	return hint.MaskableCount(strings.ReplaceAll(s, string(hint.Blank), ""))
}

func TestRenderCounts(t *testing.T) {
	tests := []struct {
		name     string
		answer   string
		fraction float64
		want     int
	}{
		{name: "blanks only", answer: "Lima", fraction: 0, want: 0},
		{name: "twenty percent of ten", answer: "Montevideo", fraction: 0.2, want: 2},
		{name: "forty percent of ten", answer: "Montevideo", fraction: 0.4, want: 4},
		{name: "small word rounds down", answer: "Rio", fraction: 0.2, want: 0},
		{name: "per word floor", answer: "Machu Picchu", fraction: 0.4, want: 2 + 2},
		{name: "floor is per word not per answer", answer: "ab cd", fraction: 0.4, want: 0},
		{name: "digits are maskable", answer: "1492", fraction: 0.5, want: 2},
		{name: "full reveal", answer: "Cusco", fraction: 1, want: 5},
	}

	rng := rand.New(rand.NewPCG(1, 2))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 20 {
				got := hint.Render(tt.answer, tt.fraction, rng)
				if n := revealed(got); n != tt.want {
					t.Fatalf("Render(%q, %v) = %q reveals %d, want %d", tt.answer, tt.fraction, got, n, tt.want)
				}
			}
		})
	}
}

func TestRenderShape(t *testing.T) {
	got := hint.Render("St. Louis-2", 0, nil)
	want := "_ _ .   _ _ _ _ _ - _"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderPassThroughOnly(t *testing.T) {
	if got := hint.Render("?!", 0, nil); got != "? !" {
		t.Errorf("Render = %q, want %q", got, "? !")
	}
	if got := hint.Render("", 0.4, nil); got != "" {
		t.Errorf("Render(empty) = %q, want empty", got)
	}
}

func TestRenderEmptyWords(t *testing.T) {
	got := hint.Render("a  b", 0, nil)
	want := "_" + "      " + "_"
	if got != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

func TestRenderClampsFraction(t *testing.T) {
	if got := hint.Render("Peru", 2, nil); got != "P e r u" {
		t.Errorf("Render(2) = %q, want full reveal", got)
	}
	if got := hint.Render("Peru", -1, nil); got != "_ _ _ _" {
		t.Errorf("Render(-1) = %q, want full blank", got)
	}
}

func TestMaskIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	answer := "Lake Titicaca basin"

	for range 50 {
		m := hint.NewMask(answer, rng)
		prev := []rune(m.Render(0))
		for _, f := range []float64{0.2, 0.4, 1} {
			next := []rune(m.Render(f))
			if len(next) != len(prev) {
				t.Fatalf("length changed: %q -> %q", string(prev), string(next))
			}
			for i := range prev {
				if prev[i] != hint.Blank && prev[i] != next[i] {
					t.Fatalf("fraction %v hid %q revealed earlier: %q -> %q", f, prev[i], string(prev), string(next))
				}
			}
			prev = next
		}
		if got := string(prev); got != hint.Render(answer, 1, nil) {
			t.Fatalf("full reveal = %q", got)
		}
	}
}

func TestRenderRevealsAnswerCharacters(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	answer := "Arequipa"
	got := strings.Split(hint.Render(answer, 0.4, rng), " ")
	for i, c := range got {
		if c != string(hint.Blank) && c != string([]rune(answer)[i]) {
			t.Errorf("position %d = %q, want %q or blank", i, c, string([]rune(answer)[i]))
		}
	}
}
