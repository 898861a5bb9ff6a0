// Package hint renders partially masked answers for trivia hints.
//
// A hint keeps the shape of the answer: words stay words, punctuation stays
// in place, and letters or digits are either revealed or replaced by a
// blank. Which characters get revealed is random, but the number revealed in
// each word is always floor(maskable * fraction).
package hint

import (
	"math"
	"math/rand/v2"
	"strings"
	"unicode"
)

const (
	Blank         = '_'
	charSeparator = " "
	wordSeparator = "   "
)

// Mask holds a fixed random reveal order for every word of one answer.
// Rendering the same Mask at increasing fractions reveals a growing set of
// characters, so successive hints for a question never hide a character an
// earlier hint showed.
type Mask struct {
	words [][]rune
	order [][]int
}

// NewMask shuffles the maskable positions of each word of answer. A nil rng
// uses the global source.
func NewMask(answer string, rng *rand.Rand) *Mask {
	parts := strings.Split(answer, " ")
	m := &Mask{
		words: make([][]rune, len(parts)),
		order: make([][]int, len(parts)),
	}
	for i, part := range parts {
		runes := []rune(part)
		var idx []int
		for j, r := range runes {
			if maskable(r) {
				idx = append(idx, j)
			}
		}
		swap := func(a, b int) { idx[a], idx[b] = idx[b], idx[a] }
		if rng != nil {
			rng.Shuffle(len(idx), swap)
		} else {
			rand.Shuffle(len(idx), swap)
		}
		m.words[i] = runes
		m.order[i] = idx
	}
	return m
}

// Render shows floor(maskable * fraction) characters of every word and
// blanks the remaining letters and digits. fraction is clamped to [0, 1].
func (m *Mask) Render(fraction float64) string {
	fraction = math.Max(0, math.Min(1, fraction))

	out := make([]string, len(m.words))
	for i, word := range m.words {
		n := revealCount(len(m.order[i]), fraction)
		shown := make(map[int]struct{}, n)
		for _, pos := range m.order[i][:n] {
			shown[pos] = struct{}{}
		}

		chars := make([]string, len(word))
		for j, r := range word {
			_, ok := shown[j]
			if maskable(r) && !ok {
				chars[j] = string(Blank)
				continue
			}
			chars[j] = string(r)
		}
		out[i] = strings.Join(chars, charSeparator)
	}
	return strings.Join(out, wordSeparator)
}

// Render is a one-shot rendering of answer at fraction.
func Render(answer string, fraction float64, rng *rand.Rand) string {
	return NewMask(answer, rng).Render(fraction)
}

// MaskableCount returns the number of letters and digits in s.
func MaskableCount(s string) int {
	n := 0
	for _, r := range s {
		if maskable(r) {
			n++
		}
	}
	return n
}

func revealCount(maskableChars int, fraction float64) int {
	return int(math.Floor(float64(maskableChars) * fraction))
}

func maskable(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
