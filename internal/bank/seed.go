package bank

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/playperu/triviachat/internal/trivia"
)

//go:embed questions.json
var defaultQuestions []byte

// DefaultQuestions returns the bundled starter bank.
func DefaultQuestions() ([]trivia.Question, error) {
	var questions []trivia.Question
	if err := json.Unmarshal(defaultQuestions, &questions); err != nil {
		return nil, fmt.Errorf("decoding bundled questions: %w", err)
	}
	return questions, nil
}

// LoadQuestions reads a JSON array of {"question", "answer"} objects.
func LoadQuestions(r io.Reader) ([]trivia.Question, error) {
	var questions []trivia.Question
	if err := json.NewDecoder(r).Decode(&questions); err != nil {
		return nil, fmt.Errorf("decoding questions: %w", err)
	}
	for i, q := range questions {
		if _, err := normalize(q); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return questions, nil
}

// SeedQuestions picks the seed for an empty bank: path when set, otherwise
// the bundled questions.
func SeedQuestions(path string) ([]trivia.Question, error) {
	if path == "" {
		return DefaultQuestions()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening questions file: %w", err)
	}
	defer f.Close()
	return LoadQuestions(f)
}
