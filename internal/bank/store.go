// Package bank stores the trivia question bank and the history of finished
// games in SQLite, using JSONB document tables.
package bank

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/playperu/triviachat/internal/trivia"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrInvalidQuestion is returned for questions with a blank prompt or
	// answer.
	ErrInvalidQuestion = errors.New("question and answer are required")
)

// Store persists questions and game results. Tables are created by the
// migrations package.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Questions returns the whole bank. It satisfies game.QuestionSource.
func (s *Store) Questions(ctx context.Context) ([]trivia.Question, error) {
	return s.List(ctx)
}

func (s *Store) List(ctx context.Context) ([]trivia.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, json(data) FROM questions ORDER BY rowid`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	defer rows.Close()

	var questions []trivia.Question
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scanning question: %w", err)
		}
		var q trivia.Question
		if err := json.Unmarshal([]byte(data), &q); err != nil {
			return nil, fmt.Errorf("decoding question %s: %w", id, err)
		}
		q.ID = id
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func (s *Store) Get(ctx context.Context, id string) (trivia.Question, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM questions WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return trivia.Question{}, ErrNotFound
	}
	if err != nil {
		return trivia.Question{}, err
	}
	var q trivia.Question
	if err := json.Unmarshal([]byte(data), &q); err != nil {
		return trivia.Question{}, err
	}
	q.ID = id
	return q, nil
}

// Add validates q, assigns it a new ID and stores it.
func (s *Store) Add(ctx context.Context, q trivia.Question) (trivia.Question, error) {
	q, err := normalize(q)
	if err != nil {
		return trivia.Question{}, err
	}
	q.ID = newID()
	if err := s.put(ctx, s.db, q); err != nil {
		return trivia.Question{}, fmt.Errorf("adding question: %w", err)
	}
	return q, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting question: %w", err)
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting questions: %w", err)
	}
	return n, nil
}

// SeedIfEmpty stores questions in one transaction when the bank is empty
// and reports how many were inserted.
func (s *Store) SeedIfEmpty(ctx context.Context, questions []trivia.Question) (int, error) {
	n, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning seed: %w", err)
	}
	defer tx.Rollback()

	inserted := 0
	for _, q := range questions {
		q, err := normalize(q)
		if err != nil {
			return 0, fmt.Errorf("seed question %d: %w", inserted+1, err)
		}
		q.ID = newID()
		if err := s.put(ctx, tx, q); err != nil {
			return 0, fmt.Errorf("seeding question: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing seed: %w", err)
	}
	return inserted, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) put(ctx context.Context, db execer, q trivia.Question) error {
	data, err := json.Marshal(trivia.Question{Question: q.Question, Answer: q.Answer})
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO questions (id, data) VALUES (?, jsonb(?))
		 ON CONFLICT(id) DO UPDATE SET data = excluded.data`,
		q.ID, string(data),
	)
	return err
}

func normalize(q trivia.Question) (trivia.Question, error) {
	q.Question = strings.TrimSpace(q.Question)
	q.Answer = strings.TrimSpace(q.Answer)
	if q.Question == "" || q.Answer == "" {
		return trivia.Question{}, ErrInvalidQuestion
	}
	return q, nil
}

func newID() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
