package bank

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/playperu/triviachat/internal/trivia"
)

// endedAtLayout is fixed width so ended_at sorts chronologically as text.
const endedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// RecordGame stores a finished game. It satisfies game.Recorder.
func (s *Store) RecordGame(ctx context.Context, result trivia.GameResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO games (id, chat_id, ended_at, data) VALUES (?, ?, ?, jsonb(?))
		 ON CONFLICT(id) DO UPDATE SET ended_at = excluded.ended_at, data = excluded.data`,
		result.ID, result.ChatID, result.EndedAt.UTC().Format(endedAtLayout), string(data),
	)
	if err != nil {
		return fmt.Errorf("recording game %s: %w", result.ID, err)
	}
	return nil
}

// RecentGames returns up to limit finished games, newest first.
func (s *Store) RecentGames(ctx context.Context, limit int) ([]trivia.GameResult, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT json(data) FROM games ORDER BY ended_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing games: %w", err)
	}
	defer rows.Close()

	games := []trivia.GameResult{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var g trivia.GameResult
		if err := json.Unmarshal([]byte(data), &g); err != nil {
			return nil, err
		}
		games = append(games, g)
	}
	return games, rows.Err()
}
