// Package leaderboard keeps all-time player totals across games in a Redis
// sorted set.
package leaderboard

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/triviachat/internal/trivia"
)

const DefaultKey = "trivia:leaderboard"

type Board struct {
	rdb *redis.Client
	key string
}

// New returns a board stored under key, or DefaultKey when key is empty.
func New(rdb *redis.Client, key string) *Board {
	if key == "" {
		key = DefaultKey
	}
	return &Board{rdb: rdb, key: key}
}

// RecordGame adds every scorer's points to their all-time total. It
// satisfies game.Recorder.
func (b *Board) RecordGame(ctx context.Context, result trivia.GameResult) error {
	if len(result.Leaderboard) == 0 {
		return nil
	}
	_, err := b.rdb.Pipelined(ctx, func(p redis.Pipeliner) error {
		for _, e := range result.Leaderboard {
			p.ZIncrBy(ctx, b.key, float64(e.Points), e.Name)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("updating leaderboard: %w", err)
	}
	return nil
}

// Top returns the n highest all-time totals.
func (b *Board) Top(ctx context.Context, n int) ([]trivia.ScoreEntry, error) {
	if n <= 0 {
		return []trivia.ScoreEntry{}, nil
	}
	zs, err := b.rdb.ZRevRangeWithScores(ctx, b.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading leaderboard: %w", err)
	}

	entries := make([]trivia.ScoreEntry, 0, len(zs))
	for _, z := range zs {
		name, _ := z.Member.(string)
		entries = append(entries, trivia.ScoreEntry{Name: name, Points: int(z.Score)})
	}
	return entries, nil
}

// Reset removes every total.
func (b *Board) Reset(ctx context.Context) error {
	return b.rdb.Del(ctx, b.key).Err()
}

// Check pings Redis. It satisfies health.Checker.
func (b *Board) Check(ctx context.Context) error {
	return b.rdb.Ping(ctx).Err()
}

// Open parses rawURL and verifies the server is reachable.
func Open(ctx context.Context, rawURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}
	return rdb, nil
}
