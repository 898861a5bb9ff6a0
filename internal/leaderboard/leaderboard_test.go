package leaderboard_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playperu/triviachat/internal/leaderboard"
	"github.com/playperu/triviachat/internal/trivia"
)

func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         "localhost:1",
		DialTimeout:  10 * time.Millisecond,
		ReadTimeout:  10 * time.Millisecond,
		WriteTimeout: 10 * time.Millisecond,
		MaxRetries:   0,
	})
}

// liveBoard connects to REDIS_TEST_URL and skips the test when it is unset.
func liveBoard(t *testing.T) *leaderboard.Board {
	t.Helper()
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}
	rdb, err := leaderboard.Open(context.Background(), url)
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	b := leaderboard.New(rdb, "trivia:test:"+t.Name())
	t.Cleanup(func() { b.Reset(context.Background()) })
	return b
}

func TestRecordGameAccumulates(t *testing.T) {
	ctx := context.Background()
	b := liveBoard(t)

	games := [][]trivia.ScoreEntry{
		{{Name: "ana", Points: 5}, {Name: "bo", Points: 3}},
		{{Name: "bo", Points: 5}, {Name: "cy", Points: 1}},
	}
	for i, lb := range games {
		if err := b.RecordGame(ctx, trivia.GameResult{ID: string(rune('a' + i)), Leaderboard: lb}); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	top, err := b.Top(ctx, 2)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []trivia.ScoreEntry{{Name: "bo", Points: 8}, {Name: "ana", Points: 5}}
	if len(top) != len(want) {
		t.Fatalf("top = %+v, want %+v", top, want)
	}
	for i := range want {
		if top[i] != want[i] {
			t.Errorf("top[%d] = %+v, want %+v", i, top[i], want[i])
		}
	}
}

func TestRecordGameWithoutScorersSkipsRedis(t *testing.T) {
	b := leaderboard.New(deadRedis(), "")
	if err := b.RecordGame(context.Background(), trivia.GameResult{ID: "g"}); err != nil {
		t.Errorf("empty leaderboard: err = %v, want nil", err)
	}
}

func TestUnreachableRedis(t *testing.T) {
	ctx := context.Background()
	b := leaderboard.New(deadRedis(), "")

	err := b.RecordGame(ctx, trivia.GameResult{Leaderboard: []trivia.ScoreEntry{{Name: "ana", Points: 5}}})
	if err == nil {
		t.Error("RecordGame succeeded against a dead server")
	}
	if _, err := b.Top(ctx, 5); err == nil {
		t.Error("Top succeeded against a dead server")
	}
	if err := b.Check(ctx); err == nil {
		t.Error("Check succeeded against a dead server")
	}
}
