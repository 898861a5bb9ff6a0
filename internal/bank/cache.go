package bank

import (
	"context"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/playperu/triviachat/internal/trivia"
)

const snapshotKey = "questions"

// Cache serves bank snapshots from memory for ttl so that starting a game
// does not read the whole table each time. Writes made through the Cache
// invalidate the snapshot immediately.
type Cache struct {
	store *Store
	c     *cache.Cache
}

func NewCache(store *Store, ttl time.Duration) *Cache {
	return &Cache{
		store: store,
		c:     cache.New(ttl, 2*ttl),
	}
}

// Questions returns a copy of the cached bank, loading it on a miss.
func (c *Cache) Questions(ctx context.Context) ([]trivia.Question, error) {
	if v, ok := c.c.Get(snapshotKey); ok {
		return slices.Clone(v.([]trivia.Question)), nil
	}

	questions, err := c.store.List(ctx)
	if err != nil {
		return nil, err
	}
	c.c.SetDefault(snapshotKey, questions)
	return slices.Clone(questions), nil
}

// List reads the bank directly, bypassing the snapshot.
func (c *Cache) List(ctx context.Context) ([]trivia.Question, error) {
	return c.store.List(ctx)
}

// Get reads one question from the bank.
func (c *Cache) Get(ctx context.Context, id string) (trivia.Question, error) {
	return c.store.Get(ctx, id)
}

func (c *Cache) Add(ctx context.Context, q trivia.Question) (trivia.Question, error) {
	q, err := c.store.Add(ctx, q)
	if err != nil {
		return q, err
	}
	c.Invalidate()
	return q, nil
}

func (c *Cache) Delete(ctx context.Context, id string) error {
	if err := c.store.Delete(ctx, id); err != nil {
		return err
	}
	c.Invalidate()
	return nil
}

func (c *Cache) Invalidate() {
	c.c.Delete(snapshotKey)
}
