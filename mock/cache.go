package mock

import (
	"context"

	"github.com/fwojciec/typcheck"
)

var _ typcheck.MatchCache = (*Cache)(nil)

// Cache is a mock implementation of typcheck.MatchCache.
type Cache struct {
	GetFn func(ctx context.Context, key string) ([]typcheck.Match, bool, error)
	PutFn func(ctx context.Context, key string, matches []typcheck.Match) error
}

func (c *Cache) Get(ctx context.Context, key string) ([]typcheck.Match, bool, error) {
	return c.GetFn(ctx, key)
}

func (c *Cache) Put(ctx context.Context, key string, matches []typcheck.Match) error {
	return c.PutFn(ctx, key, matches)
}
