package mock

import (
	"context"

	"github.com/fwojciec/typcheck"
)

var _ typcheck.Loader = (*Loader)(nil)

// Loader is a mock implementation of typcheck.Loader.
type Loader struct {
	LoadFn func(ctx context.Context, path string) (*typcheck.Document, error)
}

func (l *Loader) Load(ctx context.Context, path string) (*typcheck.Document, error) {
	return l.LoadFn(ctx, path)
}
