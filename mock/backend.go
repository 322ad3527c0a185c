package mock

import (
	"context"

	"github.com/fwojciec/typcheck"
)

var _ typcheck.Backend = (*Backend)(nil)

// Backend is a mock implementation of typcheck.Backend.
type Backend struct {
	CheckFn     func(ctx context.Context, lang string, text string) ([]typcheck.Match, error)
	ConfigureFn func(ctx context.Context, cfg typcheck.BackendConfig) error
	ShutdownFn  func(ctx context.Context) error
}

func (b *Backend) Check(ctx context.Context, lang string, text string) ([]typcheck.Match, error) {
	return b.CheckFn(ctx, lang, text)
}

func (b *Backend) Configure(ctx context.Context, cfg typcheck.BackendConfig) error {
	if b.ConfigureFn == nil {
		return nil
	}
	return b.ConfigureFn(ctx, cfg)
}

func (b *Backend) Shutdown(ctx context.Context) error {
	if b.ShutdownFn == nil {
		return nil
	}
	return b.ShutdownFn(ctx)
}
