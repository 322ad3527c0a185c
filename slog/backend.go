// Package slog provides logging decorators for typcheck services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/typcheck"
	"github.com/google/uuid"
)

// Ensure LoggingBackend implements typcheck.Backend.
var _ typcheck.Backend = (*LoggingBackend)(nil)

// LoggingBackend wraps a Backend with request logging.
type LoggingBackend struct {
	next   typcheck.Backend
	logger *slog.Logger
}

// NewLoggingBackend creates a new LoggingBackend.
func NewLoggingBackend(next typcheck.Backend, logger *slog.Logger) *LoggingBackend {
	return &LoggingBackend{next: next, logger: logger}
}

// Check logs the request and delegates to the wrapped backend.
func (b *LoggingBackend) Check(ctx context.Context, lang string, text string) (matches []typcheck.Match, err error) {
	id := uuid.New().String()
	defer func(begin time.Time) {
		b.logger.Info("check",
			"request_id", id,
			"lang", lang,
			"chars", len(text),
			"matches", len(matches),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return b.next.Check(ctx, lang, text)
}

// Configure logs the configuration shape and delegates.
func (b *LoggingBackend) Configure(ctx context.Context, cfg typcheck.BackendConfig) (err error) {
	defer func() {
		b.logger.Info("configure",
			"dictionary_words", len(cfg.Dictionary),
			"disabled_rules", len(cfg.DisabledRules),
			"err", err,
		)
	}()
	return b.next.Configure(ctx, cfg)
}

// Shutdown delegates to the wrapped backend.
func (b *LoggingBackend) Shutdown(ctx context.Context) error {
	return b.next.Shutdown(ctx)
}
