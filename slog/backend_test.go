package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/typcheck"
	"github.com/fwojciec/typcheck/mock"
	typslog "github.com/fwojciec/typcheck/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingBackend_Check(t *testing.T) {
	t.Parallel()

	t.Run("logs check with match count and duration", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Backend{
			CheckFn: func(ctx context.Context, lang string, text string) ([]typcheck.Match, error) {
				return []typcheck.Match{{RuleID: "SOME_RULE"}}, nil
			},
		}

		backend := typslog.NewLoggingBackend(inner, logger)
		matches, err := backend.Check(context.Background(), "en-US", "some text")

		require.NoError(t, err)
		assert.Len(t, matches, 1)
		output := buf.String()
		assert.Contains(t, output, "check")
		assert.Contains(t, output, "lang=en-US")
		assert.Contains(t, output, "chars=9")
		assert.Contains(t, output, "matches=1")
		assert.Contains(t, output, "duration=")
		assert.Contains(t, output, "request_id=")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		inner := &mock.Backend{
			CheckFn: func(ctx context.Context, lang string, text string) ([]typcheck.Match, error) {
				return nil, errors.New("server gone")
			},
		}

		backend := typslog.NewLoggingBackend(inner, logger)
		_, err := backend.Check(context.Background(), "en-US", "some text")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "err=\"server gone\"")
	})
}

func TestLoggingBackend_Configure(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	configured := false
	inner := &mock.Backend{
		ConfigureFn: func(ctx context.Context, cfg typcheck.BackendConfig) error {
			configured = true
			return nil
		},
	}

	backend := typslog.NewLoggingBackend(inner, logger)
	err := backend.Configure(context.Background(), typcheck.BackendConfig{
		Dictionary:    []string{"typcheck"},
		DisabledRules: []string{"WHITESPACE_RULE"},
	})

	require.NoError(t, err)
	assert.True(t, configured)
	output := buf.String()
	assert.Contains(t, output, "dictionary_words=1")
	assert.Contains(t, output, "disabled_rules=1")
}
