package typcheck_test

import (
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/fwojciec/typcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	t.Run("accepts the defaults", func(t *testing.T) {
		t.Parallel()

		cfg := typcheck.DefaultConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("accepts auto language", func(t *testing.T) {
		t.Parallel()

		cfg := typcheck.DefaultConfig()
		cfg.Language = typcheck.LanguageAuto
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects a bad language tag", func(t *testing.T) {
		t.Parallel()

		cfg := typcheck.DefaultConfig()
		cfg.Language = "not a language"

		err := cfg.Validate()
		assert.Equal(t, typcheck.EINVALID, typcheck.ErrorCode(err))
	})

	t.Run("rejects a non-positive chunk size", func(t *testing.T) {
		t.Parallel()

		cfg := typcheck.DefaultConfig()
		cfg.MaxChunkSize = 0

		err := cfg.Validate()
		assert.Equal(t, typcheck.EINVALID, typcheck.ErrorCode(err))
	})
}

func TestConfig_TOML(t *testing.T) {
	t.Parallel()

	var cfg typcheck.Config
	_, err := toml.Decode(`
language = "de-DE"
dictionary = ["typcheck"]
disabled_rules = ["WHITESPACE_RULE"]
ignore_functions = ["cite"]
max_chunk_size = 500
debounce = "250ms"
`, &cfg)

	require.NoError(t, err)
	assert.Equal(t, "de-DE", cfg.Language)
	assert.Equal(t, []string{"typcheck"}, cfg.Dictionary)
	assert.Equal(t, []string{"WHITESPACE_RULE"}, cfg.DisabledRules)
	assert.Equal(t, 500, cfg.MaxChunkSize)
	assert.Equal(t, 250*time.Millisecond, time.Duration(cfg.Debounce))
}

func TestDuration_UnmarshalText(t *testing.T) {
	t.Parallel()

	var d typcheck.Duration
	require.NoError(t, d.UnmarshalText([]byte("1.5s")))
	assert.Equal(t, 1500*time.Millisecond, time.Duration(d))

	err := d.UnmarshalText([]byte("soon"))
	assert.Equal(t, typcheck.EINVALID, typcheck.ErrorCode(err))
}
