package typcheck_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/typcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitChunks(t *testing.T) {
	t.Parallel()

	t.Run("short text stays in one chunk", func(t *testing.T) {
		t.Parallel()

		chunks := typcheck.SplitChunks("Hello world.", 100)

		require.Len(t, chunks, 1)
		assert.Equal(t, 0, chunks[0].Start)
		assert.Equal(t, 12, chunks[0].End)
		assert.Equal(t, "Hello world.", chunks[0].Text)
	})

	t.Run("prefers paragraph separator over whitespace", func(t *testing.T) {
		t.Parallel()

		text := "First paragraph here.\nSecond paragraph also here."

		chunks := typcheck.SplitChunks(text, 30)

		require.Len(t, chunks, 2)
		assert.Equal(t, "First paragraph here.\n", chunks[0].Text)
		assert.Equal(t, "Second paragraph also here.", chunks[1].Text)
	})

	t.Run("falls back to whitespace without separator", func(t *testing.T) {
		t.Parallel()

		text := "one two three four five six"

		chunks := typcheck.SplitChunks(text, 10)

		require.NotEmpty(t, chunks)
		for _, c := range chunks[:len(chunks)-1] {
			assert.LessOrEqual(t, len(c.Text), 10)
			assert.True(t, strings.HasSuffix(c.Text, " "), "chunk %q should end at whitespace", c.Text)
		}
	})

	t.Run("oversized token stays in one chunk", func(t *testing.T) {
		t.Parallel()

		token := strings.Repeat("x", 5000)

		chunks := typcheck.SplitChunks(token, 2000)

		require.Len(t, chunks, 1)
		assert.Equal(t, 5000, len(chunks[0].Text))
	})

	t.Run("oversized token in context extends to next whitespace", func(t *testing.T) {
		t.Parallel()

		token := strings.Repeat("x", 50)
		text := token + " tail"

		chunks := typcheck.SplitChunks(text, 20)

		require.Len(t, chunks, 2)
		assert.Equal(t, token+" ", chunks[0].Text)
		assert.Equal(t, "tail", chunks[1].Text)
	})

	t.Run("reassembly reproduces the text", func(t *testing.T) {
		t.Parallel()

		text := "Some sentences here.\nAnother paragraph with more words in it.\nAnd a final one."

		chunks := typcheck.SplitChunks(text, 25)

		var sb strings.Builder
		pos := 0
		for _, c := range chunks {
			assert.Equal(t, pos, c.Start)
			assert.Equal(t, pos+len(c.Text), c.End)
			sb.WriteString(c.Text)
			pos = c.End
		}
		assert.Equal(t, text, sb.String())
	})

	t.Run("empty text yields no chunks", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, typcheck.SplitChunks("", 100))
	})
}
