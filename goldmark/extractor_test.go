package goldmark_test

import (
	"testing"

	"github.com/fwojciec/typcheck"
	"github.com/fwojciec/typcheck/goldmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func extract(t *testing.T, doc *typcheck.Document, ignore ...string) *typcheck.Extraction {
	t.Helper()
	e, err := goldmark.NewExtractor().Extract(doc, ignore)
	require.NoError(t, err)
	require.NoError(t, e.Validate())
	return e
}

func TestExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("substitutes inline math with a placeholder", func(t *testing.T) {
		t.Parallel()

		doc := typcheck.NewDocument("main.md", []byte("Helo world. $x+1$ more."))
		e := extract(t, doc)

		assert.Equal(t, "Helo world. # more.", e.Text)
		require.Len(t, e.Runs, 3)
		assert.Equal(t, typcheck.TextRun{
			Span: typcheck.SourceSpan{Doc: "main.md", Start: 0, End: 12},
			Text: "Helo world. ",
		}, e.Runs[0])
		assert.Equal(t, typcheck.TextRun{
			Span:        typcheck.SourceSpan{Doc: "main.md", Start: 12, End: 17},
			Text:        goldmark.Placeholder,
			Substituted: true,
		}, e.Runs[1])
		assert.Equal(t, typcheck.TextRun{
			Span: typcheck.SourceSpan{Doc: "main.md", Start: 17, End: 23},
			Text: " more.",
		}, e.Runs[2])
		assert.False(t, e.Runs[1].Verbatim())
	})

	t.Run("leaves dollar amounts alone", func(t *testing.T) {
		t.Parallel()

		doc := typcheck.NewDocument("main.md", []byte("Costs $5 and $10 today."))
		e := extract(t, doc)

		assert.Equal(t, "Costs $5 and $10 today.", e.Text)
	})

	t.Run("display math separates paragraphs", func(t *testing.T) {
		t.Parallel()

		doc := typcheck.NewDocument("main.md", []byte("Before.\n\n$$e=mc^2$$\n\nAfter."))
		e := extract(t, doc)

		assert.Equal(t, "Before.\nAfter.", e.Text)
	})

	t.Run("substitutes code spans with a placeholder", func(t *testing.T) {
		t.Parallel()

		doc := typcheck.NewDocument("main.md", []byte("Use `foo()` here."))
		e := extract(t, doc)

		assert.Equal(t, "Use # here.", e.Text)
		require.Len(t, e.Runs, 3)
		assert.Equal(t, goldmark.Placeholder, e.Runs[1].Text)
		assert.Equal(t, typcheck.SourceSpan{Doc: "main.md", Start: 5, End: 10}, e.Runs[1].Span)
	})

	t.Run("single-byte code span is still a substitution", func(t *testing.T) {
		t.Parallel()

		// The span of `x` is exactly as long as the placeholder text, so
		// the run must be flagged rather than inferred from lengths.
		doc := typcheck.NewDocument("main.md", []byte("a `x` b."))
		e := extract(t, doc)

		assert.Equal(t, "a # b.", e.Text)
		require.Len(t, e.Runs, 3)
		assert.Equal(t, goldmark.Placeholder, e.Runs[1].Text)
		assert.Equal(t, e.Runs[1].Span.Len(), len(e.Runs[1].Text))
		assert.False(t, e.Runs[1].Verbatim())
	})

	t.Run("headings and paragraphs are separate chunks of prose", func(t *testing.T) {
		t.Parallel()

		doc := typcheck.NewDocument("main.md", []byte("# Title\n\nBody text."))
		e := extract(t, doc)

		assert.Equal(t, "Title\nBody text.", e.Text)
		require.Len(t, e.Runs, 3)
		assert.Equal(t, typcheck.SourceSpan{Doc: "main.md", Start: 2, End: 7}, e.Runs[0].Span)
		assert.Equal(t, "\n", e.Runs[1].Text)
		assert.Equal(t, 0, e.Runs[1].Span.Len())
	})

	t.Run("soft line breaks become spaces", func(t *testing.T) {
		t.Parallel()

		doc := typcheck.NewDocument("main.md", []byte("one\ntwo"))
		e := extract(t, doc)

		assert.Equal(t, "one two", e.Text)
		require.Len(t, e.Runs, 3)
		assert.Equal(t, " ", e.Runs[1].Text)
		assert.Equal(t, typcheck.SourceSpan{Doc: "main.md", Start: 3, End: 4}, e.Runs[1].Span)
	})

	t.Run("fenced code blocks emit nothing", func(t *testing.T) {
		t.Parallel()

		doc := typcheck.NewDocument("main.md", []byte("Para.\n\n```\nnot prose\n```\n\nEnd."))
		e := extract(t, doc)

		assert.Equal(t, "Para.\nEnd.", e.Text)
	})

	t.Run("splices included documents", func(t *testing.T) {
		t.Parallel()

		sub := typcheck.NewDocument("sub.md", []byte("Sub body.\n"))
		doc := typcheck.NewDocument("main.md", []byte("Intro.\n\n{{#include \"sub.md\"}}\n"))
		doc.Includes = map[string]*typcheck.Document{"sub.md": sub}

		e := extract(t, doc)

		assert.Equal(t, "Intro.\nSub body.", e.Text)
		require.Len(t, e.Runs, 3)
		assert.Equal(t, "main.md", e.Runs[0].Span.Doc)
		assert.Equal(t, "sub.md", e.Runs[2].Span.Doc)
		assert.Equal(t, typcheck.SourceSpan{Doc: "sub.md", Start: 0, End: 9}, e.Runs[2].Span)
	})

	t.Run("unresolved include emits nothing", func(t *testing.T) {
		t.Parallel()

		doc := typcheck.NewDocument("main.md", []byte("Intro. {{#include \"gone.md\"}} End."))
		e := extract(t, doc)

		assert.Equal(t, "Intro.  End.", e.Text)
	})

	t.Run("ignored directives emit nothing", func(t *testing.T) {
		t.Parallel()

		doc := typcheck.NewDocument("main.md", []byte("Text {{#bibliography refs}} end."))
		e := extract(t, doc, "bibliography")

		assert.Equal(t, "Text  end.", e.Text)
	})

	t.Run("other directives become placeholders", func(t *testing.T) {
		t.Parallel()

		doc := typcheck.NewDocument("main.md", []byte("See {{#cite key}} now."))
		e := extract(t, doc)

		assert.Equal(t, "See # now.", e.Text)
		require.Len(t, e.Runs, 3)
		assert.Equal(t, typcheck.SourceSpan{Doc: "main.md", Start: 4, End: 17}, e.Runs[1].Span)
	})

	t.Run("extraction is deterministic", func(t *testing.T) {
		t.Parallel()

		doc := typcheck.NewDocument("main.md", []byte("# H\n\nSome *emphasis* and `code`.\n\n- item one\n- item two\n"))
		first := extract(t, doc)
		second := extract(t, doc)

		assert.Equal(t, first.Text, second.Text)
		assert.Equal(t, first.Runs, second.Runs)
	})
}
