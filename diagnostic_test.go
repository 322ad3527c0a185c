package typcheck_test

import (
	"testing"

	"github.com/fwojciec/typcheck"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scenarioDocument is the source behind testExtraction:
// "Helo world. $x+1$ more." with $x+1$ replaced by a "#" placeholder.
func scenarioDocument() *typcheck.Document {
	return typcheck.NewDocument("main.md", []byte("Helo world. $x+1$ more."))
}

func TestMapper_Map(t *testing.T) {
	t.Parallel()

	t.Run("maps a verbatim match to its source location", func(t *testing.T) {
		t.Parallel()

		doc := scenarioDocument()
		e := testExtraction()
		m := typcheck.NewMapper(doc, e, nil)
		chunk := typcheck.Chunk{Start: 0, End: len(e.Text), Text: e.Text}

		diagnostics := m.Map(chunk, []typcheck.Match{{
			RuleID:       "MORFOLOGIK_RULE_EN_US",
			Message:      "Possible spelling mistake found.",
			Start:        0,
			End:          4,
			Replacements: []string{"Hello", "Helot"},
		}})

		require.Len(t, diagnostics, 1)
		d := diagnostics[0]
		assert.Equal(t, "main.md", d.Doc)
		assert.Equal(t, typcheck.SourceSpan{Doc: "main.md", Start: 0, End: 4}, d.Span)
		assert.Equal(t, typcheck.Position{Line: 0, Column: 0}, d.Range.Start)
		assert.Equal(t, typcheck.Position{Line: 0, Column: 4}, d.Range.End)
		assert.False(t, d.Truncated)
		assert.Equal(t, typcheck.SeverityInfo, d.Severity)
	})

	t.Run("match on a placeholder covers the whole construct", func(t *testing.T) {
		t.Parallel()

		doc := scenarioDocument()
		e := testExtraction()
		m := typcheck.NewMapper(doc, e, nil)
		chunk := typcheck.Chunk{Start: 0, End: len(e.Text), Text: e.Text}

		diagnostics := m.Map(chunk, []typcheck.Match{{
			RuleID:  "SOME_RULE",
			Message: "finding on the placeholder",
			Start:   12,
			End:     13,
		}})

		require.Len(t, diagnostics, 1)
		assert.Equal(t, typcheck.SourceSpan{Doc: "main.md", Start: 12, End: 17}, diagnostics[0].Span)
	})

	t.Run("match crossing a run boundary is clamped and marked", func(t *testing.T) {
		t.Parallel()

		doc := scenarioDocument()
		e := testExtraction()
		m := typcheck.NewMapper(doc, e, nil)
		chunk := typcheck.Chunk{Start: 0, End: len(e.Text), Text: e.Text}

		diagnostics := m.Map(chunk, []typcheck.Match{{
			RuleID:  "SOME_RULE",
			Message: "spans text and placeholder",
			Start:   5, // "world. #"
			End:     13,
		}})

		require.Len(t, diagnostics, 1)
		d := diagnostics[0]
		assert.True(t, d.Truncated)
		assert.Equal(t, typcheck.SourceSpan{Doc: "main.md", Start: 5, End: 12}, d.Span)
	})

	t.Run("applies chunk offsets", func(t *testing.T) {
		t.Parallel()

		doc := scenarioDocument()
		e := testExtraction()
		m := typcheck.NewMapper(doc, e, nil)
		// Second half of the extracted text as its own chunk.
		chunk := typcheck.Chunk{Start: 14, End: len(e.Text), Text: e.Text[14:]}

		diagnostics := m.Map(chunk, []typcheck.Match{{
			RuleID:  "SOME_RULE",
			Message: "on \"more\"",
			Start:   0,
			End:     4,
		}})

		require.Len(t, diagnostics, 1)
		assert.Equal(t, typcheck.SourceSpan{Doc: "main.md", Start: 18, End: 22}, diagnostics[0].Span)
	})

	t.Run("suppresses disabled rules", func(t *testing.T) {
		t.Parallel()

		doc := scenarioDocument()
		e := testExtraction()
		m := typcheck.NewMapper(doc, e, []string{"WHITESPACE_RULE"})
		chunk := typcheck.Chunk{Start: 0, End: len(e.Text), Text: e.Text}

		diagnostics := m.Map(chunk, []typcheck.Match{
			{RuleID: "WHITESPACE_RULE", Start: 0, End: 1},
			{RuleID: "OTHER_RULE", Start: 0, End: 1},
		})

		require.Len(t, diagnostics, 1)
		assert.Equal(t, "OTHER_RULE", diagnostics[0].RuleID)
	})
}

func TestMapper_Locate(t *testing.T) {
	t.Parallel()

	doc := scenarioDocument()
	e := testExtraction()
	m := typcheck.NewMapper(doc, e, nil)

	span, rng, ok := m.Locate(14)
	require.True(t, ok)
	assert.Equal(t, "main.md", span.Doc)
	assert.Equal(t, 18, span.Start)
	assert.Equal(t, typcheck.Position{Line: 0, Column: 18}, rng.Start)
}

func TestSortDiagnostics(t *testing.T) {
	t.Parallel()

	diagnostics := []typcheck.Diagnostic{
		{Doc: "b.md", Span: typcheck.SourceSpan{Doc: "b.md", Start: 1}},
		{Doc: "a.md", Span: typcheck.SourceSpan{Doc: "a.md", Start: 9}},
		{Doc: "a.md", Span: typcheck.SourceSpan{Doc: "a.md", Start: 2}},
	}

	typcheck.SortDiagnostics(diagnostics)

	assert.Equal(t, 2, diagnostics[0].Span.Start)
	assert.Equal(t, 9, diagnostics[1].Span.Start)
	assert.Equal(t, "b.md", diagnostics[2].Doc)
}
