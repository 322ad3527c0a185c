package typcheck

import "sort"

// Diagnostic is a backend finding translated to a source-level location.
type Diagnostic struct {
	Doc             string     `json:"doc"`
	Span            SourceSpan `json:"span"`
	Range           Range      `json:"range"`
	RuleID          string     `json:"ruleId"`
	RuleDescription string     `json:"ruleDescription,omitempty"`
	Message         string     `json:"message"`
	Replacements    []string   `json:"replacements,omitempty"`
	Severity        Severity   `json:"severity"`

	// Truncated marks a diagnostic whose match crossed an extraction run
	// boundary; the span is clamped to the run containing the match start.
	Truncated bool `json:"truncated,omitempty"`
}

// Mapper translates chunk-local matches into source diagnostics using the
// extraction's runs and per-document line indexes. A Mapper is built per
// check against a frozen document snapshot and is not safe for concurrent
// use.
type Mapper struct {
	extraction *Extraction
	indexes    map[string]*LineIndex
	disabled   map[string]struct{}
}

// NewMapper returns a Mapper for one check of the given document tree.
func NewMapper(root *Document, extraction *Extraction, disabledRules []string) *Mapper {
	indexes := make(map[string]*LineIndex)
	root.Walk(func(d *Document) {
		indexes[d.ID] = NewLineIndex(d.Content)
	})
	disabled := make(map[string]struct{}, len(disabledRules))
	for _, id := range disabledRules {
		disabled[id] = struct{}{}
	}
	return &Mapper{extraction: extraction, indexes: indexes, disabled: disabled}
}

// Map translates matches reported for one chunk into diagnostics.
// Matches for disabled rules are suppressed. A match crossing a run
// boundary is anchored to the run containing its start offset and clamped
// to that run's span.
func (m *Mapper) Map(chunk Chunk, matches []Match) []Diagnostic {
	var diagnostics []Diagnostic
	for _, match := range matches {
		if _, ok := m.disabled[match.RuleID]; ok {
			continue
		}

		abs := chunk.Start + match.Start
		run, runStart, ok := m.extraction.RunAt(abs)
		if !ok {
			continue
		}

		length := match.End - match.Start
		offset := abs - runStart
		truncated := offset+length > len(run.Text)

		var span SourceSpan
		if run.Verbatim() {
			span = SourceSpan{
				Doc:   run.Span.Doc,
				Start: run.Span.Start + offset,
				End:   run.Span.Start + offset + length,
			}
			if span.End > run.Span.End {
				span.End = run.Span.End
			}
		} else {
			// A match on substituted text (placeholder, separator) resolves
			// to the whole replaced construct.
			span = run.Span
		}

		severity := match.Severity
		if severity == "" {
			severity = SeverityInfo
		}

		diagnostics = append(diagnostics, Diagnostic{
			Doc:             span.Doc,
			Span:            span,
			Range:           m.rangeFor(span),
			RuleID:          match.RuleID,
			RuleDescription: match.RuleDescription,
			Message:         match.Message,
			Replacements:    match.Replacements,
			Severity:        severity,
			Truncated:       truncated,
		})
	}
	return diagnostics
}

// Locate resolves an extracted-text offset to its source span and range.
// Used for chunk-level markers such as backend timeouts.
func (m *Mapper) Locate(offset int) (SourceSpan, Range, bool) {
	run, runStart, ok := m.extraction.RunAt(offset)
	if !ok {
		return SourceSpan{}, Range{}, false
	}
	start := run.Span.Start
	if run.Verbatim() {
		start += offset - runStart
	}
	span := SourceSpan{Doc: run.Span.Doc, Start: start, End: start}
	return span, m.rangeFor(span), true
}

func (m *Mapper) rangeFor(span SourceSpan) Range {
	ix, ok := m.indexes[span.Doc]
	if !ok {
		return Range{}
	}
	return Range{
		Start: ix.Position(span.Start),
		End:   ix.Position(span.End),
	}
}

// SortDiagnostics orders diagnostics deterministically by document, span,
// and rule, regardless of chunk completion order.
func SortDiagnostics(diagnostics []Diagnostic) {
	sort.SliceStable(diagnostics, func(i, j int) bool {
		a, b := diagnostics[i], diagnostics[j]
		if a.Doc != b.Doc {
			return a.Doc < b.Doc
		}
		if a.Span.Start != b.Span.Start {
			return a.Span.Start < b.Span.Start
		}
		if a.Span.End != b.Span.End {
			return a.Span.End < b.Span.End
		}
		return a.RuleID < b.RuleID
	})
}
