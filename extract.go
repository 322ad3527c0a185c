package typcheck

import "sort"

// TextRun is a contiguous slice of the extracted plain text together with
// the source span it originates from. For verbatim runs the text matches
// the source bytes exactly; for substituted runs (placeholders, paragraph
// separators) the span covers the construct that was replaced.
type TextRun struct {
	Span SourceSpan
	Text string

	// Substituted marks runs whose text stands in for the span's construct
	// rather than copying its bytes. Lengths can coincide (a 1-byte code
	// span and its placeholder), so this is recorded explicitly.
	Substituted bool
}

// Verbatim reports whether the run's text is a byte-exact copy of its span.
func (r TextRun) Verbatim() bool {
	return !r.Substituted
}

// Extraction is the plain text extracted from a document tree plus the
// ordered runs that produced it. The concatenation of all run texts, in
// order, equals Text: runs partition the extracted text with no gaps or
// overlaps.
type Extraction struct {
	Text string
	Runs []TextRun

	starts []int // lazily built run start offsets
}

// RunAt returns the run covering the given byte offset into Text, along
// with the run's start offset. Returns false if the offset is out of range.
func (e *Extraction) RunAt(offset int) (TextRun, int, bool) {
	if offset < 0 || offset >= len(e.Text) || len(e.Runs) == 0 {
		return TextRun{}, 0, false
	}
	if e.starts == nil {
		e.starts = make([]int, len(e.Runs))
		pos := 0
		for i, run := range e.Runs {
			e.starts[i] = pos
			pos += len(run.Text)
		}
	}
	// First run starting after offset; the covering run precedes it.
	i := sort.SearchInts(e.starts, offset+1) - 1
	return e.Runs[i], e.starts[i], true
}

// Validate checks the partition invariant: run texts concatenate to Text
// and every span is well-formed.
func (e *Extraction) Validate() error {
	pos := 0
	for i, run := range e.Runs {
		if run.Span.Start > run.Span.End {
			return Errorf(EINTERNAL, "run %d has inverted span %d..%d", i, run.Span.Start, run.Span.End)
		}
		end := pos + len(run.Text)
		if end > len(e.Text) || e.Text[pos:end] != run.Text {
			return Errorf(EINTERNAL, "run %d does not match extracted text at offset %d", i, pos)
		}
		pos = end
	}
	if pos != len(e.Text) {
		return Errorf(EINTERNAL, "runs cover %d of %d extracted bytes", pos, len(e.Text))
	}
	return nil
}

// Extractor produces a plain-text stream and its source runs from a
// document snapshot. Content of constructs named in ignoreFunctions is
// excluded from the output. Extraction is deterministic: an unchanged
// document yields an identical extraction.
type Extractor interface {
	Extract(doc *Document, ignoreFunctions []string) (*Extraction, error)
}
