// Package goldmark provides a goldmark-based implementation of
// typcheck.Extractor for Markdown documents. The goldmark AST exposes
// byte-exact source segments, which makes the extraction lossless with
// respect to position tracking.
package goldmark

import (
	"regexp"
	"strings"

	"github.com/fwojciec/typcheck"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Placeholder substitutes constructs that occupy prose space but carry no
// checkable text (inline math, code spans, unknown directives). Fixed
// width keeps offset bookkeeping trivial.
const Placeholder = "#"

// directiveRE matches {{#name args}} directives inside text runs.
var directiveRE = regexp.MustCompile(`\{\{#(\w+)([^{}]*)\}\}`)

// Ensure Extractor implements typcheck.Extractor at compile time.
var _ typcheck.Extractor = (*Extractor)(nil)

// Extractor extracts plain text and source runs from Markdown documents.
// It is safe for concurrent use.
type Extractor struct {
	md goldmark.Markdown
}

// NewExtractor creates an Extractor with math parsing enabled.
func NewExtractor() *Extractor {
	return &Extractor{
		md: goldmark.New(goldmark.WithExtensions(MathExtension)),
	}
}

// Extract walks the parsed document tree depth-first in document order,
// splicing included sub-documents at their inclusion points.
func (e *Extractor) Extract(doc *typcheck.Document, ignoreFunctions []string) (*typcheck.Extraction, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	b := &builder{ex: e, ignore: make(map[string]struct{}, len(ignoreFunctions))}
	for _, name := range ignoreFunctions {
		b.ignore[name] = struct{}{}
	}

	b.document(doc)

	return &typcheck.Extraction{Text: b.text.String(), Runs: b.runs}, nil
}

// builder accumulates the extracted text and its runs for one extraction.
type builder struct {
	ex     *Extractor
	ignore map[string]struct{}

	text strings.Builder
	runs []typcheck.TextRun

	// position of the last emitted byte, used to anchor separator runs
	lastDoc string
	lastEnd int

	sepPending bool
}

func (b *builder) document(doc *typcheck.Document) {
	root := b.ex.md.Parser().Parse(text.NewReader(doc.Content))
	for c := root.FirstChild(); c != nil; c = c.NextSibling() {
		b.block(doc, c)
	}
}

func (b *builder) block(doc *typcheck.Document, n ast.Node) {
	switch n.Kind() {
	case ast.KindFencedCodeBlock, ast.KindCodeBlock, ast.KindHTMLBlock, ast.KindThematicBreak:
		// non-prose blocks emit nothing

	case ast.KindParagraph, ast.KindTextBlock, ast.KindHeading:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			b.inline(doc, c)
		}
		b.blockBreak()

	default:
		// containers (blockquote, list, list item) and unknown kinds:
		// traverse children, emit nothing extra
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			b.block(doc, c)
		}
	}
}

func (b *builder) inline(doc *typcheck.Document, n ast.Node) {
	switch n.Kind() {
	case ast.KindText:
		t := n.(*ast.Text)
		b.textSegment(doc, t.Segment)
		if t.SoftLineBreak() || t.HardLineBreak() {
			b.lineBreak(doc, t.Segment.Stop)
		}

	case KindMath:
		m := n.(*Math)
		if m.Display {
			b.blockBreak()
			return
		}
		b.substitute(typcheck.SourceSpan{Doc: doc.ID, Start: m.Segment.Start, End: m.Segment.Stop}, Placeholder)

	case ast.KindCodeSpan:
		if span, ok := childExtent(doc, n); ok {
			b.substitute(span, Placeholder)
		}

	case ast.KindRawHTML, ast.KindImage, ast.KindAutoLink:
		// no prose

	default:
		// emphasis, links, unknown inline kinds: traverse children
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			b.inline(doc, c)
		}
	}
}

// textSegment emits a text segment verbatim, handling any {{#...}}
// directives it contains.
func (b *builder) textSegment(doc *typcheck.Document, seg text.Segment) {
	source := doc.Content[seg.Start:seg.Stop]
	pos := 0
	for _, idx := range directiveRE.FindAllSubmatchIndex(source, -1) {
		b.verbatim(doc, seg.Start+pos, seg.Start+idx[0])
		b.directive(doc,
			typcheck.SourceSpan{Doc: doc.ID, Start: seg.Start + idx[0], End: seg.Start + idx[1]},
			string(source[idx[2]:idx[3]]),
			string(source[idx[4]:idx[5]]),
		)
		pos = idx[1]
	}
	b.verbatim(doc, seg.Start+pos, seg.Stop)
}

func (b *builder) directive(doc *typcheck.Document, span typcheck.SourceSpan, name, args string) {
	if name == "include" {
		ref := strings.Trim(strings.TrimSpace(args), `"`)
		sub, ok := doc.Include(ref)
		if !ok {
			// unresolved include (e.g. a bare buffer check): emit nothing
			return
		}
		b.blockBreak()
		b.document(sub)
		b.blockBreak()
		return
	}
	if _, ok := b.ignore[name]; ok {
		return
	}
	b.substitute(span, Placeholder)
}

// verbatim emits doc content [start, end) unchanged.
func (b *builder) verbatim(doc *typcheck.Document, start, end int) {
	if start >= end {
		return
	}
	b.emit(typcheck.SourceSpan{Doc: doc.ID, Start: start, End: end}, string(doc.Content[start:end]), false)
}

// lineBreak emits a single space for the newline byte following a line.
func (b *builder) lineBreak(doc *typcheck.Document, offset int) {
	end := offset
	if end < len(doc.Content) {
		end++
	}
	b.substitute(typcheck.SourceSpan{Doc: doc.ID, Start: offset, End: end}, " ")
}

// blockBreak requests a paragraph separator before the next emitted run.
func (b *builder) blockBreak() {
	b.sepPending = true
}

// substitute emits a run whose text replaces the span's construct.
func (b *builder) substitute(span typcheck.SourceSpan, text string) {
	b.emit(span, text, true)
}

func (b *builder) emit(span typcheck.SourceSpan, text string, substituted bool) {
	if text == "" {
		return
	}
	if b.sepPending && b.text.Len() > 0 {
		sep := typcheck.SourceSpan{Doc: b.lastDoc, Start: b.lastEnd, End: b.lastEnd}
		b.runs = append(b.runs, typcheck.TextRun{Span: sep, Text: string(typcheck.ParagraphSeparator), Substituted: true})
		b.text.WriteByte(typcheck.ParagraphSeparator)
	}
	b.sepPending = false
	b.runs = append(b.runs, typcheck.TextRun{Span: span, Text: text, Substituted: substituted})
	b.text.WriteString(text)
	b.lastDoc, b.lastEnd = span.Doc, span.End
}

// childExtent returns the source span covered by a node's text children.
func childExtent(doc *typcheck.Document, n ast.Node) (typcheck.SourceSpan, bool) {
	first, ok := n.FirstChild().(*ast.Text)
	if !ok {
		return typcheck.SourceSpan{}, false
	}
	last, ok := n.LastChild().(*ast.Text)
	if !ok {
		return typcheck.SourceSpan{}, false
	}
	return typcheck.SourceSpan{Doc: doc.ID, Start: first.Segment.Start, End: last.Segment.Stop}, true
}
