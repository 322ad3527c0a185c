package typcheck

import (
	"context"

	"github.com/cespare/xxhash/v2"
)

// Position is a location within a document: 0-based line, 0-based column.
// Columns count Unicode code points, not bytes.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a half-open position range within one document.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// SourceSpan is a half-open byte range into one document's raw content.
// It never crosses document boundaries.
type SourceSpan struct {
	Doc   string `json:"doc"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// Len returns the number of bytes covered by the span.
func (s SourceSpan) Len() int {
	return s.End - s.Start
}

// Document is an immutable snapshot of a markup source file together with
// its resolved includes. Checks run against a snapshot while the editor
// continues to mutate its own buffer.
type Document struct {
	// ID identifies the file, usually a path relative to the project root.
	ID string

	// Content is the raw source bytes.
	Content []byte

	// Hash is the xxHash of Content, used for caching and change detection.
	Hash uint64

	// Includes maps include references, as written in the source, to the
	// sub-documents they resolve to.
	Includes map[string]*Document
}

// NewDocument returns a Document snapshot for the given content.
func NewDocument(id string, content []byte) *Document {
	return &Document{
		ID:      id,
		Content: content,
		Hash:    xxhash.Sum64(content),
	}
}

// Include returns the sub-document for an include reference as written in
// the source, or false if the reference was not resolved.
func (d *Document) Include(ref string) (*Document, bool) {
	sub, ok := d.Includes[ref]
	return sub, ok
}

// Validate returns an error if the document contains invalid fields.
func (d *Document) Validate() error {
	if d.ID == "" {
		return Errorf(EINVALID, "document ID required")
	}
	return nil
}

// Walk calls fn for the document and every transitively included
// sub-document.
func (d *Document) Walk(fn func(*Document)) {
	fn(d)
	for _, sub := range d.Includes {
		sub.Walk(fn)
	}
}

// Loader assembles Document snapshots from storage, resolving includes
// recursively. A failed include resolution (missing file, cycle) is an
// EPARSE error.
type Loader interface {
	Load(ctx context.Context, path string) (*Document, error)
}
