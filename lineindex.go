package typcheck

import (
	"sort"
	"unicode/utf8"
)

// LineIndex translates byte offsets within one document's content into
// line/column positions. The line-start table is built on first use.
// Offsets at or past end-of-file clamp to the last valid position.
type LineIndex struct {
	content []byte
	starts  []int
}

// NewLineIndex returns a LineIndex over the given content.
func NewLineIndex(content []byte) *LineIndex {
	return &LineIndex{content: content}
}

// Position returns the 0-based line and rune column for a byte offset.
func (ix *LineIndex) Position(offset int) Position {
	if ix.starts == nil {
		ix.build()
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(ix.content) {
		offset = len(ix.content)
	}
	// Last line starting at or before offset.
	line := sort.SearchInts(ix.starts, offset+1) - 1
	column := utf8.RuneCount(ix.content[ix.starts[line]:offset])
	return Position{Line: line, Column: column}
}

func (ix *LineIndex) build() {
	ix.starts = append(ix.starts, 0)
	for i, b := range ix.content {
		if b == '\n' {
			ix.starts = append(ix.starts, i+1)
		}
	}
}
