package typcheck

import (
	"strings"
	"unicode"
)

// ParagraphSeparator is the single character block boundaries are
// normalized to in extracted text. The chunker prefers cutting at it.
const ParagraphSeparator = '\n'

// Chunk is a bounded-size slice of extracted text. Start and End are byte
// offsets into the full extracted text, so a chunk-local match offset
// translates to Start + offset.
type Chunk struct {
	Start int
	End   int
	Text  string
}

// SplitChunks splits extracted text into chunks of at most max bytes.
// Cuts happen at the last paragraph separator within the budget, falling
// back to the last whitespace. A single token longer than max is kept
// whole in one oversized chunk rather than split mid-token; checker
// results inside such a token would be meaningless.
//
// Concatenating the chunk texts in order reproduces the input exactly.
func SplitChunks(text string, max int) []Chunk {
	if text == "" {
		return nil
	}
	if max <= 0 || len(text) <= max {
		return []Chunk{{Start: 0, End: len(text), Text: text}}
	}

	var chunks []Chunk
	pos := 0
	for pos < len(text) {
		rest := text[pos:]
		if len(rest) <= max {
			chunks = append(chunks, Chunk{Start: pos, End: len(text), Text: rest})
			break
		}

		window := rest[:max]
		cut := strings.LastIndexByte(window, ParagraphSeparator)
		if cut < 1 {
			cut = lastSpace(window)
		}

		var end int
		if cut >= 1 {
			end = cut + 1 // keep the separator with the preceding chunk
		} else {
			// Oversized token: extend past the budget to the next
			// whitespace, or to the end of the text.
			ws := strings.IndexFunc(rest[max:], unicode.IsSpace)
			if ws < 0 {
				end = len(rest)
			} else {
				end = max + ws + 1
			}
		}

		chunks = append(chunks, Chunk{Start: pos, End: pos + end, Text: rest[:end]})
		pos += end
	}
	return chunks
}

// lastSpace returns the byte index of the last whitespace rune after the
// first byte of s, or -1.
func lastSpace(s string) int {
	i := strings.LastIndexFunc(s, unicode.IsSpace)
	if i < 1 {
		return -1
	}
	return i
}
