// Package bloom provides a probabilistic known-word filter used by the
// bundled spellchecker to short-circuit dictionary lookups.
package bloom

import (
	"strings"

	"github.com/bits-and-blooms/bloom/v3"
)

// WordSet answers "might this word be known?". Words are matched
// case-insensitively.
type WordSet struct {
	f *bloom.BloomFilter
}

// NewWordSet creates a filter sized for n expected words with the given
// false positive rate.
func NewWordSet(n uint, fpRate float64) *WordSet {
	return &WordSet{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add registers a word.
func (s *WordSet) Add(word string) {
	s.f.AddString(strings.ToLower(word))
}

// Test returns true if the word might be known.
// False positives are possible; false negatives are not.
func (s *WordSet) Test(word string) bool {
	return s.f.TestString(strings.ToLower(word))
}

// EstimatedCount returns the approximate number of words in the filter.
func (s *WordSet) EstimatedCount() uint {
	return uint(s.f.ApproximatedSize())
}
