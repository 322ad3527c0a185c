// Package fuzzy provides an in-process spellchecking typcheck.Backend.
// It is a lightweight offline substitute for a LanguageTool server:
// it only finds unknown words and offers edit-distance suggestions.
package fuzzy

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/fwojciec/typcheck"
	"github.com/fwojciec/typcheck/bloom"
	"github.com/sajari/fuzzy"
)

// RuleID identifies matches produced by this backend.
const RuleID = "SPELLING"

const maxSuggestions = 5

// Ensure Backend implements typcheck.Backend at compile time.
var _ typcheck.Backend = (*Backend)(nil)

// Backend flags words absent from its dictionary. Safe for concurrent
// use; the language argument to Check is ignored since the dictionary
// determines the language.
type Backend struct {
	mu       sync.Mutex
	model    *fuzzy.Model
	known    map[string]struct{}
	set      *bloom.WordSet
	disabled map[string]struct{}
}

// NewBackend creates a Backend trained on the given word list.
func NewBackend(words []string) *Backend {
	model := fuzzy.NewModel()
	model.SetDepth(2)
	model.SetThreshold(1)

	b := &Backend{
		model:    model,
		known:    make(map[string]struct{}, len(words)),
		set:      bloom.NewWordSet(uint(max(len(words), 1024)), 0.01),
		disabled: make(map[string]struct{}),
	}
	b.train(words)
	return b
}

func (b *Backend) train(words []string) {
	for _, word := range words {
		lower := strings.ToLower(strings.TrimSpace(word))
		if lower == "" {
			continue
		}
		if _, ok := b.known[lower]; ok {
			continue
		}
		b.known[lower] = struct{}{}
		b.set.Add(lower)
		b.model.TrainWord(lower)
	}
}

// Check tokenizes text and reports words not in the dictionary.
func (b *Backend) Check(_ context.Context, _ string, text string) ([]typcheck.Match, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, off := b.disabled[RuleID]; off {
		return nil, nil
	}

	var matches []typcheck.Match
	for _, tok := range tokenize(text) {
		lower := strings.ToLower(tok.text)
		// The filter has no false negatives, so a miss means the word
		// is definitely unknown and the map lookup can be skipped.
		if b.set.Test(lower) {
			if _, ok := b.known[lower]; ok {
				continue
			}
		}
		suggestions := b.model.Suggestions(lower, false)
		if len(suggestions) > maxSuggestions {
			suggestions = suggestions[:maxSuggestions]
		}
		matches = append(matches, typcheck.Match{
			RuleID:       RuleID,
			Message:      fmt.Sprintf("Unknown word %q.", tok.text),
			Start:        tok.start,
			End:          tok.end,
			Replacements: suggestions,
			Severity:     typcheck.SeverityError,
		})
	}
	return matches, nil
}

// Configure extends the dictionary and updates the disabled rule set.
func (b *Backend) Configure(_ context.Context, cfg typcheck.BackendConfig) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.train(cfg.Dictionary)
	b.disabled = make(map[string]struct{}, len(cfg.DisabledRules))
	for _, rule := range cfg.DisabledRules {
		b.disabled[rule] = struct{}{}
	}
	return nil
}

// Shutdown is a no-op.
func (b *Backend) Shutdown(context.Context) error {
	return nil
}

type token struct {
	text       string
	start, end int
}

// tokenize returns candidate words with their byte offsets. Tokens
// containing digits (identifiers, versions) and single letters are not
// worth spellchecking.
func tokenize(text string) []token {
	var tokens []token
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		word := strings.Trim(text[start:end], "'")
		offset := start + strings.Index(text[start:end], word)
		start = -1
		if len([]rune(word)) < 2 {
			return
		}
		if strings.ContainsFunc(word, unicode.IsDigit) {
			return
		}
		tokens = append(tokens, token{text: word, start: offset, end: offset + len(word)})
	}

	for i, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '\'' {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))
	return tokens
}
