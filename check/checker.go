// Package check orchestrates a full document check: load, extract,
// chunk, fan out to the backend, and map matches back to source
// locations. It also provides the watch session that debounces edits.
package check

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/typcheck"
	"golang.org/x/sync/errgroup"
)

// TimeoutRuleID marks chunks whose backend request overran its
// deadline. The rest of the document's diagnostics are still reported.
const TimeoutRuleID = "BACKEND_TIMEOUT"

// DefaultConcurrency bounds concurrent backend requests per check.
const DefaultConcurrency = 4

// Checker runs checks. Its dependencies are fixed at construction; the
// configuration travels with each call so a running check is never
// affected by a config update. Safe for concurrent use.
type Checker struct {
	Loader    typcheck.Loader
	Extractor typcheck.Extractor
	Backend   typcheck.Backend

	// Concurrency bounds in-flight backend requests. Zero means
	// DefaultConcurrency.
	Concurrency int

	// Timeout bounds each chunk's backend request. Zero means no
	// per-chunk deadline.
	Timeout time.Duration
}

// Check loads the document at path and checks it.
func (c *Checker) Check(ctx context.Context, path string, cfg typcheck.Config) ([]typcheck.Diagnostic, error) {
	doc, err := c.Loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return c.CheckDocument(ctx, doc, cfg)
}

// CheckDocument checks an already loaded document tree.
//
// Chunks are checked concurrently; diagnostics come back in document
// order regardless of completion order. A chunk that times out yields a
// single TimeoutRuleID diagnostic at the chunk's position while the
// remaining chunks still report normally.
func (c *Checker) CheckDocument(ctx context.Context, doc *typcheck.Document, cfg typcheck.Config) ([]typcheck.Diagnostic, error) {
	extraction, err := c.Extractor.Extract(doc, cfg.IgnoreFunctions)
	if err != nil {
		return nil, err
	}
	if extraction.Text == "" {
		return nil, nil
	}

	lang := cfg.Language
	if lang == "" {
		lang = typcheck.DefaultConfig().Language
	}
	maxChunk := cfg.MaxChunkSize
	if maxChunk <= 0 {
		maxChunk = typcheck.DefaultMaxChunkSize
	}

	chunks := typcheck.SplitChunks(extraction.Text, maxChunk)
	results := make([][]typcheck.Match, len(chunks))
	timedOut := make([]bool, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	g.SetLimit(concurrency)

	for i, chunk := range chunks {
		i, chunk := i, chunk
		g.Go(func() error {
			chunkCtx := gctx
			cancel := context.CancelFunc(func() {})
			if c.Timeout > 0 {
				chunkCtx, cancel = context.WithTimeout(gctx, c.Timeout)
			}
			defer cancel()

			matches, err := c.Backend.Check(chunkCtx, lang, chunk.Text)
			if err != nil {
				if gctx.Err() == nil && timeoutError(err) {
					timedOut[i] = true
					return nil
				}
				return err
			}
			results[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	mapper := typcheck.NewMapper(doc, extraction, cfg.DisabledRules)
	var diagnostics []typcheck.Diagnostic
	for i, chunk := range chunks {
		if timedOut[i] {
			if d, ok := timeoutDiagnostic(mapper, chunk); ok {
				diagnostics = append(diagnostics, d)
			}
			continue
		}
		diagnostics = append(diagnostics, mapper.Map(chunk, results[i])...)
	}

	typcheck.SortDiagnostics(diagnostics)
	return diagnostics, nil
}

func timeoutError(err error) bool {
	return typcheck.ErrorCode(err) == typcheck.ETIMEOUT || errors.Is(err, context.DeadlineExceeded)
}

func timeoutDiagnostic(mapper *typcheck.Mapper, chunk typcheck.Chunk) (typcheck.Diagnostic, bool) {
	span, rng, ok := mapper.Locate(chunk.Start)
	if !ok {
		return typcheck.Diagnostic{}, false
	}
	return typcheck.Diagnostic{
		Doc:      span.Doc,
		Span:     span,
		Range:    rng,
		RuleID:   TimeoutRuleID,
		Message:  "The backend did not answer in time for this part of the document.",
		Severity: typcheck.SeverityWarning,
	}, true
}
