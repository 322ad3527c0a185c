package mock

import "github.com/fwojciec/typcheck"

var _ typcheck.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of typcheck.Extractor.
type Extractor struct {
	ExtractFn func(doc *typcheck.Document, ignoreFunctions []string) (*typcheck.Extraction, error)
}

func (e *Extractor) Extract(doc *typcheck.Document, ignoreFunctions []string) (*typcheck.Extraction, error) {
	return e.ExtractFn(doc, ignoreFunctions)
}
