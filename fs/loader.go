// Package fs provides a filesystem-based implementation of typcheck.Loader.
// It reads markup files beneath a project root and resolves
// {{#include "path"}} directives into sub-documents.
package fs

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/fwojciec/typcheck"
)

// includeRE matches include directives as they appear in source text.
var includeRE = regexp.MustCompile(`\{\{#include\s+"([^"]+)"\}\}`)

// Ensure Loader implements typcheck.Loader at compile time.
var _ typcheck.Loader = (*Loader)(nil)

// Loader reads documents from disk. An overlay can shadow files with
// in-memory content so unsaved editor buffers are checked instead of the
// on-disk version. SetOverlay is safe to call while a Load is running.
type Loader struct {
	root string

	mu      sync.RWMutex
	overlay map[string][]byte
}

// Option configures a Loader.
type Option func(*Loader)

// WithOverlay shadows the file at the given root-relative path with
// in-memory content.
func WithOverlay(rel string, content []byte) Option {
	return func(l *Loader) {
		l.overlay[path.Clean(filepath.ToSlash(rel))] = content
	}
}

// NewLoader creates a Loader rooted at the given directory.
func NewLoader(root string, opts ...Option) *Loader {
	l := &Loader{
		root:    root,
		overlay: make(map[string][]byte),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// SetOverlay replaces the overlay content for a root-relative path.
// Passing nil content removes the shadow.
func (l *Loader) SetOverlay(rel string, content []byte) {
	key := path.Clean(filepath.ToSlash(rel))
	l.mu.Lock()
	defer l.mu.Unlock()
	if content == nil {
		delete(l.overlay, key)
		return
	}
	l.overlay[key] = content
}

// Load reads the file at the given root-relative path and resolves its
// includes recursively. Missing files and include cycles return EPARSE.
func (l *Loader) Load(ctx context.Context, rel string) (*typcheck.Document, error) {
	return l.load(ctx, path.Clean(filepath.ToSlash(rel)), make(map[string]bool))
}

func (l *Loader) load(ctx context.Context, rel string, pending map[string]bool) (*typcheck.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pending[rel] {
		return nil, typcheck.Errorf(typcheck.EPARSE, "include cycle through %q", rel)
	}
	pending[rel] = true
	defer delete(pending, rel)

	content, err := l.read(rel)
	if err != nil {
		return nil, err
	}

	doc := typcheck.NewDocument(rel, content)
	for _, m := range includeRE.FindAllSubmatch(content, -1) {
		ref := string(m[1])
		target := resolveRef(rel, ref)
		sub, err := l.load(ctx, target, pending)
		if err != nil {
			return nil, err
		}
		if doc.Includes == nil {
			doc.Includes = make(map[string]*typcheck.Document)
		}
		doc.Includes[ref] = sub
	}
	return doc, nil
}

func (l *Loader) read(rel string) ([]byte, error) {
	l.mu.RLock()
	content, ok := l.overlay[rel]
	l.mu.RUnlock()
	if ok {
		return content, nil
	}
	content, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(rel)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, typcheck.Errorf(typcheck.EPARSE, "included file %q not found", rel)
		}
		return nil, typcheck.Errorf(typcheck.EPARSE, "reading %q: %v", rel, err)
	}
	return content, nil
}

// resolveRef resolves an include reference relative to the including file.
func resolveRef(from, ref string) string {
	return path.Clean(path.Join(path.Dir(from), filepath.ToSlash(ref)))
}
