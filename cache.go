package typcheck

import (
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// MatchCache stores backend results keyed by chunk content so unchanged
// chunks skip the backend entirely on re-check.
type MatchCache interface {
	// Get returns the cached matches for a key and whether the key exists.
	Get(ctx context.Context, key string) ([]Match, bool, error)

	// Put stores matches for a key, replacing any previous entry.
	Put(ctx context.Context, key string, matches []Match) error
}

// Ensure CachingBackend implements Backend at compile time.
var _ Backend = (*CachingBackend)(nil)

// CachingBackend wraps a Backend with a MatchCache. Cache keys include the
// language and a fingerprint of the applied config, so a dictionary or
// rule change invalidates prior entries naturally.
type CachingBackend struct {
	next  Backend
	cache MatchCache

	mu          sync.Mutex
	fingerprint uint64
}

// NewCachingBackend returns a caching decorator over next.
func NewCachingBackend(next Backend, cache MatchCache) *CachingBackend {
	return &CachingBackend{next: next, cache: cache}
}

// Check serves matches from the cache when possible, delegating misses.
// Cache failures degrade to a direct backend call.
func (b *CachingBackend) Check(ctx context.Context, lang string, text string) ([]Match, error) {
	key := b.key(lang, text)
	if matches, ok, err := b.cache.Get(ctx, key); err == nil && ok {
		return matches, nil
	}

	matches, err := b.next.Check(ctx, lang, text)
	if err != nil {
		return nil, err
	}
	if err := b.cache.Put(ctx, key, matches); err != nil {
		// A failed write only costs a future cache miss.
		return matches, nil
	}
	return matches, nil
}

// Configure refreshes the config fingerprint and delegates.
func (b *CachingBackend) Configure(ctx context.Context, cfg BackendConfig) error {
	d := xxhash.New()
	_, _ = d.WriteString(strings.Join(cfg.Dictionary, "\x00"))
	_, _ = d.WriteString("\x01")
	_, _ = d.WriteString(strings.Join(cfg.DisabledRules, "\x00"))

	b.mu.Lock()
	b.fingerprint = d.Sum64()
	b.mu.Unlock()

	return b.next.Configure(ctx, cfg)
}

// Shutdown delegates to the wrapped backend.
func (b *CachingBackend) Shutdown(ctx context.Context) error {
	return b.next.Shutdown(ctx)
}

func (b *CachingBackend) key(lang, text string) string {
	b.mu.Lock()
	fp := b.fingerprint
	b.mu.Unlock()

	d := xxhash.New()
	_, _ = d.WriteString(lang)
	_, _ = d.WriteString("\x01")
	_, _ = d.WriteString(strconv.FormatUint(fp, 16))
	_, _ = d.WriteString("\x01")
	_, _ = d.WriteString(text)
	return strconv.FormatUint(d.Sum64(), 16)
}
