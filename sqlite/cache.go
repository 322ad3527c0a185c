package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/fwojciec/typcheck"
)

// Compile-time interface verification.
var _ typcheck.MatchCache = (*CacheService)(nil)

// CacheService implements typcheck.MatchCache using SQLite, so cached
// results survive restarts of a watch session.
type CacheService struct {
	db *DB
}

// NewCacheService creates a new CacheService.
func NewCacheService(db *DB) *CacheService {
	return &CacheService{db: db}
}

// Get returns the cached matches for key, if any.
func (s *CacheService) Get(ctx context.Context, key string) ([]typcheck.Match, bool, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `
		SELECT matches FROM check_cache WHERE key = ?
	`, key).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var matches []typcheck.Match
	if err := json.Unmarshal([]byte(payload), &matches); err != nil {
		return nil, false, typcheck.Errorf(typcheck.EINTERNAL, "sqlite: decoding cached matches: %v", err)
	}
	return matches, true, nil
}

// Put stores matches under key, replacing any previous entry.
func (s *CacheService) Put(ctx context.Context, key string, matches []typcheck.Match) error {
	payload, err := json.Marshal(matches)
	if err != nil {
		return typcheck.Errorf(typcheck.EINTERNAL, "sqlite: encoding matches: %v", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO check_cache (key, matches, created_at)
		VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET matches = excluded.matches, created_at = excluded.created_at
	`, key, string(payload), time.Now().UTC().Format(time.RFC3339))

	return err
}

// Prune removes entries created before cutoff and returns how many
// were deleted.
func (s *CacheService) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM check_cache WHERE created_at < ?
	`, cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
