package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/service"
)

// validateKey ensures every component of the cache key is present. The term
// is normalized by callers before it reaches the store.
func validateKey(key service.TermKey) error {
	if key.Term == "" {
		return fmt.Errorf("%w: empty term", ErrInvalidKey)
	}
	if key.Model == "" || key.TaxonomyVersion == "" || key.PromptVersion == "" {
		return fmt.Errorf("%w: model, taxonomy and prompt versions are required", ErrInvalidKey)
	}
	return nil
}

// GetTerm returns the cached observation for a key, or ErrNotFound.
func (s *SQLiteStore) GetTerm(ctx context.Context, key service.TermKey) (*model.FieldObservation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	key = key.Normalized()
	if err := validateKey(key); err != nil {
		return nil, err
	}

	var resultJSON string
	err := s.db.QueryRowContext(ctx, `
		SELECT result_json
		FROM term_cache
		WHERE norm_term = ? AND model = ? AND taxonomy_version = ? AND prompt_version = ?`,
		key.Term, key.Model, key.TaxonomyVersion, key.PromptVersion,
	).Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key.Term)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query term cache: %w", err)
	}

	var obs model.FieldObservation
	if err := json.Unmarshal([]byte(resultJSON), &obs); err != nil {
		return nil, fmt.Errorf("failed to decode cached observation: %w", err)
	}
	if obs.Candidates == nil {
		obs.Candidates = model.CandidateList{}
	}

	return &obs, nil
}

// PutTerm stores an observation under a key. The write is an unconditional
// upsert: the last write for a given key wins.
func (s *SQLiteStore) PutTerm(ctx context.Context, key service.TermKey, obs *model.FieldObservation) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if obs == nil {
		return fmt.Errorf("%w: observation", ErrNilParameter)
	}
	key = key.Normalized()
	if err := validateKey(key); err != nil {
		return err
	}

	resultJSON, err := json.Marshal(obs)
	if err != nil {
		return fmt.Errorf("failed to encode observation: %w", err)
	}

	hasError := 0
	if obs.Err != "" {
		hasError = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO term_cache (norm_term, model, taxonomy_version, prompt_version, result_json, has_error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (norm_term, model, taxonomy_version, prompt_version)
		DO UPDATE SET result_json = excluded.result_json,
			has_error = excluded.has_error,
			created_at = CURRENT_TIMESTAMP`,
		key.Term, key.Model, key.TaxonomyVersion, key.PromptVersion, string(resultJSON), hasError)
	if err != nil {
		return fmt.Errorf("failed to upsert term cache entry: %w", err)
	}

	return nil
}

// Stats reports entry counts grouped by (model, taxonomy, prompt) triple.
func (s *SQLiteStore) Stats(ctx context.Context) ([]service.CacheStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT model, taxonomy_version, prompt_version, COUNT(*), SUM(has_error)
		FROM term_cache
		GROUP BY model, taxonomy_version, prompt_version
		ORDER BY model, taxonomy_version, prompt_version`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats []service.CacheStats
	for rows.Next() {
		var st service.CacheStats
		if err := rows.Scan(&st.Model, &st.TaxonomyVersion, &st.PromptVersion, &st.Entries, &st.Errors); err != nil {
			return nil, fmt.Errorf("failed to scan cache stats: %w", err)
		}
		stats = append(stats, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cache stats: %w", err)
	}

	return stats, nil
}

// PurgeVersions deletes every entry whose version triple differs from the
// one in keep. Entries under old versions are unreachable after a version
// bump; this reclaims them on demand.
func (s *SQLiteStore) PurgeVersions(ctx context.Context, keep service.TermKey) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if keep.Model == "" || keep.TaxonomyVersion == "" || keep.PromptVersion == "" {
		return 0, fmt.Errorf("%w: model, taxonomy and prompt versions are required", ErrInvalidKey)
	}

	res, err := s.db.ExecContext(ctx, `
		DELETE FROM term_cache
		WHERE NOT (model = ? AND taxonomy_version = ? AND prompt_version = ?)`,
		keep.Model, keep.TaxonomyVersion, keep.PromptVersion)
	if err != nil {
		return 0, fmt.Errorf("failed to purge cache entries: %w", err)
	}

	purged, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count purged entries: %w", err)
	}
	return purged, nil
}
