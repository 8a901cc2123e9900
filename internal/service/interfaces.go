// Package service defines the interfaces shared across application layers.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
)

// TermKey addresses one cached classification. Two raw texts that normalize
// identically share an entry; changing any of the model, taxonomy, or prompt
// versions addresses a different entry.
type TermKey struct {
	Term            string
	Model           string
	TaxonomyVersion string
	PromptVersion   string
}

// NormalizeTerm trims the text, collapses internal whitespace runs to single
// spaces, and lowercases the result.
func NormalizeTerm(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Normalized returns a copy of the key with the term normalized.
func (k TermKey) Normalized() TermKey {
	k.Term = NormalizeTerm(k.Term)
	return k
}

// TermStore is the persistence contract for the term cache. Get returns a
// not-found error when no entry exists; Put is an unconditional upsert where
// the last write for a key wins.
type TermStore interface {
	GetTerm(ctx context.Context, key TermKey) (*model.FieldObservation, error)
	PutTerm(ctx context.Context, key TermKey, obs *model.FieldObservation) error
	Close() error
}

// CacheStats summarizes the entries stored under one version triple.
type CacheStats struct {
	Model           string
	TaxonomyVersion string
	PromptVersion   string
	Entries         int
	Errors          int
}

// StatsStore is implemented by term stores that can report and purge
// version-scoped entries. Entries under superseded version triples are
// unreachable garbage; purging them is an operator action, never automatic.
type StatsStore interface {
	Stats(ctx context.Context) ([]CacheStats, error)
	PurgeVersions(ctx context.Context, keep TermKey) (int64, error)
}

// FieldClassifier turns one field's raw text into a sanitized observation.
// Implementations never return an error: classification failures are
// recorded on the observation itself so one bad field cannot abort a record.
type FieldClassifier interface {
	ClassifyField(ctx context.Context, field, text string) model.FieldObservation
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
