package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/service"
)

// MemoryStore is an in-memory service.TermStore. It backs tests and the
// single-title demo, where persistence across runs is not wanted.
type MemoryStore struct {
	entries map[service.TermKey]model.FieldObservation
	mu      sync.RWMutex
}

// NewMemoryStore creates an empty in-memory term store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[service.TermKey]model.FieldObservation),
	}
}

// GetTerm returns the cached observation for a key, or ErrNotFound.
func (m *MemoryStore) GetTerm(ctx context.Context, key service.TermKey) (*model.FieldObservation, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	key = key.Normalized()
	if err := validateKey(key); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	obs, ok := m.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, key.Term)
	}

	// Return a copy so callers cannot mutate the stored value.
	out := obs
	out.Candidates = make(model.CandidateList, len(obs.Candidates))
	copy(out.Candidates, obs.Candidates)
	return &out, nil
}

// PutTerm stores an observation under a key, replacing any prior value.
func (m *MemoryStore) PutTerm(ctx context.Context, key service.TermKey, obs *model.FieldObservation) error {
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

	stored := *obs
	stored.Candidates = make(model.CandidateList, len(obs.Candidates))
	copy(stored.Candidates, obs.Candidates)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = stored
	return nil
}

// Size returns the number of stored entries.
func (m *MemoryStore) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error {
	return nil
}
