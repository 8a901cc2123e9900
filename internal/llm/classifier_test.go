package llm

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/service"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/storage"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/taxonomy"
)

// mockClient returns canned responses and counts calls.
type mockClient struct {
	err      error
	response string
	calls    int
}

func (m *mockClient) Complete(_ context.Context, _ string) (string, error) {
	m.calls++
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

func newTestClassifier(t *testing.T, client Client, store service.TermStore) *FieldClassifier {
	t.Helper()
	cfg := Config{
		Model:      "test-model",
		MaxRetries: 1,
		RetryDelay: time.Millisecond,
		RateLimit:  100000,
	}
	c := NewFieldClassifier(cfg, client, store, taxonomy.Default(), "v1", slog.Default())
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestClassifyField_EmptyTextSkipsProvider(t *testing.T) {
	client := &mockClient{}
	c := newTestClassifier(t, client, storage.NewMemoryStore())

	obs := c.ClassifyField(context.Background(), model.FieldRoleTitle, "")

	assert.Equal(t, 0, client.calls)
	assert.False(t, obs.HasCandidates())
	assert.Empty(t, obs.Err)
}

func TestClassifyField_SanitizesResponse(t *testing.T) {
	client := &mockClient{response: `{
		"field": "role_title",
		"text": "Senior SDET",
		"candidates": [
			{"canonical_role": "SDET (Software Development Engineer in Test)", "confidence": 0.9},
			{"canonical_role": "Ninja Developer", "confidence": 0.8},
			{"canonical_role": "QA Engineer (Automation)", "confidence": 0.05},
			{"canonical_role": "Performance Test Engineer", "confidence": "0.3"},
			{"canonical_role": "Backend Engineer", "confidence": "high"}
		],
		"level": 4,
		"specialization": "  test automation  "
	}`}
	c := newTestClassifier(t, client, storage.NewMemoryStore())

	obs := c.ClassifyField(context.Background(), model.FieldRoleTitle, "Senior SDET")

	// Non-canonical roles, sub-floor confidences, and uncoercible
	// confidences are dropped; the rest survive sorted.
	require.Len(t, obs.Candidates, 2)
	assert.Equal(t, "SDET (Software Development Engineer in Test)", obs.Candidates[0].Role)
	assert.Equal(t, "Performance Test Engineer", obs.Candidates[1].Role)
	assert.InDelta(t, 0.3, obs.Candidates[1].Confidence, 1e-9)

	require.NotNil(t, obs.Level)
	assert.Equal(t, 4, *obs.Level)
	assert.Equal(t, "test automation", obs.Specialization)
	assert.Empty(t, obs.Err)
}

func TestClassifyField_TruncatesToTopThree(t *testing.T) {
	client := &mockClient{response: `{
		"candidates": [
			{"canonical_role": "Backend Engineer", "confidence": 0.9},
			{"canonical_role": "Frontend Engineer", "confidence": 0.8},
			{"canonical_role": "Full Stack Engineer", "confidence": 0.7},
			{"canonical_role": "Platform Engineer", "confidence": 0.6}
		]
	}`}
	c := newTestClassifier(t, client, storage.NewMemoryStore())

	obs := c.ClassifyField(context.Background(), model.FieldJobTitle, "engineer")

	require.Len(t, obs.Candidates, 3)
	assert.Equal(t, "Backend Engineer", obs.Candidates[0].Role)
	assert.Equal(t, "Full Stack Engineer", obs.Candidates[2].Role)
}

func TestClassifyField_OutOfRangeLevelDropped(t *testing.T) {
	client := &mockClient{response: `{
		"candidates": [{"canonical_role": "Backend Engineer", "confidence": 0.9}],
		"level": 9
	}`}
	c := newTestClassifier(t, client, storage.NewMemoryStore())

	obs := c.ClassifyField(context.Background(), model.FieldRoleTitle, "principal engineer")

	assert.Nil(t, obs.Level)
}

func TestClassifyField_CacheHitSkipsProvider(t *testing.T) {
	client := &mockClient{response: `{
		"candidates": [{"canonical_role": "Data Engineer", "confidence": 0.9}]
	}`}
	store := storage.NewMemoryStore()
	c := newTestClassifier(t, client, store)
	ctx := context.Background()

	first := c.ClassifyField(ctx, model.FieldRoleTitle, "Data Engineer II")
	require.Len(t, first.Candidates, 1)
	assert.Equal(t, 1, client.calls)

	// Same term again, and a whitespace/case variant: both served from cache.
	second := c.ClassifyField(ctx, model.FieldRoleTitle, "Data Engineer II")
	third := c.ClassifyField(ctx, model.FieldJobTitle, "  data   engineer ii ")

	assert.Equal(t, 1, client.calls)
	assert.Equal(t, first.Candidates, second.Candidates)
	assert.Equal(t, first.Candidates, third.Candidates)
	// The observation is reshaped to the requesting field.
	assert.Equal(t, model.FieldJobTitle, third.Field)
	assert.Equal(t, "  data   engineer ii ", third.Text)
}

func TestClassifyField_TransportFailureNotCached(t *testing.T) {
	client := &mockClient{err: errors.New("connection refused")}
	store := storage.NewMemoryStore()
	c := newTestClassifier(t, client, store)

	obs := c.ClassifyField(context.Background(), model.FieldRoleTitle, "SDET")

	assert.False(t, obs.HasCandidates())
	assert.Contains(t, obs.Err, "connection refused")
	// Transient failures must not poison the cache.
	assert.Equal(t, 0, store.Size())
}

func TestClassifyField_ParseFailureCached(t *testing.T) {
	client := &mockClient{response: "I believe this person tests software."}
	store := storage.NewMemoryStore()
	c := newTestClassifier(t, client, store)
	ctx := context.Background()

	first := c.ClassifyField(ctx, model.FieldRoleTitle, "SDET")
	require.NotEmpty(t, first.Err)
	assert.False(t, first.HasCandidates())
	assert.Equal(t, 1, store.Size())

	// The cached failure short-circuits the provider on the next run.
	second := c.ClassifyField(ctx, model.FieldRoleTitle, "SDET")
	assert.Equal(t, 1, client.calls)
	assert.Equal(t, first.Err, second.Err)
}

func TestClassifyField_SuccessCached(t *testing.T) {
	client := &mockClient{response: `{
		"candidates": [{"canonical_role": "QA Engineer (Manual)", "confidence": 0.8}]
	}`}
	store := storage.NewMemoryStore()
	c := newTestClassifier(t, client, store)

	c.ClassifyField(context.Background(), model.FieldVendorRole, "manual tester")

	cached, err := store.GetTerm(context.Background(), service.TermKey{
		Term:            "manual tester",
		Model:           "test-model",
		TaxonomyVersion: taxonomy.DefaultVersion,
		PromptVersion:   "v1",
	})
	require.NoError(t, err)
	require.Len(t, cached.Candidates, 1)
	assert.Equal(t, "QA Engineer (Manual)", cached.Candidates[0].Role)
}

func TestBuildFieldPrompt(t *testing.T) {
	tax := taxonomy.Default()
	prompt := buildFieldPrompt(tax, model.FieldRoleTitle, "Senior SDET")

	assert.Contains(t, prompt, "Senior SDET")
	assert.Contains(t, prompt, "role_title")
	// Every canonical role is offered to the model.
	for _, role := range tax.Roles() {
		assert.Contains(t, prompt, role)
	}
}
