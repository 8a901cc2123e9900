package engine

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/taxonomy"
)

// stubClassifier maps normalized-ish text to fixed observations.
type stubClassifier struct {
	byText map[string]model.FieldObservation
}

func (s *stubClassifier) ClassifyField(_ context.Context, field, text string) model.FieldObservation {
	if obs, ok := s.byText[text]; ok {
		obs.Field = field
		obs.Text = text
		return obs
	}
	return model.EmptyObservation(field, text)
}

func newTestEngine(classifier *stubClassifier, opts ...Option) *Engine {
	agg := NewAggregator(taxonomy.Default(), DefaultFieldWeights(), DefaultThresholds())
	return New(classifier, agg, slog.Default(), opts...)
}

func TestProcessRecord(t *testing.T) {
	classifier := &stubClassifier{byText: map[string]model.FieldObservation{
		"Senior SDET": {
			Candidates: model.CandidateList{
				{Role: "SDET (Software Development Engineer in Test)", Confidence: 0.9},
			},
			Level: intPtr(4),
		},
		"QA Lead": {
			Candidates: model.CandidateList{
				{Role: "SDET (Software Development Engineer in Test)", Confidence: 0.8},
			},
		},
		"Test Automation Contractor": {
			Candidates: model.CandidateList{
				{Role: "SDET (Software Development Engineer in Test)", Confidence: 0.85},
			},
			Specialization: "test automation",
		},
	}}
	eng := newTestEngine(classifier)

	row := eng.ProcessRecord(context.Background(), model.Record{
		Username:   "jdoe",
		RoleTitle:  "  Senior SDET  ", // field text is trimmed before classification
		JobTitle:   "QA Lead",
		VendorRole: "Test Automation Contractor",
	})

	assert.Equal(t, "jdoe", row.Record.Username)
	assert.Equal(t, "Quality Engineering", row.Result.FinalFamily)
	assert.Equal(t, "SDET (Software Development Engineer in Test)", row.Result.FinalRole)
	assert.False(t, row.Result.NeedsReview)

	// Vendor role is highest priority and supplies a specialization, so it
	// wins both resolved attributes: level stays nil.
	assert.Nil(t, row.Level)
	assert.Equal(t, "test automation", row.Specialization)

	assert.Contains(t, row.RoleTitleCandidates, "SDET")
	assert.Empty(t, row.Errors)
}

func TestProcessRecord_FieldErrorsCollected(t *testing.T) {
	classifier := &stubClassifier{byText: map[string]model.FieldObservation{
		"good title": {
			Candidates: model.CandidateList{{Role: "Backend Engineer", Confidence: 0.9}},
		},
		"bad title": {
			Candidates: model.CandidateList{},
			Err:        "malformed classifier response",
		},
	}}
	eng := newTestEngine(classifier)

	row := eng.ProcessRecord(context.Background(), model.Record{
		Username:  "jdoe",
		RoleTitle: "bad title",
		JobTitle:  "good title",
	})

	// A failing field degrades its contribution but the row still exists.
	assert.Contains(t, row.Errors, "role_title: malformed classifier response")
	assert.Equal(t, "Software Engineering", row.Result.FinalFamily)
	assert.True(t, row.Result.NeedsReview)
}

func TestProcessRecord_EmptyRecord(t *testing.T) {
	eng := newTestEngine(&stubClassifier{})

	row := eng.ProcessRecord(context.Background(), model.Record{Username: "ghost"})

	assert.Empty(t, row.Result.FinalFamily)
	assert.True(t, row.Result.NeedsReview)
	assert.Empty(t, row.Errors)
	assert.Equal(t, "[]", row.RoleTitleCandidates)
	assert.Equal(t, "[]", row.JobTitleCandidates)
	assert.Equal(t, "[]", row.VendorRoleCandidates)
}

func TestProcessRecords(t *testing.T) {
	classifier := &stubClassifier{byText: map[string]model.FieldObservation{
		"SDET": {
			Candidates: model.CandidateList{
				{Role: "SDET (Software Development Engineer in Test)", Confidence: 0.9},
			},
		},
	}}
	eng := newTestEngine(classifier)

	records := []model.Record{
		{Username: "a", RoleTitle: "SDET", JobTitle: "SDET", VendorRole: "SDET"},
		{Username: "b"},
		{Username: "c", RoleTitle: "SDET", JobTitle: "SDET"},
	}

	rows, err := eng.ProcessRecords(context.Background(), records)
	require.NoError(t, err)
	require.Len(t, rows, 3, "always one output row per input record")

	assert.False(t, rows[0].Result.NeedsReview)
	assert.True(t, rows[1].Result.NeedsReview)
	assert.Equal(t, 2, countReview(rows))
}

func TestProcessRecords_CancellationStopsBetweenRecords(t *testing.T) {
	eng := newTestEngine(&stubClassifier{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows, err := eng.ProcessRecords(ctx, []model.Record{{Username: "a"}, {Username: "b"}})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rows)
}

func TestProcessRecords_ProgressOutput(t *testing.T) {
	var buf bytes.Buffer
	eng := newTestEngine(&stubClassifier{}, WithProgress(&buf))

	_, err := eng.ProcessRecords(context.Background(), []model.Record{{Username: "a"}})
	require.NoError(t, err)

	assert.True(t, strings.Contains(buf.String(), "Classifying records"))
}

func TestMarshalCandidates(t *testing.T) {
	assert.Equal(t, "[]", marshalCandidates(nil))
	assert.Equal(t, "[]", marshalCandidates(model.CandidateList{}))

	got := marshalCandidates(model.CandidateList{{Role: "Data Engineer", Confidence: 0.5}})
	assert.JSONEq(t, `[{"canonical_role":"Data Engineer","confidence":0.5}]`, got)
}
