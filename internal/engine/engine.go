package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/schollz/progressbar/v3"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/service"
)

// Engine drives the record pipeline: classify each field of each record,
// aggregate, resolve attributes, and emit one result row per record.
// Processing is sequential by design - the classifier's own throttle paces
// the external calls.
type Engine struct {
	classifier service.FieldClassifier
	aggregator *Aggregator
	logger     *slog.Logger
	progressTo io.Writer
}

// Option configures an Engine.
type Option func(*Engine)

// WithProgress draws a progress bar over records to the given writer.
func WithProgress(w io.Writer) Option {
	return func(e *Engine) {
		e.progressTo = w
	}
}

// New creates a record pipeline engine.
func New(classifier service.FieldClassifier, aggregator *Aggregator, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		classifier: classifier,
		aggregator: aggregator,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProcessRecord classifies all fields of one record and aggregates them.
// Field-level failures degrade that field's contribution; they never abort
// the record, so a row is always produced.
func (e *Engine) ProcessRecord(ctx context.Context, rec model.Record) model.ResultRow {
	observations := make(map[string]model.FieldObservation, len(model.FieldNames))
	var fieldErrors []string

	for _, field := range model.FieldNames {
		text := strings.TrimSpace(rec.FieldText(field))
		obs := e.classifier.ClassifyField(ctx, field, text)
		observations[field] = obs
		if obs.Err != "" {
			fieldErrors = append(fieldErrors, fmt.Sprintf("%s: %s", field, obs.Err))
		}
	}

	result := e.aggregator.Aggregate(observations)
	level, specialization := ResolveLevelSpec(observations)

	row := model.ResultRow{
		Record:               rec,
		Result:               result,
		Level:                level,
		Specialization:       specialization,
		RoleTitleCandidates:  marshalCandidates(observations[model.FieldRoleTitle].Candidates),
		JobTitleCandidates:   marshalCandidates(observations[model.FieldJobTitle].Candidates),
		VendorRoleCandidates: marshalCandidates(observations[model.FieldVendorRole].Candidates),
		Errors:               strings.Join(fieldErrors, " | "),
	}

	e.logger.Debug("record processed",
		"username", rec.Username,
		"family", result.FinalFamily,
		"role", result.FinalRole,
		"needs_review", result.NeedsReview)

	return row
}

// ProcessRecords runs the pipeline over all records in order. Cancellation
// is honored between records; a canceled run returns the rows completed so
// far along with the context error.
func (e *Engine) ProcessRecords(ctx context.Context, records []model.Record) ([]model.ResultRow, error) {
	bar := e.newProgressBar(len(records))

	rows := make([]model.ResultRow, 0, len(records))
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return rows, fmt.Errorf("processing stopped after %d of %d records: %w", i, len(records), err)
		}

		rows = append(rows, e.ProcessRecord(ctx, rec))

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	e.logger.Info("pipeline finished",
		"records", len(rows),
		"needs_review", countReview(rows))

	return rows, nil
}

func (e *Engine) newProgressBar(total int) *progressbar.ProgressBar {
	if e.progressTo == nil || total == 0 {
		return nil
	}
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(e.progressTo),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Classifying records..."),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(e.progressTo)
		}),
	)
}

func countReview(rows []model.ResultRow) int {
	count := 0
	for _, row := range rows {
		if row.Result.NeedsReview {
			count++
		}
	}
	return count
}

// marshalCandidates serializes a sanitized candidate list for the audit
// columns. A marshal failure cannot happen for these value types.
func marshalCandidates(candidates model.CandidateList) string {
	if candidates == nil {
		candidates = model.CandidateList{}
	}
	data, err := json.Marshal(candidates)
	if err != nil {
		return "[]"
	}
	return string(data)
}
