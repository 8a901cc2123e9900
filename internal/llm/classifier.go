package llm

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/common"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/service"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/storage"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/taxonomy"
)

const (
	// MinCandidateConfidence is the acceptance floor: candidates below it
	// are dropped during sanitization.
	MinCandidateConfidence = 0.10

	// maxCandidates bounds the sanitized candidate list per field.
	maxCandidates = 3
)

// FieldClassifier classifies one field's text against the taxonomy, reading
// through the term cache and writing results (including deterministic parse
// failures) back to it.
type FieldClassifier struct {
	client        Client
	store         service.TermStore
	tax           *taxonomy.Taxonomy
	logger        *slog.Logger
	rateLimiter   *rateLimiter
	retryOpts     service.RetryOptions
	modelID       string
	promptVersion string
}

// NewFieldClassifier creates a classifier bound to a store, a taxonomy, and
// a provider client. The store handle is injected so tests and the demo can
// substitute an in-memory store.
func NewFieldClassifier(cfg Config, client Client, store service.TermStore, tax *taxonomy.Taxonomy, promptVersion string, logger *slog.Logger) *FieldClassifier {
	retryOpts := service.RetryOptions{
		MaxAttempts:  cfg.MaxRetries,
		InitialDelay: cfg.RetryDelay,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
	if retryOpts.MaxAttempts == 0 {
		retryOpts.MaxAttempts = 3
	}
	if retryOpts.InitialDelay == 0 {
		retryOpts.InitialDelay = time.Second
	}

	if promptVersion == "" {
		promptVersion = "v1"
	}

	return &FieldClassifier{
		client:        client,
		store:         store,
		tax:           tax,
		logger:        logger,
		rateLimiter:   newRateLimiter(cfg.RateLimit),
		retryOpts:     retryOpts,
		modelID:       cfg.Model,
		promptVersion: promptVersion,
	}
}

// key builds the versioned cache key for a term.
func (c *FieldClassifier) key(text string) service.TermKey {
	return service.TermKey{
		Term:            text,
		Model:           c.modelID,
		TaxonomyVersion: c.tax.Version,
		PromptVersion:   c.promptVersion,
	}
}

// ClassifyField produces the sanitized observation for one field's text.
// Failures never surface as errors: a transport failure or malformed
// response degrades into an observation that carries the error message and
// contributes no candidates.
func (c *FieldClassifier) ClassifyField(ctx context.Context, field, text string) model.FieldObservation {
	if text == "" {
		return model.EmptyObservation(field, text)
	}

	// Cache read-through short-circuits the provider entirely.
	if cached, err := c.store.GetTerm(ctx, c.key(text)); err == nil {
		c.logger.Debug("term cache hit", "field", field, "text", text)
		obs := *cached
		obs.Field = field
		obs.Text = text
		return obs
	} else if !errors.Is(err, storage.ErrNotFound) {
		c.logger.Warn("term cache lookup failed", "field", field, "error", err)
	}

	raw, err := c.complete(ctx, buildFieldPrompt(c.tax, field, text))
	if err != nil {
		c.logger.Warn("classifier call failed", "field", field, "text", text, "error", err)
		return model.FieldObservation{
			Field:      field,
			Text:       text,
			Candidates: model.CandidateList{},
			Err:        err.Error(),
		}
	}

	payload, parseErr := parseFieldPayload(raw)
	if parseErr != nil {
		obs := model.FieldObservation{
			Field:      field,
			Text:       text,
			Candidates: model.CandidateList{},
			Err:        parseErr.Error(),
		}
		// A malformed response for a given term and version is deterministic
		// enough to cache; this keeps a persistently-bad input from hammering
		// the provider on every run.
		c.cache(ctx, text, &obs)
		c.logger.Warn("malformed classifier response cached", "field", field, "text", text, "error", parseErr.Err)
		return obs
	}

	obs := c.sanitize(field, text, payload)
	c.cache(ctx, text, &obs)

	c.logger.Info("field classified",
		"field", field,
		"text", text,
		"candidates", len(obs.Candidates))

	return obs
}

// complete runs one provider call behind the rate limiter and retry policy.
func (c *FieldClassifier) complete(ctx context.Context, prompt string) (string, error) {
	if err := c.rateLimiter.wait(ctx); err != nil {
		return "", err
	}

	var raw string
	err := common.WithRetry(ctx, func() error {
		response, err := c.client.Complete(ctx, prompt)
		if err != nil {
			return &common.RetryableError{Err: err, Retryable: true}
		}
		raw = response
		return nil
	}, c.retryOpts)
	if err != nil {
		return "", err
	}

	return raw, nil
}

// sanitize converts an untrusted payload into a trusted observation: roles
// outside the canonical set and confidences below the floor are dropped, the
// survivors are re-sorted and truncated to the top three, level is kept only
// when integral and in [1,5], specialization only when non-empty after
// trimming. Sanitizing an already-sanitized list is a no-op.
func (c *FieldClassifier) sanitize(field, text string, payload *fieldPayload) model.FieldObservation {
	cleaned := make(model.CandidateList, 0, len(payload.Candidates))
	for _, rc := range payload.Candidates {
		conf, ok := coerceFloat(rc.Confidence)
		if !ok {
			continue
		}
		if !c.tax.Contains(rc.CanonicalRole) || conf < MinCandidateConfidence {
			continue
		}
		cleaned = append(cleaned, model.Candidate{Role: rc.CanonicalRole, Confidence: conf})
	}
	cleaned = cleaned.TopN(maxCandidates)

	obs := model.FieldObservation{
		Field:      field,
		Text:       text,
		Candidates: cleaned,
	}

	if lvl, ok := coerceLevel(payload.Level); ok && lvl >= 1 && lvl <= 5 {
		obs.Level = &lvl
	}
	if spec, ok := payload.Specialization.(string); ok {
		if trimmed := strings.TrimSpace(spec); trimmed != "" {
			obs.Specialization = trimmed
		}
	}

	return obs
}

// cache persists an observation, logging rather than failing on error: a
// cache write failure costs a future provider call, not correctness.
func (c *FieldClassifier) cache(ctx context.Context, text string, obs *model.FieldObservation) {
	if err := c.store.PutTerm(ctx, c.key(text), obs); err != nil {
		c.logger.Warn("term cache write failed", "text", text, "error", err)
	}
}

// Close stops background goroutines.
func (c *FieldClassifier) Close() error {
	if c.rateLimiter != nil {
		c.rateLimiter.Close()
	}
	return nil
}
