package engine

import (
	"sort"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
	"github.com/rbaxabr/role-taxonomy-ensemble/internal/taxonomy"
)

// breakdownSize caps the ranked score lists carried for audit output.
const breakdownSize = 5

// Aggregator combines per-field candidate lists into one family decision and
// one role decision. It owns no mutable state: Aggregate is a pure function
// of the observations, the taxonomy, and the configured policy.
type Aggregator struct {
	tax        *taxonomy.Taxonomy
	weights    FieldWeights
	thresholds Thresholds
}

// NewAggregator creates an aggregator bound to a taxonomy and policy.
func NewAggregator(tax *taxonomy.Taxonomy, weights FieldWeights, thresholds Thresholds) *Aggregator {
	return &Aggregator{
		tax:        tax,
		weights:    weights,
		thresholds: thresholds,
	}
}

// Aggregate resolves the family first and only then the role within it.
// Canonical roles are fine-grained while families are coarse; candidates
// from different fields often split confidence across roles of the same
// family, so crediting agreement at the family level before refining keeps
// a flat vote from under-counting true consensus.
func (a *Aggregator) Aggregate(observations map[string]model.FieldObservation) model.AggregationResult {
	contributing := 0
	roleScores := make(map[string]float64)
	familyScores := make(map[string]float64)

	for field, obs := range observations {
		weight := a.weights[field]
		if obs.HasCandidates() {
			contributing++
		}

		for _, c := range obs.Candidates {
			roleScores[c.Role] += weight * c.Confidence

			if family, ok := a.tax.FamilyOf(c.Role); ok {
				familyScores[family] += weight * c.Confidence
			}
		}
	}

	rankedFamilies := rankScores(familyScores)

	result := model.AggregationResult{
		ContributingFields: contributing,
		FamilyBreakdown:    topOf(rankedFamilies, breakdownSize),
	}

	if len(rankedFamilies) > 0 {
		result.FinalFamily = rankedFamilies[0].Name
		result.FamilyScore = rankedFamilies[0].Score
	}
	if len(rankedFamilies) > 1 {
		result.FamilySecondScore = rankedFamilies[1].Score
	}
	result.FamilyMargin = result.FamilyScore - result.FamilySecondScore

	// Family review: the coarse decision itself must be trustworthy.
	switch {
	case result.FinalFamily == "":
		result.FamilyNeedsReview = true
	case contributing < 2:
		result.FamilyNeedsReview = true
	case result.FamilyScore < a.thresholds.MinTotalScore:
		result.FamilyNeedsReview = true
	case result.FamilyMargin < a.thresholds.MinMargin:
		result.FamilyNeedsReview = true
	}

	// Role competition is restricted to roles of the winning family.
	var rankedRoles []model.ScoredName
	if result.FinalFamily != "" {
		withinFamily := make(map[string]float64)
		for role, score := range roleScores {
			if family, ok := a.tax.FamilyOf(role); ok && family == result.FinalFamily {
				withinFamily[role] = score
			}
		}
		rankedRoles = rankScores(withinFamily)
	}
	result.RoleBreakdown = topOf(rankedRoles, breakdownSize)

	if len(rankedRoles) > 0 {
		result.FinalRole = rankedRoles[0].Name
		result.RoleScore = rankedRoles[0].Score
	}
	if len(rankedRoles) > 1 {
		result.RoleSecondScore = rankedRoles[1].Score
	}
	result.RoleMargin = result.RoleScore - result.RoleSecondScore

	// An uncertain family makes any role choice within it meaningless, so
	// family review always implies role review. Role thresholds only apply
	// once the family is trusted.
	switch {
	case result.FinalRole == "":
		result.RoleNeedsReview = true
	case result.FamilyNeedsReview:
		result.RoleNeedsReview = true
	case result.RoleScore < a.thresholds.MinTotalScore*a.thresholds.RoleScale:
		result.RoleNeedsReview = true
	case result.RoleMargin < a.thresholds.MinMargin*a.thresholds.RoleScale:
		result.RoleNeedsReview = true
	}

	result.NeedsReview = result.FamilyNeedsReview || result.RoleNeedsReview

	return result
}

// rankScores orders a score map descending, breaking score ties by name so
// equal inputs always rank identically.
func rankScores(scores map[string]float64) []model.ScoredName {
	ranked := make([]model.ScoredName, 0, len(scores))
	for name, score := range scores {
		ranked = append(ranked, model.ScoredName{Name: name, Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})
	return ranked
}

func topOf(ranked []model.ScoredName, n int) []model.ScoredName {
	if len(ranked) < n {
		n = len(ranked)
	}
	out := make([]model.ScoredName, n)
	copy(out, ranked[:n])
	return out
}
