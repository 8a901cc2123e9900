// Package engine contains the decision core: the family-first aggregator,
// the level/specialization resolver, and the record pipeline that drives
// them.
package engine

import (
	"fmt"
	"math"

	"github.com/rbaxabr/role-taxonomy-ensemble/internal/model"
)

// Thresholds are the decision policy knobs. They are configuration loaded at
// process start and passed by reference, never constants buried in the
// algorithm.
type Thresholds struct {
	// MinTotalScore is the floor for the top aggregated family score.
	MinTotalScore float64
	// MinMargin is the floor for the gap between the top two families.
	MinMargin float64
	// RoleScale loosens the role-level thresholds relative to the family
	// ones. Role disambiguation inside a trusted family is a finer, noisier
	// distinction; the 0.8 default comes from operating experience and is a
	// tunable policy, not a law.
	RoleScale float64
}

// DefaultThresholds returns the standard decision policy.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinTotalScore: 0.70,
		MinMargin:     0.10,
		RoleScale:     0.8,
	}
}

// Validate checks the thresholds are usable.
func (t Thresholds) Validate() error {
	if t.MinTotalScore <= 0 || t.MinTotalScore > 1 {
		return fmt.Errorf("min total score must be in (0,1], got %v", t.MinTotalScore)
	}
	if t.MinMargin < 0 || t.MinMargin > 1 {
		return fmt.Errorf("min margin must be in [0,1], got %v", t.MinMargin)
	}
	if t.RoleScale <= 0 || t.RoleScale > 1 {
		return fmt.Errorf("role scale must be in (0,1], got %v", t.RoleScale)
	}
	return nil
}

// FieldWeights is the trust placed in each source field. Weights sum to 1.
type FieldWeights map[string]float64

// DefaultFieldWeights trusts the three fields equally.
func DefaultFieldWeights() FieldWeights {
	return FieldWeights{
		model.FieldRoleTitle:  1.0 / 3.0,
		model.FieldJobTitle:   1.0 / 3.0,
		model.FieldVendorRole: 1.0 / 3.0,
	}
}

// Validate checks the weights cover known fields and sum to 1.
func (w FieldWeights) Validate() error {
	if len(w) == 0 {
		return fmt.Errorf("no field weights configured")
	}
	var sum float64
	for field, weight := range w {
		if weight < 0 {
			return fmt.Errorf("field %q has negative weight %v", field, weight)
		}
		sum += weight
	}
	if math.Abs(sum-1.0) > 1e-9 {
		return fmt.Errorf("field weights must sum to 1, got %v", sum)
	}
	return nil
}
