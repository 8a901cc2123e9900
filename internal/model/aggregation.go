package model

// ScoredName pairs a family or role name with its accumulated weighted score.
type ScoredName struct {
	Name  string
	Score float64
}

// AggregationResult is the per-record output of combining all field
// observations into one two-level decision. It is derived state only: it is
// recomputed from the observations every time and never persisted on its own.
type AggregationResult struct {
	FinalFamily string
	FinalRole   string

	FamilyScore       float64
	FamilySecondScore float64
	FamilyMargin      float64
	FamilyNeedsReview bool

	RoleScore       float64
	RoleSecondScore float64
	RoleMargin      float64
	RoleNeedsReview bool

	// Top-ranked families and top-ranked roles within the winning family,
	// kept for audit output.
	FamilyBreakdown []ScoredName
	RoleBreakdown   []ScoredName

	ContributingFields int
	NeedsReview        bool
}
