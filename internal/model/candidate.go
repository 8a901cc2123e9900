// Package model defines the core domain types used throughout the application.
package model

import (
	"fmt"
	"sort"
)

// Candidate is one canonical role proposed for a field's text, with the
// classifier's confidence in it.
type Candidate struct {
	Role       string  `json:"canonical_role"`
	Confidence float64 `json:"confidence"`
}

// Validate ensures the Candidate has usable data.
func (c *Candidate) Validate() error {
	if c.Role == "" {
		return fmt.Errorf("candidate role is required")
	}
	if c.Confidence < 0.0 || c.Confidence > 1.0 {
		return fmt.Errorf("confidence must be between 0.0 and 1.0, got %.2f", c.Confidence)
	}
	return nil
}

// CandidateList is an ordered set of candidates that supports sorting and
// utility methods.
type CandidateList []Candidate

// Len implements sort.Interface.
func (l CandidateList) Len() int {
	return len(l)
}

// Less implements sort.Interface - higher confidences come first.
func (l CandidateList) Less(i, j int) bool {
	if l[i].Confidence != l[j].Confidence {
		return l[i].Confidence > l[j].Confidence
	}
	// Equal confidences fall back to role name so ordering is deterministic.
	return l[i].Role < l[j].Role
}

// Swap implements sort.Interface.
func (l CandidateList) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}

// Sort orders the list by confidence in descending order.
func (l CandidateList) Sort() {
	sort.Sort(l)
}

// Top returns the highest-confidence candidate, or nil if the list is empty.
func (l CandidateList) Top() *Candidate {
	if len(l) == 0 {
		return nil
	}
	l.Sort()
	return &l[0]
}

// TopN returns the N highest-confidence candidates.
func (l CandidateList) TopN(n int) CandidateList {
	if n <= 0 {
		return CandidateList{}
	}

	l.Sort()

	if n > len(l) {
		n = len(l)
	}

	result := make(CandidateList, n)
	copy(result, l[:n])
	return result
}

// Validate ensures all candidates in the list are valid and unique.
func (l CandidateList) Validate() error {
	seen := make(map[string]bool)

	for i, c := range l {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("invalid candidate at index %d: %w", i, err)
		}
		if seen[c.Role] {
			return fmt.Errorf("duplicate role %q in candidates", c.Role)
		}
		seen[c.Role] = true
	}

	return nil
}
