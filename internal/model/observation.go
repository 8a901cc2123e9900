package model

// Field names observed on every input record.
const (
	FieldRoleTitle  = "role_title"
	FieldJobTitle   = "job_title"
	FieldVendorRole = "vendor_role"
)

// FieldNames lists the observed fields in record-column order.
var FieldNames = []string{FieldRoleTitle, FieldJobTitle, FieldVendorRole}

// FieldObservation is the sanitized result of classifying one field's text.
// It is built once per (record, field) pair and never mutated afterwards.
type FieldObservation struct {
	Field          string        `json:"field"`
	Text           string        `json:"text"`
	Candidates     CandidateList `json:"candidates"`
	Level          *int          `json:"level"`
	Specialization string        `json:"specialization,omitempty"`
	Err            string        `json:"error,omitempty"`
}

// HasCandidates reports whether the observation contributes any candidates.
func (o *FieldObservation) HasCandidates() bool {
	return len(o.Candidates) > 0
}

// EmptyObservation returns the observation for a field with no text. It
// contributes nothing and records no error.
func EmptyObservation(field, text string) FieldObservation {
	return FieldObservation{
		Field:      field,
		Text:       text,
		Candidates: CandidateList{},
	}
}
