package model

// Record is one input row: a username plus the three independently-sourced
// title fields describing the same person.
type Record struct {
	Username   string
	RoleTitle  string
	JobTitle   string
	VendorRole string
}

// FieldText returns the raw text for a named field.
func (r *Record) FieldText(field string) string {
	switch field {
	case FieldRoleTitle:
		return r.RoleTitle
	case FieldJobTitle:
		return r.JobTitle
	case FieldVendorRole:
		return r.VendorRole
	default:
		return ""
	}
}

// ResultRow is one output row of the record pipeline, combining the input
// fields, the aggregated decision, resolved attributes, and audit columns.
type ResultRow struct {
	Record         Record
	Result         AggregationResult
	Level          *int
	Specialization string

	// Serialized sanitized candidate lists per field, for audit.
	RoleTitleCandidates  string
	JobTitleCandidates   string
	VendorRoleCandidates string

	// Per-field error messages joined with " | ".
	Errors string
}
